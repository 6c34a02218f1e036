package comms

import (
	"context"
	"testing"

	"github.com/chefknifeworks/crm-backend/internal/reservations"
	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
)

type stubCommsRepo struct {
	entries []models.Communication
}

func (s *stubCommsRepo) Create(ctx context.Context, entry *models.Communication) (*models.Communication, error) {
	s.entries = append(s.entries, *entry)
	return entry, nil
}

func (s *stubCommsRepo) ListByReservation(ctx context.Context, reservationID string) ([]models.Communication, error) {
	out := make([]models.Communication, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ReservationID == reservationID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubResRepo struct {
	reservations.Repository
	exists bool
}

func (s *stubResRepo) ReservationExists(ctx context.Context, id string) (bool, error) {
	return s.exists, nil
}

func buildCommsService(t *testing.T, repo *stubCommsRepo, exists bool) Service {
	t.Helper()
	svc, err := NewService(repo, &stubResRepo{exists: exists})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestLogAppendsEntry(t *testing.T) {
	repo := &stubCommsRepo{}
	svc := buildCommsService(t, repo, true)
	staff := "admin"

	entry, err := svc.Log(context.Background(), LogInput{
		ReservationID: "AB12CD",
		Channel:       enums.CommChannelSMS,
		Summary:       "Your knives are ready.",
		SentBy:        &staff,
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	if entry.Channel != enums.CommChannelSMS {
		t.Fatalf("channel = %s, want sms", entry.Channel)
	}
	if entry.Direction != enums.CommDirectionOutbound {
		t.Fatalf("direction = %s, want outbound by default", entry.Direction)
	}
	if entry.SentBy == nil || *entry.SentBy != "admin" {
		t.Fatalf("sent_by = %v, want admin", entry.SentBy)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(repo.entries))
	}
}

func TestLogInboundCall(t *testing.T) {
	repo := &stubCommsRepo{}
	svc := buildCommsService(t, repo, true)
	detail := "Asked whether the serrated bread knife can be done too."

	entry, err := svc.Log(context.Background(), LogInput{
		ReservationID: "AB12CD",
		Channel:       enums.CommChannelCall,
		Direction:     enums.CommDirectionInbound,
		Summary:       "Customer called about adding a knife",
		Content:       &detail,
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if entry.Direction != enums.CommDirectionInbound {
		t.Fatalf("direction = %s, want inbound", entry.Direction)
	}
	if entry.Content == nil || *entry.Content != detail {
		t.Fatalf("content = %v, want long form preserved", entry.Content)
	}
}

func TestLogKeepsDuplicates(t *testing.T) {
	repo := &stubCommsRepo{}
	svc := buildCommsService(t, repo, true)

	input := LogInput{
		ReservationID: "AB12CD",
		Channel:       enums.CommChannelEmail,
		Summary:       "Reminder: pickup tomorrow.",
	}
	if _, err := svc.Log(context.Background(), input); err != nil {
		t.Fatalf("first log: %v", err)
	}
	if _, err := svc.Log(context.Background(), input); err != nil {
		t.Fatalf("second log: %v", err)
	}

	history, err := svc.History(context.Background(), "AB12CD")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected both duplicate entries, got %d", len(history))
	}
}

func TestLogValidation(t *testing.T) {
	svc := buildCommsService(t, &stubCommsRepo{}, true)

	cases := []LogInput{
		{Channel: enums.CommChannelSMS, Summary: "hi"},
		{ReservationID: "AB12CD", Channel: "carrier-pigeon", Summary: "hi"},
		{ReservationID: "AB12CD", Channel: enums.CommChannelSMS, Direction: "sideways", Summary: "hi"},
		{ReservationID: "AB12CD", Channel: enums.CommChannelSMS, Summary: "   "},
	}
	for _, input := range cases {
		_, err := svc.Log(context.Background(), input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("input %+v: expected validation error, got %v", input, err)
		}
	}
}

func TestLogUnknownReservation(t *testing.T) {
	svc := buildCommsService(t, &stubCommsRepo{}, false)

	_, err := svc.Log(context.Background(), LogInput{
		ReservationID: "ZZZZZZ",
		Channel:       enums.CommChannelNote,
		Summary:       "left a voicemail",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
