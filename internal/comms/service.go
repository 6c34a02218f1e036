package comms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chefknifeworks/crm-backend/internal/reservations"
	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
)

// Entry is the API view of one log line.
type Entry struct {
	Channel   enums.CommChannel   `json:"channel"`
	Direction enums.CommDirection `json:"direction"`
	Summary   string              `json:"summary"`
	Content   *string             `json:"content,omitempty"`
	SentBy    *string             `json:"sent_by,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// LogInput describes one communication to record. Direction defaults to
// outbound when unset.
type LogInput struct {
	ReservationID string
	Channel       enums.CommChannel
	Direction     enums.CommDirection
	Summary       string
	Content       *string
	SentBy        *string
}

// Service records customer communications. The log is append-only and keeps
// duplicates: two identical texts sent twice are two rows.
type Service interface {
	Log(ctx context.Context, input LogInput) (*Entry, error)
	History(ctx context.Context, reservationID string) ([]Entry, error)
}

type service struct {
	repo    Repository
	resRepo reservations.Repository
}

// NewService builds the communications service.
func NewService(repo Repository, resRepo reservations.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("communications repository required")
	}
	if resRepo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	return &service{repo: repo, resRepo: resRepo}, nil
}

func (s *service) Log(ctx context.Context, input LogInput) (*Entry, error) {
	if input.ReservationID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}
	if !input.Channel.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown communication channel").
			WithDetails(map[string]any{"channel": input.Channel.String()})
	}
	if input.Direction == "" {
		input.Direction = enums.CommDirectionOutbound
	}
	if !input.Direction.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown communication direction").
			WithDetails(map[string]any{"direction": input.Direction.String()})
	}
	if strings.TrimSpace(input.Summary) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "summary required")
	}

	exists, err := s.resRepo.ReservationExists(ctx, input.ReservationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}

	entry := &models.Communication{
		ReservationID: input.ReservationID,
		Channel:       input.Channel,
		Direction:     input.Direction,
		Summary:       input.Summary,
		Content:       input.Content,
		SentBy:        input.SentBy,
	}
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create communication")
	}
	return entryFromModel(created), nil
}

func (s *service) History(ctx context.Context, reservationID string) ([]Entry, error) {
	if reservationID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}
	rows, err := s.repo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list communications")
	}
	out := make([]Entry, 0, len(rows))
	for i := range rows {
		out = append(out, *entryFromModel(&rows[i]))
	}
	return out, nil
}

func entryFromModel(m *models.Communication) *Entry {
	return &Entry{
		Channel:   m.Channel,
		Direction: m.Direction,
		Summary:   m.Summary,
		Content:   m.Content,
		SentBy:    m.SentBy,
		CreatedAt: m.CreatedAt,
	}
}
