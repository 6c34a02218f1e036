package lookup

import (
	"context"
	"testing"

	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
)

type stubStore struct {
	name  string
	snap  *Snapshot
	err   error
	calls int
	last  Query
}

func (s *stubStore) Name() string { return s.name }

func (s *stubStore) Find(ctx context.Context, q Query) (*Snapshot, error) {
	s.calls++
	s.last = q
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func TestFindPrimaryWins(t *testing.T) {
	primary := &stubStore{name: "remote", snap: &Snapshot{ReservationID: "AB12CD"}}
	fallback := &stubStore{name: "cache"}

	svc, err := NewService(primary, fallback, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	result, err := svc.Find(context.Background(), Query{ReservationID: "ab12cd"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if result.Source != "remote" {
		t.Fatalf("source = %q, want remote", result.Source)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback consulted despite primary success")
	}
	if primary.last.ReservationID != "AB12CD" {
		t.Fatalf("query not normalized before store: %q", primary.last.ReservationID)
	}
}

func TestFindFallsBackWhenPrimaryUnavailable(t *testing.T) {
	primary := &stubStore{
		name: "remote",
		err:  pkgerrors.New(pkgerrors.CodeDependency, "database unreachable"),
	}
	fallback := &stubStore{name: "cache", snap: &Snapshot{ReservationID: "AB12CD", Status: "ready"}}

	svc, err := NewService(primary, fallback, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	result, err := svc.Find(context.Background(), Query{ReservationID: "AB12CD"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if result.Source != "cache" {
		t.Fatalf("source = %q, want cache", result.Source)
	}
	if result.Reservation.Status != "ready" {
		t.Fatalf("unexpected snapshot: %+v", result.Reservation)
	}
}

func TestFindNotFoundWhenBothMiss(t *testing.T) {
	primary := &stubStore{
		name: "remote",
		err:  pkgerrors.New(pkgerrors.CodeDependency, "database unreachable"),
	}
	fallback := &stubStore{
		name: "cache",
		err:  pkgerrors.New(pkgerrors.CodeNotFound, "no cached reservation matches"),
	}

	svc, err := NewService(primary, fallback, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Find(context.Background(), Query{Email: "dana@example.com"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFindDependencyWhenBothStoresFail(t *testing.T) {
	primary := &stubStore{
		name: "remote",
		err:  pkgerrors.New(pkgerrors.CodeDependency, "database unreachable"),
	}
	fallback := &stubStore{
		name: "cache",
		err:  pkgerrors.New(pkgerrors.CodeDependency, "redis unreachable"),
	}

	svc, err := NewService(primary, fallback, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Find(context.Background(), Query{Phone: "555-0101"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestFindRequiresSearchTerm(t *testing.T) {
	primary := &stubStore{name: "remote"}

	svc, err := NewService(primary, nil, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Find(context.Background(), Query{ReservationID: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if primary.calls != 0 {
		t.Fatalf("stores must not be consulted for an empty query")
	}
}
