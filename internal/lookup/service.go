package lookup

import (
	"context"
	"fmt"

	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/logger"
	"go.uber.org/multierr"
)

// Store is one lookup source.
type Store interface {
	Name() string
	Find(ctx context.Context, q Query) (*Snapshot, error)
}

// Result wraps the matched snapshot with the source that answered, so the
// client can tell live data from a possibly stale cached copy.
type Result struct {
	Source      string    `json:"source"`
	Reservation *Snapshot `json:"reservation"`
}

// Service runs the remote-first lookup with cache fallback.
type Service interface {
	Find(ctx context.Context, q Query) (*Result, error)
}

type service struct {
	primary  Store
	fallback Store
	logg     *logger.Logger
}

// NewService builds the lookup service. The fallback store is optional.
func NewService(primary, fallback Store, logg *logger.Logger) (Service, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary lookup store required")
	}
	return &service{primary: primary, fallback: fallback, logg: logg}, nil
}

// Find queries the primary store first. Any primary failure, a miss
// included, consults the fallback snapshots. When both fail, the errors are
// combined so the caller sees the whole picture.
func (s *service) Find(ctx context.Context, q Query) (*Result, error) {
	q = q.Normalize()
	if q.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one search term required")
	}

	snap, primaryErr := s.primary.Find(ctx, q)
	if primaryErr == nil {
		return &Result{Source: s.primary.Name(), Reservation: snap}, nil
	}

	if s.fallback == nil {
		return nil, primaryErr
	}

	if s.logg != nil {
		warnCtx := s.logg.WithField(ctx, "error", primaryErr.Error())
		s.logg.Warn(warnCtx, "lookup.primary_failed")
	}

	snap, fallbackErr := s.fallback.Find(ctx, q)
	if fallbackErr == nil {
		return &Result{Source: s.fallback.Name(), Reservation: snap}, nil
	}

	combined := multierr.Combine(primaryErr, fallbackErr)
	if typed := pkgerrors.As(fallbackErr); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, combined, "reservation not found")
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "lookup unavailable")
}
