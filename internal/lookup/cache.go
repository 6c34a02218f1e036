package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chefknifeworks/crm-backend/internal/reservations"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/logger"
	redislib "github.com/redis/go-redis/v9"
)

type snapshotRedis interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ScanKeys(ctx context.Context, pattern string, limit int) ([]string, error)
	ReservationSnapshotKey(reservationID string) string
	ReservationSnapshotPattern() string
}

// CacheStore answers lookups from the Redis snapshot mirror and doubles as
// the snapshot writer the reservation services publish through. Snapshots
// survive a database outage, which is the whole point of the fallback.
type CacheStore struct {
	redis snapshotRedis
	logg  *logger.Logger
	ttl   time.Duration
}

// NewCacheStore builds the snapshot-backed lookup store.
func NewCacheStore(redis snapshotRedis, logg *logger.Logger, ttl time.Duration) (*CacheStore, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &CacheStore{redis: redis, logg: logg, ttl: ttl}, nil
}

func (s *CacheStore) Name() string {
	return "cache"
}

// WriteReservation mirrors a reservation into the snapshot cache. Failures
// are logged and swallowed: the cache is best-effort.
func (s *CacheStore) WriteReservation(ctx context.Context, detail *reservations.Detail) {
	if detail == nil {
		return
	}
	snap := Snapshot{
		ReservationID: detail.ID,
		CustomerName:  detail.Customer.Name,
		Phone:         detail.Customer.Phone,
		Email:         detail.Customer.Email,
		Status:        detail.Status.String(),
		KnifeQuantity: detail.KnifeQuantity,
		DropOffDate:   detail.DropOffDate,
		DropOffTime:   detail.DropOffTime,
		CreatedAt:     detail.CreatedAt.UTC().Format(time.RFC3339),
	}
	if detail.PickupDate != nil {
		snap.PickupDate = *detail.PickupDate
	}

	raw, err := json.Marshal(snap)
	if err == nil {
		err = s.redis.Set(ctx, s.redis.ReservationSnapshotKey(detail.ID), raw, s.ttl)
	}
	if err != nil && s.logg != nil {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"reservation_id": detail.ID,
			"error":          err.Error(),
		})
		s.logg.Warn(warnCtx, "lookup.snapshot_write_failed")
	}
}

// Find searches the snapshot cache. An ID query hits its key directly;
// phone and email queries walk every cached snapshot and return the first
// match.
func (s *CacheStore) Find(ctx context.Context, q Query) (*Snapshot, error) {
	if q.ReservationID != "" {
		raw, err := s.redis.Get(ctx, s.redis.ReservationSnapshotKey(q.ReservationID))
		if err == nil {
			if snap, derr := DecodeSnapshot([]byte(raw)); derr == nil && snap.Matches(q) {
				return snap, nil
			}
		} else if !errors.Is(err, redislib.Nil) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read snapshot")
		}
	}

	if q.Phone == "" && q.Email == "" && q.ReservationID != "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}

	keys, err := s.redis.ScanKeys(ctx, s.redis.ReservationSnapshotPattern(), 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan snapshots")
	}

	for _, key := range keys {
		raw, gerr := s.redis.Get(ctx, key)
		if gerr != nil {
			continue
		}
		snap, derr := DecodeSnapshot([]byte(raw))
		if derr != nil {
			continue
		}
		if snap.Matches(q) {
			return snap, nil
		}
	}

	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
}
