package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chefknifeworks/crm-backend/pkg/config"
	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/logger"
	"github.com/chefknifeworks/crm-backend/pkg/security"
	"github.com/chefknifeworks/crm-backend/pkg/types"
	"gorm.io/gorm"
)

// View is the settings payload shown to staff. The password hash never
// leaves the service.
type View struct {
	Username     string             `json:"username"`
	PayPalHandle string             `json:"paypal_handle"`
	Discounts    types.DiscountList `json:"discounts"`
}

// UpdateInput carries the editable settings fields. Nil means unchanged.
type UpdateInput struct {
	Username     *string
	Password     *string
	PayPalHandle *string
	Discounts    *types.DiscountList
}

// Credentials is the stored login pair handed to the auth service.
type Credentials struct {
	Username     string
	PasswordHash string
	// FromBootstrap is true when no settings row exists yet and the pair
	// comes from config. Bootstrap passwords are compared directly, not
	// against an Argon2id hash.
	FromBootstrap bool
}

type snapshotCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SettingsSnapshotKey() string
}

// Service owns the staff settings row and its cached mirror.
type Service interface {
	View(ctx context.Context) (*View, error)
	Update(ctx context.Context, input UpdateInput) (*View, error)
	Credentials(ctx context.Context) (*Credentials, error)
	Pricing(ctx context.Context) (string, types.DiscountList, error)
}

type service struct {
	repo      Repository
	cache     snapshotCache
	logg      *logger.Logger
	passwords config.PasswordConfig
	payment   config.PaymentConfig
	bootstrap config.StaffConfig
	cacheTTL  time.Duration
}

// NewService builds the settings service. The cache is optional.
func NewService(
	repo Repository,
	cache snapshotCache,
	logg *logger.Logger,
	passwords config.PasswordConfig,
	payment config.PaymentConfig,
	bootstrap config.StaffConfig,
	cacheTTL time.Duration,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{
		repo:      repo,
		cache:     cache,
		logg:      logg,
		passwords: passwords,
		payment:   payment,
		bootstrap: bootstrap,
		cacheTTL:  cacheTTL,
	}, nil
}

func (s *service) View(ctx context.Context) (*View, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &View{
			Username:     s.bootstrap.Username,
			PayPalHandle: s.payment.DefaultHandle,
			Discounts:    types.DiscountList{},
		}, nil
	}
	return viewFromModel(row), nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*View, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &models.StaffSettings{
			Username:     s.bootstrap.Username,
			PayPalHandle: s.payment.DefaultHandle,
			Discounts:    types.DiscountList{},
		}
		// A fresh row needs a hash even when only the handle changes.
		if input.Password == nil {
			if s.bootstrap.Password == "" {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "password required to initialize settings")
			}
			hash, herr := security.HashPassword(s.bootstrap.Password, s.passwords)
			if herr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, herr, "hash password")
			}
			row.PasswordHash = hash
		}
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "username cannot be empty")
		}
		row.Username = username
	}
	if input.Password != nil {
		if strings.TrimSpace(*input.Password) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password cannot be empty")
		}
		hash, herr := security.HashPassword(*input.Password, s.passwords)
		if herr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, herr, "hash password")
		}
		row.PasswordHash = hash
	}
	if input.PayPalHandle != nil {
		handle := strings.TrimSpace(*input.PayPalHandle)
		if handle == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "paypal handle cannot be empty")
		}
		row.PayPalHandle = handle
	}
	if input.Discounts != nil {
		for _, d := range *input.Discounts {
			if d.Type != types.DiscountTypePercent && d.Type != types.DiscountTypeAmount {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type").
					WithDetails(map[string]any{"label": d.Label, "type": d.Type})
			}
			if d.Value.IsNegative() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value cannot be negative").
					WithDetails(map[string]any{"label": d.Label})
			}
		}
		row.Discounts = *input.Discounts
	}

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
	}

	view := viewFromModel(row)
	s.mirror(ctx, view)
	return view, nil
}

func (s *service) Credentials(ctx context.Context) (*Credentials, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &Credentials{
			Username:      s.bootstrap.Username,
			PasswordHash:  s.bootstrap.Password,
			FromBootstrap: true,
		}, nil
	}
	return &Credentials{
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
	}, nil
}

// Pricing supplies the invoice pipeline with the payment handle and the
// active custom discounts.
func (s *service) Pricing(ctx context.Context) (string, types.DiscountList, error) {
	row, err := s.load(ctx)
	if err != nil {
		return "", nil, err
	}
	if row == nil {
		return s.payment.DefaultHandle, types.DiscountList{}, nil
	}
	handle := row.PayPalHandle
	if handle == "" {
		handle = s.payment.DefaultHandle
	}
	return handle, row.Discounts, nil
}

func (s *service) load(ctx context.Context) (*models.StaffSettings, error) {
	row, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	return row, nil
}

func (s *service) mirror(ctx context.Context, view *View) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err == nil {
		err = s.cache.Set(ctx, s.cache.SettingsSnapshotKey(), raw, s.cacheTTL)
	}
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "settings.snapshot_write_failed")
	}
}

func viewFromModel(row *models.StaffSettings) *View {
	discounts := row.Discounts
	if discounts == nil {
		discounts = types.DiscountList{}
	}
	return &View{
		Username:     row.Username,
		PayPalHandle: row.PayPalHandle,
		Discounts:    discounts,
	}
}
