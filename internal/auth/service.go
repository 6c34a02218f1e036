package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chefknifeworks/crm-backend/internal/settings"
	pkgauth "github.com/chefknifeworks/crm-backend/pkg/auth"
	"github.com/chefknifeworks/crm-backend/pkg/auth/session"
	"github.com/chefknifeworks/crm-backend/pkg/config"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/security"
)

type credentialsSource interface {
	Credentials(ctx context.Context) (*settings.Credentials, error)
}

type sessionManager interface {
	Create(ctx context.Context, accessID, username string) error
	Revoke(ctx context.Context, accessID string) error
}

// LoginResult carries the minted token back to the client.
type LoginResult struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service authenticates the shop's single staff login.
type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	creds    credentialsSource
	sessions sessionManager
	jwt      config.JWTConfig
	now      func() time.Time
}

// NewService builds the auth service with the required dependencies.
func NewService(creds credentialsSource, sessions sessionManager, jwt config.JWTConfig) (Service, error) {
	if creds == nil {
		return nil, fmt.Errorf("credentials source required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		creds:    creds,
		sessions: sessions,
		jwt:      jwt,
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	stored, err := s.creds.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	if !security.ConstantTimeEquals(strings.ToLower(username), strings.ToLower(stored.Username)) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if stored.FromBootstrap {
		if stored.PasswordHash == "" || !security.ConstantTimeEquals(password, stored.PasswordHash) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
	} else {
		ok, verr := security.VerifyPassword(password, stored.PasswordHash)
		if verr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, verr, "verify password")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
	}

	jti := session.NewAccessID()
	now := s.now()
	token, err := pkgauth.MintAccessToken(s.jwt, now, pkgauth.AccessTokenPayload{
		Username: stored.Username,
		JTI:      jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	if err := s.sessions.Create(ctx, jti, stored.Username); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &LoginResult{
		Token:     token,
		Username:  stored.Username,
		ExpiresAt: now.Add(time.Duration(s.jwt.ExpirationMinutes) * time.Minute),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}
