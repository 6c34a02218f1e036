package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "github.com/chefknifeworks/crm-backend/internal/auth"
	pkgAuth "github.com/chefknifeworks/crm-backend/pkg/auth"
	"github.com/chefknifeworks/crm-backend/pkg/auth/session"
	"github.com/chefknifeworks/crm-backend/pkg/config"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
)

type stubAuthService struct {
	result      *authsvc.LoginResult
	loginErr    error
	lastRevoked string
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*authsvc.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.result, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.lastRevoked = accessID
	return nil
}

func testJWT() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "chefknifeworks", ExpirationMinutes: 10}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig) (string, string) {
	t.Helper()
	jti := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		Username: "admin",
		JTI:      jti,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	return token, jti
}

func TestAuthLogin(t *testing.T) {
	svc := &stubAuthService{result: &authsvc.LoginResult{Token: "signed-token", Username: "admin"}}
	handler := AuthLogin(svc, nil)

	body := `{"username":"admin","password":"sharp-secret"}`
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data authsvc.LoginResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "signed-token" {
		t.Fatalf("token = %q, want signed-token", envelope.Data.Token)
	}
}

func TestAuthLoginMissingFields(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"username":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := `{"username":"admin","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLogout(t *testing.T) {
	cfg := testJWT()
	svc := &stubAuthService{}
	handler := AuthLogout(svc, cfg, nil)

	token, jti := mintTestToken(t, cfg)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastRevoked != jti {
		t.Fatalf("expected revoked %s got %s", jti, svc.lastRevoked)
	}
}

func TestAuthLogoutMissingToken(t *testing.T) {
	handler := AuthLogout(&stubAuthService{}, testJWT(), nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
