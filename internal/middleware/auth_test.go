package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"aichat/internal/domain"
	"aichat/internal/httputil"
)

type stubVerifier struct {
	userID string
	err    error
}

func (s *stubVerifier) VerifyToken(string) (string, error) { return s.userID, s.err }
func (s *stubVerifier) Close() error                       { return nil }

func TestAuth_MissingToken(t *testing.T) {
	handler := Auth(&stubVerifier{userID: "u1"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chats", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(&stubVerifier{err: domain.ErrUnauthorized})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_ValidTokenPropagatesUserID(t *testing.T) {
	var gotUserID string
	handler := Auth(&stubVerifier{userID: "user-42"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = httputil.GetUserID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-42" {
		t.Errorf("expected user-42 in context, got %q", gotUserID)
	}
}

func TestAuth_HealthBypassesVerification(t *testing.T) {
	called := false
	handler := Auth(&stubVerifier{err: errors.New("should not be called")})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if !called {
		t.Error("expected /health to bypass auth")
	}
}
