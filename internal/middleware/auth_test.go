package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func localToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ui",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestJWTAuthMiddleware(t *testing.T) {
	auth := NewJWTAuth(testSecret)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := auth.Middleware(next)

	tests := []struct {
		name     string
		header   string
		status   int
		wantCode string
	}{
		{"valid token", "Bearer " + localToken(t, testSecret, time.Now().Add(time.Hour)), http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong secret", "Bearer " + localToken(t, "other-secret", time.Now().Add(time.Hour)), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired token", "Bearer " + localToken(t, testSecret, time.Now().Add(-time.Hour)), http.StatusUnauthorized, "TOKEN_EXPIRED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, rec.Code)
			}
			if tc.wantCode != "" && !strings.Contains(rec.Body.String(), tc.wantCode) {
				t.Errorf("Expected error code %s in body, got %s", tc.wantCode, rec.Body.String())
			}
		})
	}
}
