package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/breathe/backend/internal/logger"
	"github.com/JonnyWalker81/breathe/backend/pkg/supabase"
)

type stubVerifier struct {
	users map[string]string // token -> user id
	err   error
}

func (s stubVerifier) VerifyToken(ctx context.Context, token string) (*supabase.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	id, ok := s.users[token]
	if !ok {
		return nil, &supabase.Error{StatusCode: http.StatusUnauthorized, Body: "invalid JWT"}
	}
	return &supabase.User{ID: id}, nil
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		verifier   stubVerifier
		header     string
		wantStatus int
		wantUser   string
	}{
		{"valid token", stubVerifier{users: map[string]string{"good": "user-1"}}, "Bearer good", http.StatusOK, "user-1"},
		{"lowercase scheme", stubVerifier{users: map[string]string{"good": "user-1"}}, "bearer good", http.StatusOK, "user-1"},
		{"missing header", stubVerifier{}, "", http.StatusUnauthorized, ""},
		{"wrong scheme", stubVerifier{}, "Basic abc", http.StatusUnauthorized, ""},
		{"empty token", stubVerifier{}, "Bearer ", http.StatusUnauthorized, ""},
		{"rejected token", stubVerifier{users: map[string]string{}}, "Bearer bad", http.StatusUnauthorized, ""},
		{"auth service down", stubVerifier{err: &supabase.Error{StatusCode: http.StatusBadGateway}}, "Bearer good", http.StatusServiceUnavailable, ""},
		{"other error", stubVerifier{err: errors.New("boom")}, "Bearer good", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotCtxUser string

			r := gin.New()
			r.Use(Auth(tt.verifier))
			r.GET("/x", func(c *gin.Context) {
				gotUser = UserID(c)
				gotCtxUser = logger.UserIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if gotUser != tt.wantUser {
				t.Errorf("UserID = %q, want %q", gotUser, tt.wantUser)
			}
			if gotCtxUser != tt.wantUser {
				t.Errorf("context user = %q, want %q", gotCtxUser, tt.wantUser)
			}
		})
	}
}
