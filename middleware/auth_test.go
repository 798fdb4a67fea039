package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akinalp/realms/handlers"
	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
)

type fakeAuth struct {
	tokens map[string]string
	users  map[string]*models.User
}

func (f fakeAuth) ValidateAccessToken(token string) (*models.TokenClaims, error) {
	id, ok := f.tokens[token]
	if !ok {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}
	return &models.TokenClaims{UserID: id}, nil
}

func (f fakeAuth) GetUser(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", pkg.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func TestRequire(t *testing.T) {
	auth := fakeAuth{
		tokens: map[string]string{"good": "u1", "orphan": "gone"},
		users:  map[string]*models.User{"u1": {ID: "u1", Username: "alice", PasswordHash: "secret"}},
	}

	var seen *models.User
	h := NewAuthMiddleware(auth).Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(handlers.UserContextKey).(*models.User)
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"deleted user", "Bearer orphan", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.status, rr.Body.String())
			}
			if tc.status == http.StatusNoContent {
				if seen == nil || seen.ID != "u1" {
					t.Fatalf("user in context = %+v", seen)
				}
				if seen.PasswordHash != "" {
					t.Error("password hash leaked into request context")
				}
			}
		})
	}
}
