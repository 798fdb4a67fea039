// Package middleware, HTTP handler'larını saran ara katmanlardır.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/akinalp/realms/handlers"
	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
)

// Authenticator, middleware'in AuthService'ten kullandığı kısım.
type Authenticator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Require, "Authorization: Bearer <token>" ister ve token sahibini
// handlers.UserContextKey altında context'e koyar. Token geçersizse veya
// kullanıcı artık yoksa 401 döner.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		claims, err := m.auth.ValidateAccessToken(token)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		user, err := m.auth.GetUser(r.Context(), claims.UserID)
		if errors.Is(err, pkg.ErrNotFound) {
			pkg.Error(w, fmt.Errorf("%w: user no longer exists", pkg.ErrUnauthorized))
			return
		}
		if err != nil {
			pkg.Error(w, err)
			return
		}
		user.PasswordHash = ""

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), handlers.UserContextKey, user)))
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("%w: authorization header required", pkg.ErrUnauthorized)
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", fmt.Errorf("%w: use Authorization: Bearer <token>", pkg.ErrUnauthorized)
	}
	return token, nil
}
