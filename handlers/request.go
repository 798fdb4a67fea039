package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
)

type contextKey string

// UserContextKey, AuthMiddleware'in doğrulanmış *models.User'ı
// context'e koyduğu key.
const UserContextKey contextKey = "user"

const maxBodyBytes = 1 << 20

// currentUser, middleware'in context'e koyduğu kullanıcıyı okur.
// Bulamazsa 401 yazar ve false döner.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}

// decodeBody, JSON body'yi dst'ye çözer. Hata olursa 400 yazar.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// queryInt, sayısal query parametresini okur; yoksa veya geçersizse fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return n
}
