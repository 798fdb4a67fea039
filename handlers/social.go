package handlers

import (
	"net/http"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
	"github.com/akinalp/realms/services"
)

// SocialHandler, bildirim üreten sosyal endpoint'ler. Bildirimin teslim
// edilip edilmemesi yanıtı etkilemez.
type SocialHandler struct {
	socialService services.SocialService
}

func NewSocialHandler(socialService services.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

// Follow — POST /api/users/{id}/follow
func (h *SocialHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "followed", func(user *models.User) error {
		return h.socialService.Follow(r.Context(), user.ID, r.PathValue("id"))
	})
}

// Unfollow — DELETE /api/users/{id}/follow
func (h *SocialHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "unfollowed", func(user *models.User) error {
		return h.socialService.Unfollow(r.Context(), user.ID, r.PathValue("id"))
	})
}

// CreatePost — POST /api/posts
func (h *SocialHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.socialService.CreatePost(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, post)
}

// LikePost — POST /api/posts/{id}/like
func (h *SocialHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "liked", func(user *models.User) error {
		return h.socialService.LikePost(r.Context(), user.ID, r.PathValue("id"))
	})
}

// UnlikePost — DELETE /api/posts/{id}/like
func (h *SocialHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "unliked", func(user *models.User) error {
		return h.socialService.UnlikePost(r.Context(), user.ID, r.PathValue("id"))
	})
}

// CreateComment — POST /api/posts/{id}/comments
//
// Body'de parent_id varsa yorum o yoruma yanıt olarak eklenir.
func (h *SocialHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.socialService.CreateComment(r.Context(), user.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, comment)
}

// LikeComment — POST /api/comments/{id}/like
func (h *SocialHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "liked", func(user *models.User) error {
		return h.socialService.LikeComment(r.Context(), user.ID, r.PathValue("id"))
	})
}

// UnlikeComment — DELETE /api/comments/{id}/like
func (h *SocialHandler) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "unliked", func(user *models.User) error {
		return h.socialService.UnlikeComment(r.Context(), user.ID, r.PathValue("id"))
	})
}

// CreateRealm — POST /api/realms
func (h *SocialHandler) CreateRealm(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateRealmRequest
	if !decodeBody(w, r, &req) {
		return
	}

	realm, err := h.socialService.CreateRealm(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, realm)
}

// JoinRealm — POST /api/realms/{id}/join
func (h *SocialHandler) JoinRealm(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "joined", func(user *models.User) error {
		return h.socialService.JoinRealm(r.Context(), user.ID, r.PathValue("id"))
	})
}

// LeaveRealm — DELETE /api/realms/{id}/join
func (h *SocialHandler) LeaveRealm(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "left", func(user *models.User) error {
		return h.socialService.LeaveRealm(r.Context(), user.ID, r.PathValue("id"))
	})
}

// act, gövdesiz işlemler için ortak akış: kullanıcıyı al, işlemi çalıştır,
// {"message": ...} yaz.
func (h *SocialHandler) act(w http.ResponseWriter, r *http.Request, done string, fn func(user *models.User) error) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := fn(user); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": done})
}
