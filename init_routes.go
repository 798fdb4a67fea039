package main

import (
	"net/http"

	"github.com/akinalp/realms/middleware"
	"github.com/akinalp/realms/services"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Literal path'ler parametrik path'lerden ÖNCE tanımlanır
// ("/api/notifications/read-all" → "/api/notifications/{id}/read").
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService services.AuthService,
) {
	authMw := middleware.NewAuthMiddleware(authService)
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(http.HandlerFunc(handler))
	}

	// Health
	mux.HandleFunc("GET /api/health", h.Health.Check)

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))

	// Social
	mux.Handle("POST /api/users/{id}/follow", auth(h.Social.Follow))
	mux.Handle("DELETE /api/users/{id}/follow", auth(h.Social.Unfollow))
	mux.Handle("POST /api/posts", auth(h.Social.CreatePost))
	mux.Handle("POST /api/posts/{id}/like", auth(h.Social.LikePost))
	mux.Handle("DELETE /api/posts/{id}/like", auth(h.Social.UnlikePost))
	mux.Handle("POST /api/posts/{id}/comments", auth(h.Social.CreateComment))
	mux.Handle("POST /api/comments/{id}/like", auth(h.Social.LikeComment))
	mux.Handle("DELETE /api/comments/{id}/like", auth(h.Social.UnlikeComment))
	mux.Handle("POST /api/realms", auth(h.Social.CreateRealm))
	mux.Handle("POST /api/realms/{id}/join", auth(h.Social.JoinRealm))
	mux.Handle("DELETE /api/realms/{id}/join", auth(h.Social.LeaveRealm))

	// Notifications
	mux.Handle("GET /api/notifications", auth(h.Notification.List))
	mux.Handle("GET /api/notifications/unread-count", auth(h.Notification.UnreadCount))
	mux.Handle("POST /api/notifications/read-all", auth(h.Notification.MarkAllRead))
	mux.Handle("PATCH /api/notifications/{id}/read", auth(h.Notification.MarkRead))

	// Direct messages
	mux.Handle("POST /api/messages", auth(h.Message.Send))
	mux.Handle("GET /api/messages/{userId}", auth(h.Message.GetConversation))

	// WebSocket: token query/header ile handler içinde doğrulanır.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}
