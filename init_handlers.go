package main

import (
	"github.com/akinalp/realms/config"
	"github.com/akinalp/realms/handlers"
	"github.com/akinalp/realms/ws"
)

// Handlers, tüm HTTP handler instance'larını tutan container struct.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Message      *handlers.MessageHandler
	Notification *handlers.NotificationHandler
	Social       *handlers.SocialHandler
	Health       *handlers.HealthHandler
	WS           *ws.Handler
}

func initHandlers(svcs *Services, limiters *RateLimiters, hub *ws.Hub, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:         handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		Message:      handlers.NewMessageHandler(svcs.Message, limiters.Message),
		Notification: handlers.NewNotificationHandler(svcs.Notification),
		Social:       handlers.NewSocialHandler(svcs.Social),
		Health:       handlers.NewHealthHandler(hub),
		WS: ws.NewHandler(hub, svcs.Auth, ws.HandlerOptions{
			AllowAnonymous: cfg.Realtime.AllowAnonymous,
			SendBufferSize: cfg.Realtime.SendBufferSize,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		}),
	}
}
