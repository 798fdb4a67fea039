package main

import (
	"context"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg/ratelimit"
	"github.com/akinalp/realms/services"
	"github.com/akinalp/realms/ws"
)

// registerHubCallbacks, Hub'ın send_message event'ini MessageService'e bağlar.
//
// Hub ws paketinde yaşar ve service katmanını import etmez; bağlantı
// burada kurulur.
func registerHubCallbacks(
	hub *ws.Hub,
	messageService services.MessageService,
	messageLimiter *ratelimit.MessageRateLimiter,
) {
	hub.SetMessageRateLimiter(messageLimiter)

	hub.OnSendMessage(func(ctx context.Context, req models.SendMessageRequest) error {
		_, err := messageService.Send(ctx, req)
		return err
	})
}
