package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
	"github.com/akinalp/realms/pkg/ratelimit"
	"github.com/akinalp/realms/services"
)

type MessageHandler struct {
	messageService services.MessageService
	limiter        *ratelimit.MessageRateLimiter
}

// NewMessageHandler, limiter WebSocket send_message ile paylaşılır;
// nil ise sınır uygulanmaz.
func NewMessageHandler(messageService services.MessageService, limiter *ratelimit.MessageRateLimiter) *MessageHandler {
	return &MessageHandler{messageService: messageService, limiter: limiter}
}

// Send — POST /api/messages
//
// WebSocket'e alternatif gönderim yolu. Gönderen her zaman istek yapan
// kullanıcıdır; body'deki senderId yok sayılır. Gönderen başına hız
// sınırı WebSocket ile ortaktır.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if h.limiter != nil && !h.limiter.Allow(user.ID) {
		cooldown := h.limiter.CooldownSeconds(user.ID)
		w.Header().Set("Retry-After", strconv.Itoa(cooldown))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("rate limited, retry in %ds", cooldown))
		return
	}

	var req models.SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.SenderID = user.ID

	msg, err := h.messageService.Send(r.Context(), req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, msg)
}

// GetConversation — GET /api/messages/{userId}?before=&limit=
func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	page, err := h.messageService.GetConversation(
		r.Context(),
		user.ID,
		r.PathValue("userId"),
		r.URL.Query().Get("before"),
		queryInt(r, "limit", 0),
	)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, page)
}
