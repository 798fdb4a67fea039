package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg/ratelimit"
	"github.com/akinalp/realms/services"
)

type stubMessages struct {
	services.MessageService
	sent []models.SendMessageRequest
}

func (s *stubMessages) Send(_ context.Context, req models.SendMessageRequest) (*models.Message, error) {
	s.sent = append(s.sent, req)
	return &models.Message{ID: "m", SenderID: req.SenderID, ReceiverID: req.ReceiverID}, nil
}

func sendAs(h *MessageHandler, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/messages",
		strings.NewReader(`{"receiverId":"bob","content":"hi","senderId":"mallory"}`))
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, &models.User{ID: userID}))
	rr := httptest.NewRecorder()
	h.Send(rr, req)
	return rr
}

func TestSendMessageRateLimited(t *testing.T) {
	limiter := ratelimit.NewMessageRateLimiter(2, time.Minute, time.Minute)
	defer limiter.Close()
	svc := &stubMessages{}
	h := NewMessageHandler(svc, limiter)

	for i := range 2 {
		if rr := sendAs(h, "alice"); rr.Code != http.StatusCreated {
			t.Fatalf("send %d: status = %d", i, rr.Code)
		}
	}

	rr := sendAs(h, "alice")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third send: status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if len(svc.sent) != 2 {
		t.Errorf("service called %d times, want 2", len(svc.sent))
	}

	if rr := sendAs(h, "bob"); rr.Code != http.StatusCreated {
		t.Errorf("other sender limited: status = %d", rr.Code)
	}
}

func TestSendMessageUsesAuthenticatedSender(t *testing.T) {
	svc := &stubMessages{}
	h := NewMessageHandler(svc, nil)

	if rr := sendAs(h, "alice"); rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	if len(svc.sent) != 1 || svc.sent[0].SenderID != "alice" {
		t.Errorf("sent = %+v, want sender alice", svc.sent)
	}
}
