package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
)

type fakeTokens map[string]string

func (f fakeTokens) ValidateAccessToken(token string) (*models.TokenClaims, error) {
	userID, ok := f[token]
	if !ok {
		return nil, pkg.ErrUnauthorized
	}
	return &models.TokenClaims{UserID: userID, Username: userID}, nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool          { return false }
func (denyLimiter) CooldownSeconds(string) int { return 3 }

type gateway struct {
	hub *Hub
	url string
}

func newGateway(t *testing.T, opts HandlerOptions) *gateway {
	t.Helper()

	hub := NewHub(zap.NewNop())
	go hub.Run()

	tokens := fakeTokens{"token-alice": "alice", "token-bob": "bob"}
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, tokens, opts).HandleConnection))
	t.Cleanup(func() {
		hub.Shutdown()
		srv.Close()
	})

	return &gateway{hub: hub, url: "ws" + strings.TrimPrefix(srv.URL, "http")}
}

func (g *gateway) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()

	url := g.url
	if token != "" {
		url += "?token=" + token
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial: %v (status %d)", err, status)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, op string, data any) {
	t.Helper()

	if err := conn.WriteJSON(map[string]any{"op": op, "d": data}); err != nil {
		t.Fatalf("write %s: %v", op, err)
	}
}

func read(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	return event
}

// flush, önceki event'lerin işlendiğini heartbeat_ack ile doğrular.
func flush(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	send(t, conn, OpHeartbeat, nil)
	if got := read(t, conn); got.Op != OpHeartbeatAck {
		t.Fatalf("expected heartbeat_ack, got %+v", got)
	}
}

func TestHandshakeRequiresToken(t *testing.T) {
	g := newGateway(t, HandlerOptions{})

	_, resp, err := websocket.DefaultDialer.Dial(g.url, nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token: err = %v, resp = %v", err, resp)
	}

	_, resp, err = websocket.DefaultDialer.Dial(g.url+"?token=bogus", nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("invalid token: err = %v, resp = %v", err, resp)
	}
}

func TestHandshakeAcceptsBearerHeader(t *testing.T) {
	g := newGateway(t, HandlerOptions{})

	header := http.Header{"Authorization": []string{"Bearer token-bob"}}
	conn, _, err := websocket.DefaultDialer.Dial(g.url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	send(t, conn, OpJoinRoom, "")
	flush(t, conn)

	if n := g.hub.Publish("bob", Event{Op: OpReceiveMessage}); n != 1 {
		t.Errorf("queued = %d, want 1", n)
	}
}

func TestJoinForAnotherUserIsRejected(t *testing.T) {
	g := newGateway(t, HandlerOptions{})
	conn := g.dial(t, "token-alice")

	send(t, conn, OpSubscribeNotifications, "bob")
	got := read(t, conn)
	if got.Op != OpError || !strings.Contains(fmt.Sprint(got.Data), "forbidden") {
		t.Fatalf("expected forbidden error, got %+v", got)
	}

	flush(t, conn)
	if g.hub.ChannelCount() != 0 {
		t.Errorf("ChannelCount = %d, want 0", g.hub.ChannelCount())
	}

	send(t, conn, OpSubscribeNotifications, "alice")
	flush(t, conn)
	if n := g.hub.Publish(NotificationChannel("alice"), Event{Op: OpReceiveNotification}); n != 1 {
		t.Errorf("own subscription queued = %d, want 1", n)
	}
}

func TestAnonymousSessionsTrustPayload(t *testing.T) {
	g := newGateway(t, HandlerOptions{AllowAnonymous: true})
	conn := g.dial(t, "")

	send(t, conn, OpJoinRoom, "user_receiver")
	flush(t, conn)

	g.hub.Publish("user_receiver", Event{Op: OpReceiveMessage, Data: "hello"})
	if got := read(t, conn); got.Op != OpReceiveMessage || got.Data != "hello" {
		t.Errorf("got %+v", got)
	}

	send(t, conn, OpJoinRoom, "")
	if got := read(t, conn); got.Op != OpError {
		t.Errorf("empty id on anonymous session: got %+v", got)
	}
}

func TestSendMessageBindsSender(t *testing.T) {
	g := newGateway(t, HandlerOptions{})

	var mu sync.Mutex
	var got []models.SendMessageRequest
	g.hub.OnSendMessage(func(ctx context.Context, req models.SendMessageRequest) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, req)
		return nil
	})

	conn := g.dial(t, "token-alice")
	send(t, conn, OpSendMessage, map[string]any{"receiverId": "bob", "content": "hi"})
	send(t, conn, OpSendMessage, map[string]any{"senderId": "mallory", "receiverId": "bob", "content": "hi"})

	if ev := read(t, conn); ev.Op != OpError {
		t.Fatalf("spoofed sender: got %+v", ev)
	}
	flush(t, conn)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].SenderID != "alice" || got[0].ReceiverID != "bob" {
		t.Errorf("handler calls = %+v", got)
	}
}

func TestSendMessageErrorsGoToSenderOnly(t *testing.T) {
	g := newGateway(t, HandlerOptions{})
	g.hub.OnSendMessage(func(ctx context.Context, req models.SendMessageRequest) error {
		if req.ReceiverID == "" {
			return fmt.Errorf("%w: receiverId is required", pkg.ErrBadRequest)
		}
		return errors.New("database is locked")
	})

	alice := g.dial(t, "token-alice")
	bob := g.dial(t, "token-bob")
	send(t, bob, OpJoinRoom, "bob")
	flush(t, bob)

	send(t, alice, OpSendMessage, map[string]any{"content": "hi"})
	if ev := read(t, alice); ev.Op != OpError || ev.Data != "bad request: receiverId is required" {
		t.Errorf("validation error: got %+v", ev)
	}

	send(t, alice, OpSendMessage, map[string]any{"receiverId": "bob", "content": "hi"})
	if ev := read(t, alice); ev.Op != OpError || ev.Data != "failed to send message" {
		t.Errorf("internal error: got %+v", ev)
	}

	// bağlantı açık kalır ve bob hiçbir şey almaz
	flush(t, alice)
	flush(t, bob)
}

func TestSendMessageRateLimited(t *testing.T) {
	g := newGateway(t, HandlerOptions{})
	g.hub.SetMessageRateLimiter(denyLimiter{})
	g.hub.OnSendMessage(func(context.Context, models.SendMessageRequest) error {
		t.Error("handler must not run when rate limited")
		return nil
	})

	conn := g.dial(t, "token-alice")
	send(t, conn, OpSendMessage, map[string]any{"receiverId": "bob", "content": "hi"})
	if ev := read(t, conn); ev.Op != OpError || ev.Data != "rate limited, retry in 3s" {
		t.Errorf("got %+v", ev)
	}
}

func TestDisconnectCleansUpRegistry(t *testing.T) {
	g := newGateway(t, HandlerOptions{})
	conn := g.dial(t, "token-alice")

	send(t, conn, OpJoinRoom, "alice")
	send(t, conn, OpSubscribeNotifications, "alice")
	flush(t, conn)
	if g.hub.ChannelCount() != 2 {
		t.Fatalf("ChannelCount = %d, want 2", g.hub.ChannelCount())
	}

	conn.Close()
	waitFor(t, "disconnect", func() bool { return g.hub.ConnectionCount() == 0 })

	if g.hub.ChannelCount() != 0 {
		t.Errorf("ChannelCount after disconnect = %d", g.hub.ChannelCount())
	}
	if n := g.hub.Publish("alice", Event{Op: OpReceiveMessage}); n != 0 {
		t.Errorf("publish after disconnect queued %d", n)
	}
}

func TestUnknownOpAndGarbageKeepConnectionOpen(t *testing.T) {
	g := newGateway(t, HandlerOptions{})
	conn := g.dial(t, "token-alice")

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	send(t, conn, "typing", nil)
	flush(t, conn)
}

func TestCheckOrigin(t *testing.T) {
	h := NewHandler(NewHub(zap.NewNop()), fakeTokens{}, HandlerOptions{
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	cases := map[string]bool{
		"":                      true,
		"http://localhost:3000": true,
		"http://evil.example":   false,
		"http://realms.test":    true,
	}
	for origin, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "http://realms.test/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		if got := h.checkOrigin(r); got != want {
			t.Errorf("origin %q: got %v, want %v", origin, got, want)
		}
	}
}
