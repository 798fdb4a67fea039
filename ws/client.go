package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
)

const (
	// writeWait, tek bir frame yazımı için süre.
	writeWait = 10 * time.Second

	// pongWait, heartbeat gelmezse bağlantının kapanacağı süre.
	// Client 30 saniyede bir heartbeat gönderir.
	pongWait = 90 * time.Second

	maxMessageSize = 8 * 1024

	DefaultSendBufferSize = 256
)

var (
	errMissingUser      = errors.New("user id is required")
	errIdentityMismatch = errors.New("forbidden: user id does not match the authenticated session")
	errInvalidPayload   = errors.New("invalid payload")
)

// Client, tek bir WebSocket bağlantısı (Connection Session).
//
// userID JWT ile doğrulanmış kullanıcıdır; anonim bağlantılarda boştur.
// Bir kullanıcı birden fazla bağlantıya sahip olabilir (sekme, cihaz).
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
	log    *zap.Logger

	// mu: WritePump dışında yazan olmaması gerekir ama close frame de
	// aynı conn'a yazıldığı için yazımlar serileştirilir.
	mu sync.Mutex
}

// NewClient, bağlantı için yeni bir session oluşturur.
func NewClient(hub *Hub, conn *websocket.Conn, userID string, sendBufferSize int) *Client {
	if sendBufferSize <= 0 {
		sendBufferSize = DefaultSendBufferSize
	}

	id := uuid.NewString()
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
		log:    hub.log.With(zap.String("session", id), zap.String("user", userID)),
	}
}

// ID, sunucunun verdiği session id.
func (c *Client) ID() string { return c.id }

// UserID, bağlantının doğrulanmış kullanıcısı (anonimse boş).
func (c *Client) UserID() string { return c.userID }

// ReadPump, client'tan gelen event'leri okur ve sırayla işler.
// HTTP handler goroutine'inde çalışır; döndüğünde bağlantı kapanmıştır.
//
// Event'ler aynı goroutine'de işlenir: bir bağlantının event'leri geliş
// sırasıyla tamamlanır, yavaş bir DB yazımı sadece bu bağlantıyı bekletir.
func (c *Client) ReadPump(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Warn("failed to set read deadline", zap.Error(err))
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Info("unexpected close", zap.Error(err))
			}
			return
		}

		var event inboundEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			c.log.Warn("invalid frame", zap.Error(err))
			continue
		}

		c.handleEvent(ctx, event)
	}
}

func (c *Client) handleEvent(ctx context.Context, event inboundEvent) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.Warn("failed to set read deadline", zap.Error(err))
			return
		}
		c.hub.sendTo(c, Event{Op: OpHeartbeatAck})

	case OpJoinRoom:
		c.handleJoin(event, DeliveryChannel)

	case OpSubscribeNotifications:
		c.handleJoin(event, NotificationChannel)

	case OpSendMessage:
		c.handleSendMessage(ctx, event)

	default:
		c.log.Debug("unknown op", zap.String("op", event.Op))
	}
}

// handleJoin, payload'daki user id'nin kanalına katılır.
func (c *Client) handleJoin(event inboundEvent, channelFor func(string) string) {
	var claimed string
	if len(event.Data) > 0 && string(event.Data) != "null" {
		if err := json.Unmarshal(event.Data, &claimed); err != nil {
			c.sendError(errInvalidPayload.Error())
			return
		}
	}

	userID, err := c.resolveUser(claimed)
	if err != nil {
		c.log.Warn("join rejected", zap.String("op", event.Op), zap.String("claimed", claimed), zap.Error(err))
		c.sendError(err.Error())
		return
	}

	if err := c.hub.Join(c, channelFor(userID)); err != nil {
		c.log.Debug("join on closed session", zap.Error(err))
	}
}

func (c *Client) handleSendMessage(ctx context.Context, event inboundEvent) {
	var req models.SendMessageRequest
	if err := json.Unmarshal(event.Data, &req); err != nil {
		c.sendError(errInvalidPayload.Error())
		return
	}

	senderID, err := c.resolveUser(req.SenderID)
	if err != nil {
		// Anonim bağlantıda boş senderId validation'a kalır.
		if !errors.Is(err, errMissingUser) {
			c.log.Warn("send rejected", zap.String("claimed", req.SenderID), zap.Error(err))
			c.sendError(err.Error())
			return
		}
	}
	req.SenderID = senderID

	if c.hub.messageLimiter != nil && senderID != "" && !c.hub.messageLimiter.Allow(senderID) {
		c.sendError(fmt.Sprintf("rate limited, retry in %ds", c.hub.messageLimiter.CooldownSeconds(senderID)))
		return
	}

	if c.hub.onSendMessage == nil {
		c.log.Error("send_message handler not configured")
		c.sendError("failed to send message")
		return
	}

	if err := c.hub.onSendMessage(ctx, req); err != nil {
		if pkg.IsClientError(err) {
			c.sendError(err.Error())
			return
		}
		c.log.Error("send_message failed", zap.Error(err))
		c.sendError("failed to send message")
	}
}

// resolveUser, payload'daki user id'yi bağlantının kimliğine göre çözer.
//
// Doğrulanmış bağlantıda boş değer bağlı kullanıcıya döner, farklı bir
// değer reddedilir. Anonim bağlantıda payload olduğu gibi kabul edilir.
func (c *Client) resolveUser(claimed string) (string, error) {
	claimed = strings.TrimSpace(claimed)

	if c.userID == "" {
		if claimed == "" {
			return "", errMissingUser
		}
		return claimed, nil
	}

	if claimed != "" && claimed != c.userID {
		return "", errIdentityMismatch
	}
	return c.userID, nil
}

func (c *Client) sendError(reason string) {
	c.hub.sendTo(c, Event{Op: OpError, Data: reason})
}

// WritePump, send channel'ındaki mesajları bağlantıya yazar.
// Channel kapandığında close frame gönderip bağlantıyı kapatır.
//
//	go client.WritePump()
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			c.log.Debug("write failed", zap.Error(err))
			return
		}
	}

	if err := c.writeMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); err != nil {
		c.log.Debug("close frame failed", zap.Error(err))
	}
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
