package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/akinalp/realms/models"
)

// EventPublisher, service katmanının kanallara event yayınlamak için
// kullandığı interface. Service'ler Hub'a değil buna bağımlıdır.
type EventPublisher interface {
	// Publish, event'i kanalın o anki tüm üyelerine kuyruklar ve kaç
	// üyeye kuyruklandığını döner. Üyesi olmayan kanal hata değildir.
	Publish(channel string, event Event) int
}

// SendMessageFunc, send_message event'ini işleyen callback.
// main package'da MessageService'e bağlanır.
type SendMessageFunc func(ctx context.Context, req models.SendMessageRequest) error

// MessageLimiter, gönderen başına mesaj hızı sınırı.
type MessageLimiter interface {
	Allow(senderID string) bool
	CooldownSeconds(senderID string) int
}

var (
	ErrHubClosed     = errors.New("hub closed")
	ErrUnknownClient = errors.New("client not registered")
)

// Hub, bağlı client'ları ve kanal registry'sini yönetir.
//
// mu tek mutasyon noktasıdır: register/join/leave write lock, Publish
// read lock alır. send channel'ı sadece mu.Lock altında kapatılır; bu
// yüzden RLock altında yapılan gönderimler kapalı channel'a yazmaz.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	registry *Registry

	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once

	seq atomic.Int64
	log *zap.Logger

	onSendMessage  SendMessageFunc
	messageLimiter MessageLimiter
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		registry:   NewRegistry(),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// OnSendMessage, send_message callback'ini ayarlar. Run'dan önce çağrılmalı.
func (h *Hub) OnSendMessage(fn SendMessageFunc) {
	h.onSendMessage = fn
}

// SetMessageRateLimiter, send_message için hız sınırlayıcıyı ayarlar.
func (h *Hub) SetMessageRateLimiter(l MessageLimiter) {
	h.messageLimiter = l
}

// Run, unregister isteklerini işleyen loop. Shutdown ile sonlanır.
//
//	go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Register, client'ı kaydeder. Bağlantı kurulur kurulmaz çağrılır;
// böylece ilk join_room event'i geldiğinde client zaten kayıtlıdır.
func (h *Hub) Register(client *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	h.clients[client] = struct{}{}
	h.log.Debug("client registered",
		zap.String("session", client.id),
		zap.String("user", client.userID),
		zap.Int("connections", len(h.clients)),
	)
	return nil
}

// Unregister, client'ın kaldırılmasını Run'a iletir. Hub kapandıysa
// hiçbir şey yapmaz.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Join, client'ı kanala ekler. Kayıtlı olmayan (veya kapanmış) client
// için ErrUnknownClient döner.
func (h *Hub) Join(client *Client, channel string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return ErrUnknownClient
	}

	if h.registry.Join(client, channel) {
		h.log.Debug("joined channel",
			zap.String("session", client.id),
			zap.String("channel", channel),
		)
	}
	return nil
}

// Channels, client'ın üye olduğu kanallar.
func (h *Hub) Channels(client *Client) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.registry.Channels(client)
}

// Publish, event'e seq verir, bir kez marshal eder ve kanal üyelerine
// bloklamadan gönderir. Buffer'ı dolu olan client asenkron olarak
// kaldırılır.
func (h *Hub) Publish(channel string, event Event) int {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", zap.String("op", event.Op), zap.Error(err))
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	queued := 0
	for _, client := range h.registry.members[channel] {
		select {
		case client.send <- data:
			queued++
		default:
			h.log.Warn("send buffer full, dropping connection",
				zap.String("session", client.id),
				zap.String("channel", channel),
			)
			go h.Unregister(client)
		}
	}
	return queued
}

// sendTo, tek bir client'a event gönderir (error, heartbeat_ack).
func (h *Hub) sendTo(client *Client, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", zap.String("op", event.Op), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		h.log.Warn("send buffer full, dropping connection", zap.String("session", client.id))
		go h.Unregister(client)
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	channels := h.registry.LeaveAll(client)
	close(client.send)

	h.log.Debug("client unregistered",
		zap.String("session", client.id),
		zap.String("user", client.userID),
		zap.Strings("channels", channels),
	)
}

// ConnectionCount, kayıtlı client sayısı.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// ChannelCount, en az bir üyesi olan kanal sayısı.
func (h *Hub) ChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.registry.ChannelCount()
}

// Shutdown, tüm bağlantıları kapatır ve Run'ı sonlandırır.
// Sonraki Register çağrıları ErrHubClosed döner.
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		close(h.done)
		for client := range h.clients {
			close(client.send)
		}
		count := len(h.clients)
		h.clients = make(map[*Client]struct{})
		h.registry = NewRegistry()

		h.log.Info("hub shut down", zap.Int("closed", count))
	})
}
