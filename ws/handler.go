package ws

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/akinalp/realms/models"
)

// TokenValidator, bağlantı sırasında access token'ı doğrular.
// AuthService bu interface'i karşılar.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// HandlerOptions, WebSocket endpoint ayarları.
type HandlerOptions struct {
	// AllowAnonymous, token'sız bağlantıya izin verir. Anonim bağlantıda
	// payload'daki user id'ler doğrulanmadan kabul edilir.
	AllowAnonymous bool
	SendBufferSize int
	// AllowedOrigins boşsa her origin kabul edilir.
	AllowedOrigins []string
}

// Handler, GET /ws endpoint'i.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
	opts           HandlerOptions
	upgrader       websocket.Upgrader
}

func NewHandler(hub *Hub, tokenValidator TokenValidator, opts HandlerOptions) *Handler {
	h := &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
		opts:           opts,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// HandleConnection, token'ı doğrular, bağlantıyı upgrade eder ve client'ı
// kaydeder. Bağlantı kapanana kadar bloklar.
//
// Token ?token= query parametresinden veya Authorization: Bearer
// header'ından okunur (tarayıcı WebSocket API'si header gönderemez).
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	var userID string

	token := tokenFromRequest(r)
	switch {
	case token != "":
		claims, err := h.tokenValidator.ValidateAccessToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		userID = claims.UserID
	case !h.opts.AllowAnonymous:
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.Warn("upgrade failed", zap.String("user", userID), zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, userID, h.opts.SendBufferSize)
	if err := h.hub.Register(client); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump(r.Context())
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if len(h.opts.AllowedOrigins) == 0 {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		// tarayıcı dışı client
		return true
	}
	if slices.Contains(h.opts.AllowedOrigins, origin) {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func tokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
