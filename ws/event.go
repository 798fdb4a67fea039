// Package ws, WebSocket gateway'idir: bağlantılar, kanal registry'si ve
// kanallara fan-out.
//
// Event formatı (iki yön için aynı):
//
//	{"op": "receive_message", "d": {...}, "seq": 42}
//
// seq sadece sunucudan giden event'lerde dolu olur.
package ws

import "encoding/json"

// Event, WebSocket üzerinden taşınan tüm mesajların zarfı.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// inboundEvent, client'tan gelen event. Payload op'a göre ayrıca decode edilir.
type inboundEvent struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"d"`
}

// Client → Server
const (
	OpHeartbeat              = "heartbeat"
	OpJoinRoom               = "join_room"
	OpSubscribeNotifications = "subscribe_notifications"
	OpSendMessage            = "send_message"
)

// Server → Client
const (
	OpHeartbeatAck        = "heartbeat_ack"
	OpReceiveMessage      = "receive_message"
	OpReceiveNotification = "receive_notification"
	OpError               = "error"
)

const notificationChannelPrefix = "notifications_"

// DeliveryChannel, kullanıcının direkt mesaj kanalı (adı user id'nin kendisi).
func DeliveryChannel(userID string) string {
	return userID
}

// NotificationChannel, kullanıcının bildirim kanalı.
func NotificationChannel(userID string) string {
	return notificationChannelPrefix + userID
}
