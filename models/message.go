package models

import (
	"fmt"
	"strings"
	"time"
)

// Message, iki kullanıcı arasındaki direkt mesaj.
// Bir kez oluşturulur; bu servis tarafından güncellenmez veya silinmez.
//
// JSON alan adları WebSocket sözleşmesindeki adlardır (camelCase).
type Message struct {
	ID         string    `json:"id" db:"id"`
	Content    *string   `json:"content" db:"content"`
	ImageURL   *string   `json:"imageUrl" db:"image_url"`
	SenderID   string    `json:"senderId" db:"sender_id"`
	ReceiverID string    `json:"receiverId" db:"receiver_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// SendMessageRequest, send_message event'inin payload'u.
//
// ClientMessageID opsiyonel bir idempotency key'dir: aynı gönderen aynı
// key ile dedup penceresi içinde tekrar gönderirse yeni satır yazılmaz.
type SendMessageRequest struct {
	Content         string `json:"content" validate:"max=2000"`
	ImageURL        string `json:"imageUrl" validate:"omitempty,max=2048,http_url"`
	SenderID        string `json:"senderId" validate:"required,max=64"`
	ReceiverID      string `json:"receiverId" validate:"required,max=64"`
	ClientMessageID string `json:"clientMessageId" validate:"max=64"`
}

// Validate, alan kurallarını uygular. content ve imageUrl'den en az biri dolu olmalı.
func (r *SendMessageRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	r.SenderID = strings.TrimSpace(r.SenderID)
	r.ReceiverID = strings.TrimSpace(r.ReceiverID)

	if err := validateStruct(r); err != nil {
		return err
	}
	if r.Content == "" && r.ImageURL == "" {
		return fmt.Errorf("content or imageUrl is required")
	}
	return nil
}

// ToMessage, doğrulanmış request'ten kaydedilecek Message'ı üretir.
// Boş content/imageUrl NULL olarak saklanır.
func (r *SendMessageRequest) ToMessage() *Message {
	msg := &Message{
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
	}
	if r.Content != "" {
		content := r.Content
		msg.Content = &content
	}
	if r.ImageURL != "" {
		imageURL := r.ImageURL
		msg.ImageURL = &imageURL
	}
	return msg
}

// Matches, msg'nin bu request'ten üretilmiş olup olmadığını söyler.
// Dedup'ta aynı clientMessageId'nin başka bir mesaj için kullanılmasını
// yakalamak için kullanılır.
func (r *SendMessageRequest) Matches(msg *Message) bool {
	return msg.SenderID == r.SenderID &&
		msg.ReceiverID == r.ReceiverID &&
		deref(msg.Content) == r.Content &&
		deref(msg.ImageURL) == r.ImageURL
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MessagePage, cursor-based sayfalama sonucu (eskiden yeniye sıralı).
type MessagePage struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"hasMore"`
}
