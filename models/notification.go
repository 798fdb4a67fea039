package models

import (
	"fmt"
	"time"
)

// NotificationType, bildirimi üreten olay.
type NotificationType string

const (
	NotificationFollow       NotificationType = "follow"
	NotificationPostLike     NotificationType = "post_like"
	NotificationPostComment  NotificationType = "post_comment"
	NotificationCommentLike  NotificationType = "comment_like"
	NotificationCommentReply NotificationType = "comment_reply"
	NotificationRealmJoin    NotificationType = "realm_join"
)

// SourceType, bildirimin işaret ettiği varlık türü.
type SourceType string

const (
	SourceUser    SourceType = "USER"
	SourcePost    SourceType = "POST"
	SourceComment SourceType = "COMMENT"
	SourceRealm   SourceType = "REALM"
)

// notificationSources, her tipin kaynak türü. Çağıran taraf source type'ı
// ayrıca vermez; buradan türetilir.
var notificationSources = map[NotificationType]SourceType{
	NotificationFollow:       SourceUser,
	NotificationPostLike:     SourcePost,
	NotificationPostComment:  SourcePost,
	NotificationCommentLike:  SourceComment,
	NotificationCommentReply: SourceComment,
	NotificationRealmJoin:    SourceRealm,
}

// SourceType, tipin kaynak türünü döner. Bilinmeyen tip için false.
func (t NotificationType) SourceType() (SourceType, bool) {
	s, ok := notificationSources[t]
	return s, ok
}

// Notification, bir kullanıcıya (UserID) bir aktörün (ActorID) yaptığı
// işlemin kaydı. Kaynak türüne göre PostID, CommentID veya RealmID'den
// tam olarak biri dolu olur; USER için hiçbiri.
type Notification struct {
	ID         string           `json:"id" db:"id"`
	UserID     string           `json:"userId" db:"user_id"`
	ActorID    string           `json:"actorId" db:"actor_id"`
	Type       NotificationType `json:"type" db:"type"`
	SourceType SourceType       `json:"sourceType" db:"source_type"`
	PostID     *string          `json:"postId,omitempty" db:"post_id"`
	CommentID  *string          `json:"commentId,omitempty" db:"comment_id"`
	RealmID    *string          `json:"realmId,omitempty" db:"realm_id"`
	IsRead     bool             `json:"isRead" db:"is_read"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
}

// CreateNotificationParams, persist-and-fanout girdisi.
// Tipin gerektirdiği referans dışındaki alanlar boş kalmalı.
type CreateNotificationParams struct {
	UserID    string
	ActorID   string
	Type      NotificationType
	PostID    string
	CommentID string
	RealmID   string
}

// Validate, parametreleri kontrol eder ve tipten türetilen kaynak türünü döner.
func (p *CreateNotificationParams) Validate() (SourceType, error) {
	if p.UserID == "" {
		return "", fmt.Errorf("userId is required")
	}
	if p.ActorID == "" {
		return "", fmt.Errorf("actorId is required")
	}

	source, ok := p.Type.SourceType()
	if !ok {
		return "", fmt.Errorf("unknown notification type %q", p.Type)
	}

	want := map[SourceType]string{
		SourcePost:    p.PostID,
		SourceComment: p.CommentID,
		SourceRealm:   p.RealmID,
	}
	for kind, ref := range want {
		switch {
		case kind == source && ref == "":
			return "", fmt.Errorf("%s notification requires a %s reference", p.Type, kind)
		case kind != source && ref != "":
			return "", fmt.Errorf("%s notification must not reference a %s", p.Type, kind)
		}
	}

	return source, nil
}

// ToNotification, doğrulanmış parametrelerden kaydedilecek satırı üretir.
func (p *CreateNotificationParams) ToNotification(source SourceType) *Notification {
	n := &Notification{
		UserID:     p.UserID,
		ActorID:    p.ActorID,
		Type:       p.Type,
		SourceType: source,
	}
	switch source {
	case SourcePost:
		id := p.PostID
		n.PostID = &id
	case SourceComment:
		id := p.CommentID
		n.CommentID = &id
	case SourceRealm:
		id := p.RealmID
		n.RealmID = &id
	}
	return n
}

// NotificationPage, sayfa numaralı bildirim listesi (yeniden eskiye).
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
	HasMore       bool           `json:"hasMore"`
}
