package repository

import (
	"context"

	"github.com/akinalp/realms/models"
)

// NotificationRepository, bildirimler için interface.
type NotificationRepository interface {
	// Create, bildirimi is_read=false ile kaydeder; dönen satır n'ye yazılır.
	Create(ctx context.Context, n *models.Notification) error
	// ListByUser, kullanıcının bildirimlerini yeniden eskiye döner.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// MarkRead, sadece sahibi (userID) olan bildirimi okundu yapar.
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}
