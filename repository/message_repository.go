package repository

import (
	"context"

	"github.com/akinalp/realms/models"
)

// MessageRepository, direkt mesajlar için interface.
type MessageRepository interface {
	// Create, mesajı kaydeder; ID ve CreatedAt doldurulmuş satır msg'ye yazılır.
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	// ListConversation, iki kullanıcı arasındaki mesajları yeniden eskiye döner.
	// beforeID boş değilse o mesajdan önceki mesajlar döner.
	ListConversation(ctx context.Context, userA, userB, beforeID string, limit int) ([]models.Message, error)
}
