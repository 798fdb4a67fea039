package repository

import (
	"context"

	"github.com/akinalp/realms/models"
)

// CommentRepository, yorumlar, yanıtlar ve yorum beğenileri için interface.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	AddLike(ctx context.Context, commentID, userID string) error
	RemoveLike(ctx context.Context, commentID, userID string) error
}
