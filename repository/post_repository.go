package repository

import (
	"context"

	"github.com/akinalp/realms/models"
)

// PostRepository, post ve post beğenileri için interface.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// AddLike, beğeni ekler; zaten varsa ErrAlreadyExists döner.
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
}
