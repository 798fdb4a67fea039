package repository

import "context"

// FollowRepository, takip ilişkileri için interface.
type FollowRepository interface {
	Add(ctx context.Context, followerID, followingID string) error
	Remove(ctx context.Context, followerID, followingID string) error
}
