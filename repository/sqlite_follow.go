package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/realms/database"
	"github.com/akinalp/realms/pkg"
)

type sqliteFollowRepo struct {
	db database.TxQuerier
}

// NewSQLiteFollowRepo, constructor.
func NewSQLiteFollowRepo(db database.TxQuerier) FollowRepository {
	return &sqliteFollowRepo{db: db}
}

func (r *sqliteFollowRepo) Add(ctx context.Context, followerID, followingID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, following_id) VALUES (?, ?)`, followerID, followingID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: already following", pkg.ErrAlreadyExists)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: user", pkg.ErrNotFound)
	case isCheckViolation(err):
		return fmt.Errorf("%w: cannot follow yourself", pkg.ErrBadRequest)
	default:
		return fmt.Errorf("failed to follow user: %w", err)
	}
}

func (r *sqliteFollowRepo) Remove(ctx context.Context, followerID, followingID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: follow", pkg.ErrNotFound)
	}
	return nil
}
