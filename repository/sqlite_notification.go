package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
)

type sqliteNotificationRepo struct {
	db  sqlx.ExtContext
	now func() time.Time
}

// NewSQLiteNotificationRepo, constructor.
func NewSQLiteNotificationRepo(db sqlx.ExtContext) NotificationRepository {
	return &sqliteNotificationRepo{db: db, now: time.Now}
}

func (r *sqliteNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, actor_id, type, source_type, post_id, comment_id, realm_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING *`

	err := r.db.QueryRowxContext(ctx, query,
		uuid.NewString(),
		n.UserID,
		n.ActorID,
		n.Type,
		n.SourceType,
		n.PostID,
		n.CommentID,
		n.RealmID,
		r.now().UTC(),
	).StructScan(n)

	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: notification recipient, actor or source", pkg.ErrNotFound)
	default:
		return fmt.Errorf("failed to create notification: %w", err)
	}
}

func (r *sqliteNotificationRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Notification, error) {
	query := `
		SELECT * FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`

	var out []models.Notification
	if err := sqlx.SelectContext(ctx, r.db, &out, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}

func (r *sqliteNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *sqliteNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: notification", pkg.ErrNotFound)
	}
	return nil
}

func (r *sqliteNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}
