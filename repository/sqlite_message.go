package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
)

// sqliteMessageRepo, MessageRepository'nin sqlx tabanlı implementasyonu.
// sqlx.ExtContext hem *sqlx.DB hem *sqlx.Tx tarafından karşılanır.
type sqliteMessageRepo struct {
	db  sqlx.ExtContext
	now func() time.Time
}

// NewSQLiteMessageRepo, constructor.
func NewSQLiteMessageRepo(db sqlx.ExtContext) MessageRepository {
	return &sqliteMessageRepo{db: db, now: time.Now}
}

func (r *sqliteMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, content, image_url, sender_id, receiver_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING *`

	err := r.db.QueryRowxContext(ctx, query,
		uuid.NewString(),
		msg.Content,
		msg.ImageURL,
		msg.SenderID,
		msg.ReceiverID,
		r.now().UTC(),
	).StructScan(msg)

	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: sender or receiver", pkg.ErrNotFound)
	case isCheckViolation(err):
		return fmt.Errorf("%w: message has no content", pkg.ErrBadRequest)
	default:
		return fmt.Errorf("failed to create message: %w", err)
	}
}

func (r *sqliteMessageRepo) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var msg models.Message
	err := sqlx.GetContext(ctx, r.db, &msg, `SELECT * FROM messages WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: message", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &msg, nil
}

func (r *sqliteMessageRepo) ListConversation(ctx context.Context, userA, userB, beforeID string, limit int) ([]models.Message, error) {
	query := `
		SELECT * FROM messages
		WHERE ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))`
	args := []any{userA, userB, userB, userA}

	// Cursor sıralamayla aynı (created_at, id) çiftini kullanır; aynı
	// zaman damgalı mesajlar atlanmaz.
	if beforeID != "" {
		query += ` AND (created_at, id) < (SELECT created_at, id FROM messages WHERE id = ?)`
		args = append(args, beforeID)
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	var messages []models.Message
	if err := sqlx.SelectContext(ctx, r.db, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}
	return messages, nil
}
