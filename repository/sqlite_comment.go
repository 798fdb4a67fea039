package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/akinalp/realms/database"
	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
)

type sqliteCommentRepo struct {
	db database.TxQuerier
}

// NewSQLiteCommentRepo, constructor.
func NewSQLiteCommentRepo(db database.TxQuerier) CommentRepository {
	return &sqliteCommentRepo{db: db}
}

func (r *sqliteCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, parent_id, content)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), comment.PostID, comment.AuthorID, comment.ParentID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: post or parent comment", pkg.ErrNotFound)
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *sqliteCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT id, post_id, author_id, parent_id, content, created_at
		FROM comments WHERE id = ?`

	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.ParentID, &c.Content, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: comment", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

func (r *sqliteCommentRepo) AddLike(ctx context.Context, commentID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comment_likes (comment_id, user_id) VALUES (?, ?)`, commentID, userID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: comment already liked", pkg.ErrAlreadyExists)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: comment", pkg.ErrNotFound)
	default:
		return fmt.Errorf("failed to like comment: %w", err)
	}
}

func (r *sqliteCommentRepo) RemoveLike(ctx context.Context, commentID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?`, commentID, userID)
	if err != nil {
		return fmt.Errorf("failed to unlike comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: like", pkg.ErrNotFound)
	}
	return nil
}
