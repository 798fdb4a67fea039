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

type sqlitePostRepo struct {
	db database.TxQuerier
}

// NewSQLitePostRepo, constructor.
func NewSQLitePostRepo(db database.TxQuerier) PostRepository {
	return &sqlitePostRepo{db: db}
}

func (r *sqlitePostRepo) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, realm_id, content, image_url)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), post.AuthorID, post.RealmID, post.Content, post.ImageURL,
	).Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: realm", pkg.ErrNotFound)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *sqlitePostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT id, author_id, realm_id, content, image_url, created_at
		FROM posts WHERE id = ?`

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.AuthorID, &post.RealmID, &post.Content, &post.ImageURL, &post.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: post", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (r *sqlitePostRepo) AddLike(ctx context.Context, postID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)`, postID, userID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: post already liked", pkg.ErrAlreadyExists)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: post", pkg.ErrNotFound)
	default:
		return fmt.Errorf("failed to like post: %w", err)
	}
}

func (r *sqlitePostRepo) RemoveLike(ctx context.Context, postID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to unlike post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: like", pkg.ErrNotFound)
	}
	return nil
}
