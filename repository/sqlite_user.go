package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
)

type sqliteUserRepo struct {
	db sqlx.ExtContext
}

func NewSQLiteUserRepo(db sqlx.ExtContext) UserRepository {
	return &sqliteUserRepo{db: db}
}

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO users (id, username, display_name, bio, avatar_url, password_hash)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING *`,
		uuid.NewString(), user.Username, user.DisplayName, user.Bio, user.AvatarURL, user.PasswordHash,
	).StructScan(user)

	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
	default:
		return fmt.Errorf("failed to create user: %w", err)
	}
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `SELECT * FROM users WHERE id = ?`, id)
}

// GetByUsername büyük/küçük harf duyarsızdır (kolon COLLATE NOCASE).
func (r *sqliteUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.get(ctx, `SELECT * FROM users WHERE username = ?`, username)
}

func (r *sqliteUserRepo) get(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, r.db, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
