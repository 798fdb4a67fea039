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

type sqliteSessionRepo struct {
	db  sqlx.ExtContext
	now func() time.Time
}

func NewSQLiteSessionRepo(db sqlx.ExtContext) SessionRepository {
	return &sqliteSessionRepo{db: db, now: time.Now}
}

func (r *sqliteSessionRepo) Create(ctx context.Context, session *models.Session) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO sessions (id, user_id, refresh_token, expires_at)
		VALUES (?, ?, ?, ?)
		RETURNING *`,
		uuid.NewString(), session.UserID, session.RefreshToken, session.ExpiresAt.UTC(),
	).StructScan(session)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sqliteSessionRepo) GetByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := sqlx.GetContext(ctx, r.db, &session, `SELECT * FROM sessions WHERE refresh_token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

func (r *sqliteSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired, süresi geçmiş session'ları siler ve kaç tane silindiğini döner.
func (r *sqliteSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return res.RowsAffected()
}
