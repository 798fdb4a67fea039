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

type sqliteRealmRepo struct {
	db database.TxQuerier
}

// NewSQLiteRealmRepo, constructor. Transaction içinde *sql.Tx ile de kurulabilir.
func NewSQLiteRealmRepo(db database.TxQuerier) RealmRepository {
	return &sqliteRealmRepo{db: db}
}

func (r *sqliteRealmRepo) Create(ctx context.Context, realm *models.Realm) error {
	query := `
		INSERT INTO realms (id, name, description, creator_id)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), realm.Name, realm.Description, realm.CreatorID,
	).Scan(&realm.ID, &realm.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: realm name already taken", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create realm: %w", err)
	}
	return nil
}

func (r *sqliteRealmRepo) GetByID(ctx context.Context, id string) (*models.Realm, error) {
	query := `
		SELECT id, name, description, creator_id, created_at
		FROM realms WHERE id = ?`

	realm := &models.Realm{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&realm.ID, &realm.Name, &realm.Description, &realm.CreatorID, &realm.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: realm", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get realm: %w", err)
	}
	return realm, nil
}

func (r *sqliteRealmRepo) AddMember(ctx context.Context, realmID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO realm_members (realm_id, user_id) VALUES (?, ?)`, realmID, userID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: already a member", pkg.ErrAlreadyExists)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: realm", pkg.ErrNotFound)
	default:
		return fmt.Errorf("failed to add realm member: %w", err)
	}
}

func (r *sqliteRealmRepo) RemoveMember(ctx context.Context, realmID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM realm_members WHERE realm_id = ? AND user_id = ?`, realmID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove realm member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: membership", pkg.ErrNotFound)
	}
	return nil
}
