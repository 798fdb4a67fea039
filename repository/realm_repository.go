package repository

import (
	"context"

	"github.com/akinalp/realms/models"
)

// RealmRepository, realm'ler ve üyelikleri için interface.
type RealmRepository interface {
	Create(ctx context.Context, realm *models.Realm) error
	GetByID(ctx context.Context, id string) (*models.Realm, error)
	AddMember(ctx context.Context, realmID, userID string) error
	RemoveMember(ctx context.Context, realmID, userID string) error
}
