// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz — bu paketteki interface'ler üzerinden
// çalışır. Her interface'in yanında sqlite_*.go dosyasında SQLite
// implementasyonu bulunur. Constructor'lar interface döner.
package repository

import (
	"context"

	"github.com/akinalp/realms/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
