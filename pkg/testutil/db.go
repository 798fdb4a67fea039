// Package testutil, paket testlerinde paylaşılan yardımcıları barındırır.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/akinalp/realms/database"
	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/repository"
)

// NewTestDB, geçici dizinde migration'ları uygulanmış bir SQLite veritabanı
// açar ve test bitince kapatır.
//
// ":memory:" yerine dosya kullanılır: pool'daki her bağlantı ayrı bir
// in-memory veritabanı görürdü.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.New(path, database.Migrations(), zap.NewNop())
	if err != nil {
		t.Fatalf("creating test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	return db
}

// CreateUser, verilen kullanıcı adıyla bir kullanıcı ekler.
func CreateUser(t *testing.T, db *database.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, PasswordHash: "x"}
	if err := repository.NewSQLiteUserRepo(db.X).Create(context.Background(), user); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return user
}
