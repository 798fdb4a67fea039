// Package database, SQLite bağlantısını ve şema migration'larını yönetir.
//
// Bağlantı sqlx ile açılır: Conn (*sql.DB) TxQuerier kullanan repository'lere,
// X (*sqlx.DB) struct scan yapan repository'lere verilir. İkisi aynı pool'dur.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// pragmas her bağlantıda uygulanır. foreign_keys SQLite'ta varsayılan
// kapalıdır; busy_timeout eşzamanlı yazarların kilidi beklemesini sağlar.
const pragmas = "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

type DB struct {
	Conn *sql.DB
	X    *sqlx.DB
	log  *zap.Logger
}

// New, dbPath'teki veritabanını açar (yoksa oluşturur) ve bekleyen
// migration'ları uygular.
//
//	db, err := database.New("./data/realms.db", database.Migrations(), log)
func New(dbPath string, migrations fs.FS, log *zap.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	x, err := sqlx.Open("sqlite", dbPath+pragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := x.Ping(); err != nil {
		x.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: x.DB, X: x, log: log}

	applied, err := db.Migrate(context.Background(), migrations)
	if err != nil {
		x.Close()
		return nil, err
	}

	log.Info("database ready", zap.String("path", dbPath), zap.Strings("applied", applied))
	return db, nil
}

func (db *DB) Close() error {
	return db.X.Close()
}

// Migrate, migrations içindeki *.sql dosyalarını isim sırasıyla çalıştırır ve
// bu çağrıda uygulananların isimlerini döner.
//
// Her dosya kendi transaction'ında çalışır ve schema_migrations'a aynı
// transaction içinde yazılır: yarım kalan dosya kayıt bırakmaz.
func (db *DB) Migrate(ctx context.Context, migrations fs.FS) ([]string, error) {
	if _, err := db.Conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	// fs.Glob sonuçları sözlük sırasındadır: 001_, 002_, ...
	files, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var done []string
	if err := db.X.SelectContext(ctx, &done, `SELECT filename FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	seen := make(map[string]struct{}, len(done))
	for _, name := range done {
		seen[name] = struct{}{}
	}

	var applied []string
	for _, file := range files {
		if _, ok := seen[file]; ok {
			continue
		}

		body, err := fs.ReadFile(migrations, file)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		err = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(body)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename) VALUES (?)`, file)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("migration %s failed: %w", file, err)
		}

		db.log.Debug("migration applied", zap.String("file", file))
		applied = append(applied, file)
	}

	return applied, nil
}
