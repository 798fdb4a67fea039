package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxQuerier, *sql.DB ve *sql.Tx'in ortak sorgu yüzeyi. Bunu alan bir
// repository transaction içinde de dışında da aynı şekilde çalışır.
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx, fn'i bir transaction içinde çalıştırır; fn hata dönerse (veya
// panic olursa) rollback yapılır.
//
//	err := database.WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
//		realms := repository.NewSQLiteRealmRepo(tx)
//		...
//	})
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Commit sonrası Rollback sql.ErrTxDone döner, etkisizdir.
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
