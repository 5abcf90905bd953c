// internal/store/sqlite/store.go
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/shrimpsizemoose/lagkaka/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn, migrationsDir string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
		InsertID: insertLastID,
		Classify: classify,
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

func insertLastID(ctx context.Context, tx *sqlx.Tx, query string, args ...interface{}) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func classify(err error) store.ErrorKind {
	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) {
		return store.KindUnknown
	}
	switch sqErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return store.KindUniqueViolation
	default:
		if sqErr.Code == sqlite3.ErrBusy {
			return store.KindTimeout
		}
		return store.KindUnknown
	}
}

// translateToSQLite converts Postgres SQL to SQLite dialect. Pairs are
// ordered: longer patterns must run before their substrings.
func translateToSQLite(sql string) string {
	replacements := [][2]string{
		{"BIGSERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT"},
		{"BIGINT", "INTEGER"},
		{"BOOLEAN", "INTEGER"},
		{"DOUBLE PRECISION", "REAL"},
		{"TRUE", "1"},
		{"FALSE", "0"},
		{"now()", "CURRENT_TIMESTAMP"},
		{"VARCHAR(100)", "TEXT"},
		{"VARCHAR(120)", "TEXT"},
		{"VARCHAR(200)", "TEXT"},
		{"VARCHAR(32)", "TEXT"},
	}
	result := sql
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r[0], r[1])
	}
	return result
}
