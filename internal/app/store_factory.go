package app

import (
	"strings"

	"github.com/shrimpsizemoose/lagkaka/internal/store"
	"github.com/shrimpsizemoose/lagkaka/internal/store/postgres"
	"github.com/shrimpsizemoose/lagkaka/internal/store/sqlite"
)

func NewStore(dsn, migrationsDir string) (store.Store, error) {
	dbType := store.DBTypeSQLite
	if strings.HasPrefix(dsn, "postgres") {
		dbType = store.DBTypePostgres
	}

	switch dbType {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(dsn, migrationsDir)
	default:
		return sqlite.NewSQLiteStore(dsn, migrationsDir)
	}
}
