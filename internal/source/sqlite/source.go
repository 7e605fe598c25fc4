// internal/source/sqlite/source.go
package sqlite

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shrimpsizemoose/quizdash/internal/source"
)

type SQLiteSource struct {
	source.BaseSource
}

func NewSQLiteSource(dsn, table, migrationsDir string) (*SQLiteSource, error) {
	if err := source.ValidateTable(table); err != nil {
		return nil, err
	}

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	s := &SQLiteSource{BaseSource: source.BaseSource{
		DB:    db,
		Table: table,
	}}

	if migrationsDir != "" {
		if err := s.ApplyMigrations(migrationsDir); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	return s, nil
}

func (s *SQLiteSource) Name() string {
	return string(source.BackendSQLite)
}

func (s *SQLiteSource) ApplyMigrations(dir string) error {
	return s.BaseSource.ApplyMigrations(dir, translateToSQLite)
}

// sqliteReplacements are applied in order, longer patterns first.
var sqliteReplacements = []struct{ from, to string }{
	{"BIGSERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT"},
	{"TIMESTAMPTZ", "TIMESTAMP"},
	{"now()", "CURRENT_TIMESTAMP"},
	{"::text", ""},
}

// translateToSQLite converts Postgres SQL to SQLite dialect
func translateToSQLite(sql string) string {
	result := sql
	for _, r := range sqliteReplacements {
		result = strings.ReplaceAll(result, r.from, r.to)
	}
	return result
}
