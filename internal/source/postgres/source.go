package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/shrimpsizemoose/quizdash/internal/source"
)

type PostgresSource struct {
	source.BaseSource
}

func NewPostgresSource(dsn, table, migrationsDir string) (*PostgresSource, error) {
	if err := source.ValidateTable(table); err != nil {
		return nil, err
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresSource{BaseSource: source.BaseSource{
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

func (s *PostgresSource) Name() string {
	return string(source.BackendPostgres)
}

func (s *PostgresSource) ApplyMigrations(dir string) error {
	return s.BaseSource.ApplyMigrations(dir, nil)
}
