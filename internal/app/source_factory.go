package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/shrimpsizemoose/quizdash/internal/source"
	"github.com/shrimpsizemoose/quizdash/internal/source/postgres"
	"github.com/shrimpsizemoose/quizdash/internal/source/rest"
	"github.com/shrimpsizemoose/quizdash/internal/source/sqlite"
)

// DetectBackend picks the source kind from the backend url: http(s) is a
// hosted REST endpoint, postgres:// or postgresql:// is a direct
// connection, anything else is a SQLite path.
func DetectBackend(url string) source.BackendType {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return source.BackendREST
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return source.BackendPostgres
	default:
		return source.BackendSQLite
	}
}

func NewSource(url, key, table, migrationsDir string, timeout time.Duration) (source.Source, error) {
	if url == "" {
		return nil, source.ErrNotConfigured
	}

	var (
		src source.Source
		err error
	)
	switch backend := DetectBackend(url); backend {
	case source.BackendREST:
		src, err = rest.NewClient(url, key, table, timeout)
	case source.BackendPostgres:
		src, err = postgres.NewPostgresSource(url, table, migrationsDir)
	case source.BackendSQLite:
		src, err = sqlite.NewSQLiteSource(strings.TrimPrefix(url, "sqlite://"), table, migrationsDir)
	default:
		return nil, fmt.Errorf("unable to determine backend type from url: %s", url)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}
