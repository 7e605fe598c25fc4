package source

import (
	"errors"
	"fmt"
	"regexp"
)

type BackendType string

const (
	BackendREST     BackendType = "rest"
	BackendPostgres BackendType = "postgres"
	BackendSQLite   BackendType = "sqlite"
)

// DefaultTable is the collection quiz submissions are written to.
const DefaultTable = "student_submissions"

var ErrNotConfigured = errors.New("backend is not configured")

var tableRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTable rejects collection names that are not plain identifiers,
// since they end up inside a query or URL path.
func ValidateTable(name string) error {
	if !tableRegex.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// StatusError is returned when a REST backend answers with a non-2xx code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Body)
}
