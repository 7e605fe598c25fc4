package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/quizdash/internal/models"
	"github.com/shrimpsizemoose/quizdash/internal/scoring"
)

const (
	ColumnID             = "id"
	ColumnStudentID      = "student_id"
	ColumnCreatedAt      = "created_at"
	ColumnCreatedAtLocal = "created_at_local"
	ColumnTotalScore     = "total_score"
)

// KnownColumns lists the source columns the normalizer keeps, in display
// order. Anything else a source returns is dropped.
var KnownColumns = func() []string {
	cols := []string{ColumnID, ColumnStudentID, ColumnCreatedAt}
	for i := 1; i <= models.QuestionCount; i++ {
		cols = append(cols, models.AnswerColumn(i))
	}
	for i := 1; i <= models.QuestionCount; i++ {
		cols = append(cols, models.FeedbackColumn(i))
	}
	return cols
}()

// Table is a uniform view over one fetch. Rows keep the source order,
// which is newest first.
type Table struct {
	Columns []string
	Rows    []models.Submission
}

// Empty reports whether the table holds no submissions. An empty table is a
// valid result, not an error.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Has reports whether col is one of the table's columns.
func (t *Table) Has(col string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

func (t *Table) addColumn(col string) {
	if !t.Has(col) {
		t.Columns = append(t.Columns, col)
	}
}

// Normalize converts raw records into a table where every known column that
// appeared in any record is present on every row. Missing and non-string
// values become nil, except id and student_id which also accept numbers.
func Normalize(records []models.Record) (*Table, error) {
	t := &Table{Rows: []models.Submission{}}
	if len(records) == 0 {
		return t, nil
	}

	seen := make(map[string]bool)
	t.Rows = make([]models.Submission, 0, len(records))
	for i, rec := range records {
		for _, col := range KnownColumns {
			if _, ok := rec[col]; ok {
				seen[col] = true
			}
		}

		sub := models.Submission{
			ID:        idValue(rec[ColumnID]),
			StudentID: idValue(rec[ColumnStudentID]),
		}
		createdAt, err := timeValue(rec[ColumnCreatedAt])
		if err != nil {
			return nil, fmt.Errorf("failed to normalize row %d: %w", i, err)
		}
		sub.CreatedAt = createdAt
		for q := 0; q < models.QuestionCount; q++ {
			sub.Answers[q] = stringValue(rec[models.AnswerColumn(q+1)])
			sub.Feedback[q] = stringValue(rec[models.FeedbackColumn(q+1)])
		}
		t.Rows = append(t.Rows, sub)
	}

	for _, col := range KnownColumns {
		if seen[col] {
			t.Columns = append(t.Columns, col)
		}
	}
	return t, nil
}

// Build runs the whole pipeline on one fetch: normalization, grading and
// localization.
func Build(records []models.Record, loc *Localizer) (*Table, error) {
	t, err := Normalize(records)
	if err != nil {
		return nil, err
	}
	if t.Empty() {
		return t, nil
	}

	for i := range t.Rows {
		scoring.Grade(&t.Rows[i])
	}
	for i := 1; i <= models.QuestionCount; i++ {
		t.addColumn(models.CorrectColumn(i))
	}
	t.addColumn(ColumnTotalScore)

	loc.Apply(t)
	return t, nil
}

func stringValue(v interface{}) *string {
	switch s := v.(type) {
	case string:
		return &s
	case []byte:
		str := string(s)
		return &str
	default:
		return nil
	}
}

// idValue renders an identifier column. Backends return numeric student
// numbers as numbers, so those are kept as text.
func idValue(v interface{}) *string {
	var s string
	switch id := v.(type) {
	case string:
		s = id
	case []byte:
		s = string(id)
	case json.Number:
		s = id.String()
	case int64:
		s = strconv.FormatInt(id, 10)
	case int:
		s = strconv.Itoa(id)
	case float64:
		s = strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return nil
	}
	return &s
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func timeValue(v interface{}) (*time.Time, error) {
	switch ts := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		utc := ts.UTC()
		return &utc, nil
	case []byte:
		return parseTimestamp(string(ts))
	case string:
		return parseTimestamp(ts)
	default:
		return nil, fmt.Errorf("unsupported created_at value %v (%T)", v, v)
	}
}

// parseTimestamp reads a stored timestamp. Values without a zone are UTC.
func parseTimestamp(s string) (*time.Time, error) {
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			utc := ts.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("unparseable created_at %q", s)
}
