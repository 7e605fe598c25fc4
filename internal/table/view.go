package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/shrimpsizemoose/quizdash/internal/models"
)

// FilterByStudent keeps rows whose student_id contains query. The match is
// case-sensitive. An empty query returns t itself.
func FilterByStudent(t *Table, query string) *Table {
	if query == "" || t == nil {
		return t
	}

	out := &Table{Columns: t.Columns, Rows: []models.Submission{}}
	for _, r := range t.Rows {
		if r.StudentID == nil {
			continue
		}
		if strings.Contains(*r.StudentID, query) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// StudentIDs returns the distinct student ids of t in order of first
// appearance.
func StudentIDs(t *Table) []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var ids []string
	for _, r := range t.Rows {
		if r.StudentID == nil || seen[*r.StudentID] {
			continue
		}
		seen[*r.StudentID] = true
		ids = append(ids, *r.StudentID)
	}
	return ids
}

// Latest returns the newest submission of student, or nil.
func Latest(t *Table, student string) *models.Submission {
	if t == nil {
		return nil
	}
	for i := range t.Rows {
		if id := t.Rows[i].StudentID; id != nil && *id == student {
			return &t.Rows[i]
		}
	}
	return nil
}

// View is a presentational projection of a table: selected columns in a
// given order, with display headers and string cells.
type View struct {
	Columns []string
	Headers []string
	Rows    [][]string
}

// Project selects the columns in order that exist in t and labels them.
// An empty order keeps all table columns. Columns without a label use their
// own name as header.
func Project(t *Table, order []string, labels map[string]string) View {
	var v View
	if t == nil {
		return v
	}
	if len(order) == 0 {
		order = t.Columns
	}
	for _, col := range order {
		if !t.Has(col) {
			continue
		}
		v.Columns = append(v.Columns, col)
		header := col
		if label, ok := labels[col]; ok && label != "" {
			header = label
		}
		v.Headers = append(v.Headers, header)
	}

	v.Rows = make([][]string, 0, len(t.Rows))
	for i := range t.Rows {
		cells := make([]string, len(v.Columns))
		for j, col := range v.Columns {
			cells[j], _ = Cell(&t.Rows[i], col)
		}
		v.Rows = append(v.Rows, cells)
	}
	return v
}

// Cell renders one column of s as text. The boolean is false for null
// values and unknown columns.
func Cell(s *models.Submission, col string) (string, bool) {
	switch col {
	case ColumnID:
		return deref(s.ID)
	case ColumnStudentID:
		return deref(s.StudentID)
	case ColumnCreatedAt:
		if s.CreatedAt == nil {
			return "", false
		}
		return s.CreatedAt.UTC().Format(time.RFC3339), true
	case ColumnCreatedAtLocal:
		return s.CreatedAtLocal, s.CreatedAt != nil
	case ColumnTotalScore:
		return strconv.Itoa(s.TotalScore), true
	}

	for _, q := range []struct {
		prefix string
		cell   func(i int) (string, bool)
	}{
		{"answer_", func(i int) (string, bool) { return deref(s.Answers[i]) }},
		{"feedback_", func(i int) (string, bool) { return deref(s.Feedback[i]) }},
		{"correct_", func(i int) (string, bool) { return strconv.Itoa(s.Correct[i]), true }},
	} {
		if !strings.HasPrefix(col, q.prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(col, q.prefix))
		if err != nil || n < 1 || n > models.QuestionCount {
			return "", false
		}
		return q.cell(n - 1)
	}
	return "", false
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}
