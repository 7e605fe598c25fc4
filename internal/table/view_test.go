package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/quizdash/internal/models"
)

func sampleTable(t *testing.T) *Table {
	records := []models.Record{
		{"student_id": "2024-101", "created_at": "2024-05-02T01:00:00Z", "answer_1": "a", "feedback_1": "O: ok"},
		{"student_id": nil, "created_at": "2024-05-01T23:00:00Z", "feedback_1": "X: no"},
		{"student_id": "2024-202", "created_at": "2024-05-01T01:00:00Z", "feedback_1": "O: ok", "feedback_2": "O: ok"},
		{"student_id": "2024-101", "created_at": "2024-04-30T01:00:00Z", "feedback_1": "X: no"},
	}
	tbl, err := Build(records, newLocalizer(t))
	require.NoError(t, err)
	return tbl
}

func TestFilterByStudent(t *testing.T) {
	tbl := sampleTable(t)

	t.Run("empty query is identity", func(t *testing.T) {
		assert.Same(t, tbl, FilterByStudent(tbl, ""))
	})

	t.Run("substring match excludes null ids", func(t *testing.T) {
		out := FilterByStudent(tbl, "2024")
		require.Len(t, out.Rows, 3)
		for _, r := range out.Rows {
			require.NotNil(t, r.StudentID)
			assert.Contains(t, *r.StudentID, "2024")
		}
		assert.Equal(t, tbl.Columns, out.Columns)
	})

	t.Run("order is preserved", func(t *testing.T) {
		out := FilterByStudent(tbl, "101")
		require.Len(t, out.Rows, 2)
		assert.Equal(t, "2024-05-02T01:00:00Z", out.Rows[0].CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
		assert.Equal(t, 1, out.Rows[0].TotalScore)
		assert.Equal(t, 0, out.Rows[1].TotalScore)
	})

	t.Run("case sensitive", func(t *testing.T) {
		upper, err := Build([]models.Record{{"student_id": "ABC"}}, newLocalizer(t))
		require.NoError(t, err)
		assert.Empty(t, FilterByStudent(upper, "abc").Rows)
		assert.Len(t, FilterByStudent(upper, "AB").Rows, 1)
	})

	t.Run("no match", func(t *testing.T) {
		out := FilterByStudent(tbl, "999")
		assert.True(t, out.Empty())
	})

	t.Run("source table is untouched", func(t *testing.T) {
		FilterByStudent(tbl, "202")
		assert.Len(t, tbl.Rows, 4)
	})
}

func TestStudentsAndLatest(t *testing.T) {
	tbl := sampleTable(t)
	assert.Equal(t, []string{"2024-101", "2024-202"}, StudentIDs(tbl))

	latest := Latest(tbl, "2024-101")
	require.NotNil(t, latest)
	assert.Equal(t, "2024-05-02 10:00:00", latest.CreatedAtLocal)

	assert.Nil(t, Latest(tbl, "nobody"))
}

func TestProject(t *testing.T) {
	tbl := sampleTable(t)

	view := Project(tbl,
		[]string{"student_id", "created_at_local", "answer_1", "missing", "total_score"},
		map[string]string{"student_id": "Student", "created_at_local": "Submitted"},
	)

	assert.Equal(t, []string{"student_id", "created_at_local", "answer_1", "total_score"}, view.Columns)
	assert.Equal(t, []string{"Student", "Submitted", "answer_1", "total_score"}, view.Headers)
	require.Len(t, view.Rows, 4)
	assert.Equal(t, []string{"2024-101", "2024-05-02 10:00:00", "a", "1"}, view.Rows[0])
	assert.Equal(t, []string{"", "2024-05-02 08:00:00", "", "0"}, view.Rows[1])

	t.Run("default order keeps all columns", func(t *testing.T) {
		all := Project(tbl, nil, nil)
		assert.Equal(t, tbl.Columns, all.Columns)
		assert.Equal(t, tbl.Columns, all.Headers)
	})

	t.Run("projection does not change scores", func(t *testing.T) {
		before := tbl.Rows[2].TotalScore
		Project(tbl, []string{"total_score"}, map[string]string{"total_score": "Score"})
		assert.Equal(t, before, tbl.Rows[2].TotalScore)
		assert.Equal(t, 2, before)
	})
}

func TestCell(t *testing.T) {
	tbl := sampleTable(t)
	row := &tbl.Rows[0]

	for col, want := range map[string]string{
		"student_id":  "2024-101",
		"created_at":  "2024-05-02T01:00:00Z",
		"answer_1":    "a",
		"feedback_1":  "O: ok",
		"correct_1":   "1",
		"correct_3":   "0",
		"total_score": "1",
	} {
		got, ok := Cell(row, col)
		assert.True(t, ok, col)
		assert.Equal(t, want, got, col)
	}

	for _, col := range []string{"answer_2", "answer_4", "answer_x", "nope", "id"} {
		_, ok := Cell(row, col)
		assert.False(t, ok, col)
	}
}
