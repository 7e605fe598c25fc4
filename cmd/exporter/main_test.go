package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/quizdash/internal/export"
	"github.com/shrimpsizemoose/quizdash/internal/table"
)

var testView = table.View{
	Columns: []string{"student_id", "total_score"},
	Headers: []string{"student_id", "total_score"},
	Rows:    [][]string{{"S01", "1"}, {"S02", "3"}},
}

func TestWriteExport(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		require.NoError(t, writeExport(path, testView))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		headers, rows, err := export.ReadCSV(f)
		require.NoError(t, err)
		assert.Equal(t, testView.Headers, headers)
		assert.Equal(t, testView.Rows, rows)
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.csv")
		assert.Error(t, writeExport(path, testView))
	})

	t.Run("full device", func(t *testing.T) {
		if _, err := os.Stat("/dev/full"); err != nil {
			t.Skip("/dev/full not available")
		}
		assert.Error(t, writeExport("/dev/full", testView))
	})
}
