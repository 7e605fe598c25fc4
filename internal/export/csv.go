package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shrimpsizemoose/quizdash/internal/table"
)

const (
	DefaultFilename = "student_submissions.csv"
	ContentType     = "text/csv; charset=utf-8"
)

// bom lets spreadsheet tools that guess the encoding from the locale read
// the file as UTF-8.
var bom = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the view as a UTF-8 CSV with a byte order mark and a
// header row.
func WriteCSV(w io.Writer, v table.View) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("failed to write byte order mark: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(v.Headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, row := range v.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// ReadCSV parses a file produced by WriteCSV back into headers and rows.
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		br.Discard(len(bom))
	}

	records, err := csv.NewReader(br).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

// Filename returns name, or the default download name when it is empty.
func Filename(name string) string {
	if name == "" {
		return DefaultFilename
	}
	return name
}
