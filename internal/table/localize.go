package table

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const (
	DefaultTimezone        = "Asia/Seoul"
	DefaultTimestampFormat = "2006-01-02 15:04:05"
)

// Localizer renders stored UTC instants in a fixed display zone and layout.
type Localizer struct {
	loc    *time.Location
	layout string
}

func NewLocalizer(zone, layout string) (*Localizer, error) {
	if zone == "" {
		zone = DefaultTimezone
	}
	if layout == "" {
		layout = DefaultTimestampFormat
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", zone, err)
	}
	return &Localizer{loc: loc, layout: layout}, nil
}

// Localize only changes presentation; t itself is left untouched.
func (l *Localizer) Localize(t time.Time) string {
	return t.In(l.loc).Format(l.layout)
}

// Apply fills created_at_local on every row. Tables without a created_at
// column are left alone.
func (l *Localizer) Apply(t *Table) {
	if !t.Has(ColumnCreatedAt) {
		return
	}
	t.addColumn(ColumnCreatedAtLocal)
	for i := range t.Rows {
		if ts := t.Rows[i].CreatedAt; ts != nil {
			t.Rows[i].CreatedAtLocal = l.Localize(*ts)
		}
	}
}
