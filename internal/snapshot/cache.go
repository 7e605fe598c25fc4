package snapshot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdash/internal/metrics"
	"github.com/shrimpsizemoose/quizdash/internal/scoring"
	"github.com/shrimpsizemoose/quizdash/internal/source"
	"github.com/shrimpsizemoose/quizdash/internal/table"
)

const DefaultTTL = 60 * time.Second

// Snapshot is the table produced by one fetch. It is never modified after
// it is built.
type Snapshot struct {
	Table     *table.Table
	Summary   scoring.Summary
	FetchedAt time.Time
}

// Cache memoizes the last successful snapshot for a TTL. It has no key:
// there is only one table.
type Cache struct {
	source    source.Source
	localizer *table.Localizer
	ttl       time.Duration
	now       func() time.Time

	mu      sync.Mutex
	current *Snapshot
}

func NewCache(src source.Source, loc *table.Localizer, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		source:    src,
		localizer: loc,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Get returns the memoized snapshot while it is fresh and otherwise fetches
// a new one. A failed fetch keeps the previous snapshot for later reads
// and returns the error.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.now().Sub(c.current.FetchedAt) < c.ttl {
		metrics.SnapshotLookups.WithLabelValues("hit").Inc()
		logger.Debug.Printf("Snapshot cache hit, fetched at %s", c.current.FetchedAt.Format(time.RFC3339))
		return c.current, nil
	}
	metrics.SnapshotLookups.WithLabelValues("miss").Inc()

	snap, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.current = snap
	return snap, nil
}

// Localize renders t in the display zone used for created_at_local.
func (c *Cache) Localize(t time.Time) string {
	return c.localizer.Localize(t)
}

// Invalidate drops the memo so the next Get fetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	logger.Debug.Println("Snapshot cache invalidated")
}

func (c *Cache) fetch(ctx context.Context) (*Snapshot, error) {
	start := c.now()
	records, err := c.source.FetchAll(ctx)
	metrics.FetchDuration.WithLabelValues(c.source.Name()).Observe(c.now().Sub(start).Seconds())
	if err != nil {
		metrics.FetchesTotal.WithLabelValues(c.source.Name(), "error").Inc()
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	metrics.FetchesTotal.WithLabelValues(c.source.Name(), "ok").Inc()

	tbl, err := table.Build(records, c.localizer)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}

	snap := &Snapshot{
		Table:     tbl,
		Summary:   scoring.Summarize(tbl.Rows),
		FetchedAt: c.now(),
	}

	metrics.SnapshotRows.Set(float64(len(tbl.Rows)))
	for score, n := range snap.Summary.ScoreCounts {
		metrics.SubmissionScores.WithLabelValues(strconv.Itoa(score)).Set(float64(n))
	}
	logger.Info.Printf("Fetched %d submissions from %s source", len(tbl.Rows), c.source.Name())

	return snap, nil
}
