package spritesort

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

// RunStats counts dispatched files per bucket. The bucket set is fixed at
// construction, so increments need no lock.
type RunStats struct {
	order    []Category
	counters map[Category]*atomic.Int64
}

// NewRunStats returns zeroed counters for buckets, in report order.
func NewRunStats(buckets []Category) *RunStats {
	s := &RunStats{
		order:    buckets,
		counters: make(map[Category]*atomic.Int64, len(buckets)),
	}
	for _, b := range buckets {
		s.counters[b] = new(atomic.Int64)
	}
	if _, ok := s.counters[Errored]; !ok {
		s.order = append(s.order, Errored)
		s.counters[Errored] = new(atomic.Int64)
	}
	return s
}

// Inc adds one to bucket. Unknown buckets count as Errored.
func (s *RunStats) Inc(bucket Category) {
	c, ok := s.counters[bucket]
	if !ok {
		c = s.counters[Errored]
	}
	c.Add(1)
}

// Count returns the current value of bucket.
func (s *RunStats) Count(bucket Category) int {
	if c, ok := s.counters[bucket]; ok {
		return int(c.Load())
	}
	return 0
}

// Total returns the sum of all buckets.
func (s *RunStats) Total() int {
	n := 0
	for _, c := range s.counters {
		n += int(c.Load())
	}
	return n
}

// BucketCount is one line of a Report.
type BucketCount struct {
	Category Category
	Count    int
}

// Report is the final tally of a run.
type Report struct {
	Buckets    []BucketCount // rule categories in priority order, then OTHERS and ERRORS
	Total      int           // files that entered classification
	Found      int           // image files enumerated in the source directory
	Skipped    int           // image files without a leading id
	Lookups    int           // remote lookups performed
	Unresolved int           // distinct ids whose lookup failed
	Elapsed    time.Duration
}

// Count returns the count for category, or 0.
func (r *Report) Count(category Category) int {
	for _, b := range r.Buckets {
		if b.Category == category {
			return b.Count
		}
	}
	return 0
}

// Report snapshots the counters.
func (s *RunStats) Report() *Report {
	r := &Report{Buckets: make([]BucketCount, 0, len(s.order))}
	for _, b := range s.order {
		n := s.Count(b)
		r.Buckets = append(r.Buckets, BucketCount{Category: b, Count: n})
		r.Total += n
	}
	return r
}

// WriteTo renders the human-readable end-of-run tally.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	rule := strings.Repeat("-", 30)

	b.WriteString("\nProcessing Complete!\n")
	b.WriteString(rule + "\n")
	for _, bc := range r.Buckets {
		fmt.Fprintf(&b, "%s: %d images\n", bc.Category, bc.Count)
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Total processed: %d\n", r.Total)
	if r.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped (no id): %d\n", r.Skipped)
	}
	if r.Unresolved > 0 {
		fmt.Fprintf(&b, "Unresolved ids: %d of %d lookups\n", r.Unresolved, r.Lookups)
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
