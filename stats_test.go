package spritesort

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestRunStats_ConcurrentIncrements(t *testing.T) {
	t.Parallel()

	stats := NewRunStats(MustClassifier(nil).Buckets())

	const workers, perWorker = 32, 500
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < perWorker; k++ {
				stats.Inc("PYRO")
				stats.Inc(Unclassified)
			}
		}()
	}
	wg.Wait()

	if got := stats.Count("PYRO"); got != workers*perWorker {
		t.Errorf("PYRO = %d, want %d", got, workers*perWorker)
	}
	if got := stats.Total(); got != 2*workers*perWorker {
		t.Errorf("Total() = %d, want %d", got, 2*workers*perWorker)
	}
}

func TestRunStats_UnknownBucketCountsAsError(t *testing.T) {
	t.Parallel()

	stats := NewRunStats([]Category{"A", Unclassified})
	stats.Inc("B")

	if got := stats.Count(Errored); got != 1 {
		t.Errorf("Errored = %d, want 1", got)
	}
}

func TestReport_OrderAndTotal(t *testing.T) {
	t.Parallel()

	stats := NewRunStats(MustClassifier(nil).Buckets())
	stats.Inc("NEUTRAL")
	stats.Inc("PYRO")
	stats.Inc("PYRO")
	stats.Inc(Errored)
	stats.Inc(Unclassified)

	r := stats.Report()
	wantOrder := []Category{"PYRO", "AQUA", "AERO", "TERRA", "NEUTRAL", Unclassified, Errored}
	if len(r.Buckets) != len(wantOrder) {
		t.Fatalf("buckets = %v", r.Buckets)
	}
	sum := 0
	for i, b := range r.Buckets {
		if b.Category != wantOrder[i] {
			t.Errorf("bucket %d = %q, want %q", i, b.Category, wantOrder[i])
		}
		sum += b.Count
	}
	if r.Total != 5 || sum != r.Total {
		t.Errorf("Total = %d, bucket sum = %d, want 5", r.Total, sum)
	}
	if r.Count("PYRO") != 2 || r.Count("missing") != 0 {
		t.Errorf("Count lookups wrong: PYRO=%d missing=%d", r.Count("PYRO"), r.Count("missing"))
	}
}

func TestReport_WriteTo(t *testing.T) {
	t.Parallel()

	stats := NewRunStats(MustClassifier(nil).Buckets())
	stats.Inc("AQUA")
	r := stats.Report()
	r.Skipped = 1
	r.Unresolved = 2
	r.Lookups = 3

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("n = %d, buffer has %d bytes", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"Processing Complete!",
		"PYRO: 0 images\n",
		"AQUA: 1 images\n",
		"OTHERS: 0 images\n",
		"ERRORS: 0 images\n",
		"Total processed: 1\n",
		"Skipped (no id): 1\n",
		"Unresolved ids: 2 of 3 lookups\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "NEUTRAL") > strings.Index(out, "OTHERS") {
		t.Error("rule categories must precede OTHERS")
	}
}
