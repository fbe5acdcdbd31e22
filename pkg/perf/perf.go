// Package perf records wall-clock timings of named operations.
//
// Usage:
//
//	defer perf.Track(cfg, "pkg.Func")()
//
// Tracking is off unless enabled with Enable or by a configuration with
// Profile set; when off, Track costs one atomic load.
package perf

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/cloudposse/artifactor/pkg/schema"
)

const (
	// Values are recorded in microseconds, from 1µs up to one hour.
	minValue          = 1
	maxValue          = int64(time.Hour / time.Microsecond)
	significantDigits = 3
)

var (
	enabled atomic.Bool

	mu         sync.Mutex
	histograms = make(map[string]*hdrhistogram.Histogram)
)

// Stat summarizes the timings recorded for one name.
type Stat struct {
	Name  string
	Count int64
	P50   time.Duration
	P95   time.Duration
	Max   time.Duration
	Total time.Duration
}

// Enable turns tracking on or off process-wide.
func Enable(on bool) {
	enabled.Store(on)
}

// Enabled reports whether tracking is on.
func Enabled() bool {
	return enabled.Load()
}

// Track starts timing name and returns the function that stops it.
func Track(cfg *schema.Configuration, name string) func() {
	if !enabled.Load() && (cfg == nil || !cfg.Profile) {
		return func() {}
	}

	start := time.Now()
	return func() {
		record(name, time.Since(start))
	}
}

func record(name string, elapsed time.Duration) {
	us := elapsed.Microseconds()
	if us < minValue {
		us = minValue
	}
	if us > maxValue {
		us = maxValue
	}

	mu.Lock()
	defer mu.Unlock()

	h, ok := histograms[name]
	if !ok {
		h = hdrhistogram.New(minValue, maxValue, significantDigits)
		histograms[name] = h
	}
	_ = h.RecordValue(us)
}

// Snapshot returns the recorded stats sorted by total time, largest first.
func Snapshot() []Stat {
	mu.Lock()
	defer mu.Unlock()

	stats := make([]Stat, 0, len(histograms))
	for name, h := range histograms {
		count := h.TotalCount()
		stats = append(stats, Stat{
			Name:  name,
			Count: count,
			P50:   micros(h.ValueAtQuantile(50)),
			P95:   micros(h.ValueAtQuantile(95)),
			Max:   micros(h.Max()),
			Total: micros(int64(h.Mean() * float64(count))),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Total == stats[j].Total {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].Total > stats[j].Total
	})

	return stats
}

// Reset discards everything recorded so far.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	histograms = make(map[string]*hdrhistogram.Histogram)
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
