package dialect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryStats holds query execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of row-returning statements executed.
	TotalQueries atomic.Int64
	// TotalExecs is the total number of row-less statements executed.
	TotalExecs atomic.Int64
	// TotalDuration is the total time spent at the driver boundary.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of statement errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the average statement duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is a function called when a slow statement is detected.
type SlowQueryHook func(ctx context.Context, query string, params map[string]any, duration time.Duration)

// StatsDriver wraps a Driver with statement statistics collection.
type StatsDriver struct {
	Driver
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow statement detection.
// Statements taking longer than this duration are counted as slow.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements to the default logger.
// This is a convenience wrapper around WithSlowQueryHook.
func WithSlowQueryLog() StatsOption {
	return WithSlowQueryHook(func(_ context.Context, query string, params map[string]any, duration time.Duration) {
		slog.Warn("slow query detected", "duration", duration, "query", query, "params", params)
	})
}

// NewStatsDriver wraps a Driver with statistics collection.
func NewStatsDriver(d Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        d,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns a snapshot of the collected statistics.
func (s *StatsDriver) Stats() StatsSnapshot {
	return s.stats.Stats()
}

// Reset resets the collected statistics.
func (s *StatsDriver) Reset() {
	s.stats.Reset()
}

// Query implements the Driver interface.
func (s *StatsDriver) Query(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	start := time.Now()
	records, err := s.Driver.Query(ctx, query, params)
	s.observe(ctx, &s.stats.TotalQueries, query, params, time.Since(start), err)
	return records, err
}

// QueryScalar implements the Driver interface.
func (s *StatsDriver) QueryScalar(ctx context.Context, query string, params map[string]any) (any, error) {
	start := time.Now()
	v, err := s.Driver.QueryScalar(ctx, query, params)
	s.observe(ctx, &s.stats.TotalQueries, query, params, time.Since(start), err)
	return v, err
}

// Exec implements the Driver interface.
func (s *StatsDriver) Exec(ctx context.Context, query string, params map[string]any) error {
	start := time.Now()
	err := s.Driver.Exec(ctx, query, params)
	s.observe(ctx, &s.stats.TotalExecs, query, params, time.Since(start), err)
	return err
}

func (s *StatsDriver) observe(ctx context.Context, counter *atomic.Int64, query string, params map[string]any, d time.Duration, err error) {
	counter.Add(1)
	s.stats.TotalDuration.Add(int64(d))
	if err != nil {
		s.stats.Errors.Add(1)
	}
	s.mu.RLock()
	threshold, hook := s.slowThreshold, s.slowHook
	s.mu.RUnlock()
	if d >= threshold {
		s.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(ctx, query, params, d)
		}
	}
}

// Collector returns a prometheus.Collector exposing the driver statistics.
// Register it with a prometheus.Registerer to scrape statement totals.
func (s *StatsDriver) Collector() prometheus.Collector {
	return &statsCollector{stats: s.stats}
}

type statsCollector struct {
	stats *QueryStats
}

var (
	queriesDesc = prometheus.NewDesc("gryphon_driver_queries_total",
		"Total row-returning statements executed.", nil, nil)
	execsDesc = prometheus.NewDesc("gryphon_driver_execs_total",
		"Total row-less statements executed.", nil, nil)
	slowDesc = prometheus.NewDesc("gryphon_driver_slow_queries_total",
		"Total statements exceeding the slow threshold.", nil, nil)
	errorsDesc = prometheus.NewDesc("gryphon_driver_errors_total",
		"Total statement errors.", nil, nil)
	durationDesc = prometheus.NewDesc("gryphon_driver_duration_seconds_total",
		"Total time spent at the driver boundary.", nil, nil)
)

// Describe implements prometheus.Collector.
func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queriesDesc
	ch <- execsDesc
	ch <- slowDesc
	ch <- errorsDesc
	ch <- durationDesc
}

// Collect implements prometheus.Collector.
func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.stats.Stats()
	ch <- prometheus.MustNewConstMetric(queriesDesc, prometheus.CounterValue, float64(snap.TotalQueries))
	ch <- prometheus.MustNewConstMetric(execsDesc, prometheus.CounterValue, float64(snap.TotalExecs))
	ch <- prometheus.MustNewConstMetric(slowDesc, prometheus.CounterValue, float64(snap.SlowQueries))
	ch <- prometheus.MustNewConstMetric(errorsDesc, prometheus.CounterValue, float64(snap.Errors))
	ch <- prometheus.MustNewConstMetric(durationDesc, prometheus.CounterValue, snap.TotalDuration.Seconds())
}
