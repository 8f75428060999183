// Package telemetry provides the histogramInc observation sink that
// fillInBlockArguments calls into. These calls are
// observation points, not required behavior - every
// Sink here is safe to swap for another without changing pipeline results.
package telemetry

import (
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Sink receives histogram-style observations keyed by name.
type Sink interface {
	HistogramInc(name string, value int)
}

// NoopSink discards every observation - the genuinely zero-cost option
// for an embedded build that can't afford even atomic-counter overhead.
type NoopSink struct{}

func (NoopSink) HistogramInc(string, int) {}

// AtomicSink keeps running counters per histogram name as atomics; a
// mutex guards only the name-to-counter lookup, so it is cheap enough to leave on by default instead of reaching
// for NoopSink.
type AtomicSink struct {
	mu       sync.Mutex
	counters map[string]*atomic.Int64
	samples  map[string]*atomic.Int64
}

// NewAtomicSink creates an AtomicSink with no recorded histograms yet.
func NewAtomicSink() *AtomicSink {
	return &AtomicSink{
		counters: make(map[string]*atomic.Int64),
		samples:  make(map[string]*atomic.Int64),
	}
}

func (s *AtomicSink) HistogramInc(name string, value int) {
	s.mu.Lock()
	c, ok := s.counters[name]
	if !ok {
		c = atomic.NewInt64(0)
		s.counters[name] = c
		s.samples[name] = atomic.NewInt64(0)
	}
	n := s.samples[name]
	s.mu.Unlock()
	c.Add(int64(value))
	n.Inc()
}

// Sum returns the running total recorded under name.
func (s *AtomicSink) Sum(name string) int64 {
	s.mu.Lock()
	c, ok := s.counters[name]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	return c.Load()
}

// Count returns the number of observations recorded under name.
func (s *AtomicSink) Count(name string) int64 {
	s.mu.Lock()
	n, ok := s.samples[name]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	return n.Load()
}

// ZapSink logs every observation at debug level, for interactive CLI runs
// where seeing the histogram stream matters more than its cost. Grounded on
// the dev/prod zap.Logger split the security-scanner example builds in
// cmd/root.go's initLogger.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps an existing *zap.Logger as a telemetry Sink.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

func (s *ZapSink) HistogramInc(name string, value int) {
	s.logger.Debug("histogramInc", zap.String("name", name), zap.Int("value", value))
}
