package cache

import (
	"log/slog"
	"math"
	"sort"
)

// Histogram tracks a value distribution with percentile support. The
// simulator feeds it object sizes; it keeps at most maxSize samples,
// dropping the oldest first.
type Histogram struct {
	samples []float64
	maxSize int
	sorted  bool
}

// NewHistogram creates a new histogram with a max sample size
func NewHistogram(maxSize int) *Histogram {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &Histogram{
		samples: make([]float64, 0, maxSize),
		maxSize: maxSize,
		sorted:  true,
	}
}

// Record adds a sample
func (h *Histogram) Record(v float64) {
	if len(h.samples) >= h.maxSize {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:len(h.samples)-1]
	}
	h.samples = append(h.samples, v)
	h.sorted = false
}

// Count returns the number of retained samples
func (h *Histogram) Count() int {
	return len(h.samples)
}

// Percentile calculates the given percentile (0-100) with linear
// interpolation between samples
func (h *Histogram) Percentile(p float64) float64 {
	if len(h.samples) == 0 {
		return 0
	}
	// sort a copy so the retained samples keep their arrival order
	sorted := make([]float64, len(h.samples))
	copy(sorted, h.samples)
	sort.Float64s(sorted)

	rank := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Mean returns the arithmetic mean of the retained samples
func (h *Histogram) Mean() float64 {
	if len(h.samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range h.samples {
		sum += v
	}
	return sum / float64(len(h.samples))
}

// Metrics collects per-run simulation counters
type Metrics struct {
	Requests       uint64
	Hits           uint64
	BytesRequested uint64
	BytesHit       uint64

	sizeHist *Histogram
}

// NewMetrics creates an empty metrics collector
func NewMetrics() *Metrics {
	return &Metrics{sizeHist: NewHistogram(10000)}
}

// RecordRequest records one replayed request and whether it hit
func (m *Metrics) RecordRequest(req Request, hit bool) {
	m.Requests++
	m.BytesRequested += req.Size
	if hit {
		m.Hits++
		m.BytesHit += req.Size
	}
	m.sizeHist.Record(float64(req.Size))
}

// HitRatio returns hits over requests
func (m *Metrics) HitRatio() float64 {
	if m.Requests == 0 {
		return 0
	}
	return float64(m.Hits) / float64(m.Requests)
}

// ByteHitRatio returns bytes served from cache over bytes requested
func (m *Metrics) ByteHitRatio() float64 {
	if m.BytesRequested == 0 {
		return 0
	}
	return float64(m.BytesHit) / float64(m.BytesRequested)
}

// LogMetrics writes a structured summary of the run
func (m *Metrics) LogMetrics(logger *slog.Logger) {
	logger.Info("simulation metrics",
		slog.Group("requests",
			slog.Uint64("total", m.Requests),
			slog.Uint64("hits", m.Hits),
			slog.Float64("hit_ratio", m.HitRatio()),
		),
		slog.Group("bytes",
			slog.Uint64("requested", m.BytesRequested),
			slog.Uint64("hit", m.BytesHit),
			slog.Float64("byte_hit_ratio", m.ByteHitRatio()),
		),
		slog.Group("object_size",
			slog.Int("samples", m.sizeHist.Count()),
			slog.Float64("mean", m.sizeHist.Mean()),
			slog.Float64("p50", m.sizeHist.Percentile(50)),
			slog.Float64("p99", m.sizeHist.Percentile(99)),
		),
	)
}
