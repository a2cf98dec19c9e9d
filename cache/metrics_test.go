package cache

import (
	"math"
	"testing"
)

// TestMetricsRatios tests hit ratio arithmetic
func TestMetricsRatios(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest(Request{ID: 1, Size: 100}, true)
	m.RecordRequest(Request{ID: 2, Size: 300}, false)
	m.RecordRequest(Request{ID: 3, Size: 100}, true)
	m.RecordRequest(Request{ID: 4, Size: 500}, false)

	if got := m.HitRatio(); got != 0.5 {
		t.Errorf("Expected hit ratio 0.5, got %f", got)
	}
	if got := m.ByteHitRatio(); got != 0.2 {
		t.Errorf("Expected byte hit ratio 0.2, got %f", got)
	}
}

// TestMetricsEmpty tests the zero-request case
func TestMetricsEmpty(t *testing.T) {
	m := NewMetrics()
	if m.HitRatio() != 0 || m.ByteHitRatio() != 0 {
		t.Error("Expected zero ratios with no requests")
	}
}

// TestHistogramPercentiles tests percentile interpolation
func TestHistogramPercentiles(t *testing.T) {
	h := NewHistogram(100)
	for i := 1; i <= 100; i++ {
		h.Record(float64(i))
	}

	if got := h.Percentile(0); got != 1 {
		t.Errorf("Expected p0 = 1, got %f", got)
	}
	if got := h.Percentile(100); got != 100 {
		t.Errorf("Expected p100 = 100, got %f", got)
	}
	if got := h.Percentile(50); math.Abs(got-50.5) > 0.01 {
		t.Errorf("Expected p50 about 50.5, got %f", got)
	}
}

// TestHistogramBounded tests that the sample window drops oldest first
func TestHistogramBounded(t *testing.T) {
	h := NewHistogram(10)
	for i := 1; i <= 20; i++ {
		h.Record(float64(i))
	}
	if h.Count() != 10 {
		t.Errorf("Expected 10 retained samples, got %d", h.Count())
	}
	if got := h.Percentile(0); got != 11 {
		t.Errorf("Expected oldest retained sample 11, got %f", got)
	}
}

// TestHistogramMean tests the mean
func TestHistogramMean(t *testing.T) {
	h := NewHistogram(10)
	h.Record(2)
	h.Record(4)
	h.Record(6)
	if got := h.Mean(); got != 4 {
		t.Errorf("Expected mean 4, got %f", got)
	}
}
