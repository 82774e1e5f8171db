package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestPopulationStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := Mean(values)

	// Classic example: population stddev is exactly 2
	assert.InDelta(t, 2.0, PopulationStdDev(values, mean), 1e-12)
	assert.Equal(t, 0.0, PopulationStdDev(nil, 0))
	assert.Equal(t, 0.0, PopulationStdDev([]float64{3}, 3))
}

func TestPercentileAt_FloorIndex(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	tests := []struct {
		name     string
		fraction float64
		expected float64
	}{
		{"p5 floors to index 0", 0.05, 10},
		{"p10 reads index 1", 0.10, 20},
		{"p25 floors to index 2", 0.25, 30},
		{"p50 reads index 5", 0.50, 60},
		{"p95 floors to index 9", 0.95, 100},
		{"p100 clamps to last", 1.0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PercentileAt(sorted, tt.fraction))
		})
	}

	assert.Equal(t, 0.0, PercentileAt(nil, 0.5))
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name     string
		points   []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"monotonic non-decreasing", []float64{100, 100, 110, 120}, 0},
		{"single dip", []float64{100, 120, 90, 130}, 0.25},
		{"deepest of two dips", []float64{100, 80, 100, 50, 60}, 0.5},
		{"zero peak is ignored", []float64{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MaxDrawdown(tt.points), 1e-12)
		})
	}
}

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 0.0, SafeDiv(1, 0))
	assert.Equal(t, 0.0, SafeDiv(math.Inf(1), 1))
	assert.InDelta(t, 0.5, SafeDiv(1, 2), 1e-12)
	assert.InDelta(t, 10.0, PercentChange(110, 100), 1e-12)
	assert.Equal(t, 0.0, PercentChange(10, 0))
}
