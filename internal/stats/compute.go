// Package stats holds the descriptive statistics shared by the simulation engines.
package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean of values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationStdDev calculates the population standard deviation (n denominator).
func PopulationStdDev(values []float64, mean float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n))
}

// SortedCopy returns an ascending copy of values.
func SortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// PercentileAt reads sorted at index floor(n·fraction), clamped to the last element.
// sorted must be pre-sorted ASC.
func PercentileAt(sorted []float64, fraction float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Floor(float64(n) * fraction))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// MaxDrawdown calculates the largest relative drop from a running peak, as a fraction.
// Points are in chronological order. Non-positive peaks never produce a drawdown.
func MaxDrawdown(points []float64) float64 {
	if len(points) == 0 {
		return 0
	}

	peak := points[0]
	maxDrawdown := 0.0
	for _, p := range points {
		if p > peak {
			peak = p
		}
		if peak <= 0 {
			continue
		}
		drawdown := (peak - p) / peak
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown
}

// SafeDiv returns num/den, or 0 when den is zero or the result is not finite.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// PercentChange returns (value-base)/base·100, or 0 when base is zero.
func PercentChange(value, base float64) float64 {
	return SafeDiv(value-base, base) * 100
}
