package stats

import (
	"fmt"
	"math"
	"sort"
)

// sortedCopy returns an ascending copy of data; data is left untouched.
func sortedCopy(data []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return sorted
}

// Median returns the middle value of data, averaging the two central values
// for an even count. 0 for empty input.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sorted := sortedCopy(data)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Mode returns the most frequent value. Values are binned by exact equality,
// so near-equal floats are counted separately. On a tie the value seen first
// in data wins. 0 for empty input.
func Mode(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	frequency := make(map[float64]int, len(data))
	best := 0
	for _, v := range data {
		frequency[v]++
		if frequency[v] > best {
			best = frequency[v]
		}
	}

	for _, v := range data {
		if frequency[v] == best {
			return v
		}
	}
	return data[0]
}

// Percentile returns the p-th percentile (0 <= p <= 100) using linear
// interpolation between the order statistics bracketing rank p/100*(n-1).
// Empty input returns 0. A p outside [0, 100] returns ErrInvalidPercentile.
func Percentile(data []float64, p float64) (float64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if err := validatePercentile(p); err != nil {
		return 0, err
	}
	return percentileSorted(sortedCopy(data), p), nil
}

func validatePercentile(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return fmt.Errorf("%w: %w (got %v)", ErrInvalidArgument, ErrInvalidPercentile, p)
	}
	return nil
}

// percentileSorted interpolates on already sorted, non-empty data with a
// validated p.
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case p == 0:
		return sorted[0]
	case p == 100:
		return sorted[n-1]
	}

	index := (p / 100) * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Quartiles returns Q1, Q3 and the interquartile range Q3 - Q1.
// All are 0 for empty input.
func Quartiles(data []float64) (q1, q3, iqr float64) {
	if len(data) == 0 {
		return 0, 0, 0
	}
	sorted := sortedCopy(data)
	q1 = percentileSorted(sorted, 25)
	q3 = percentileSorted(sorted, 75)
	return q1, q3, q3 - q1
}
