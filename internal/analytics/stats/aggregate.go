package stats

import "math"

// Sum returns the arithmetic total, 0 for empty input.
func Sum(data []float64) float64 {
	total := 0.0
	for _, v := range data {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return Sum(data) / float64(len(data))
}

// sumSquaredDeviations returns Σ(x - mean)².
func sumSquaredDeviations(data []float64) float64 {
	m := Mean(data)
	sumSq := 0.0
	for _, v := range data {
		diff := v - m
		sumSq += diff * diff
	}
	return sumSq
}

// Variance returns the population variance (divisor n), 0 when n < 2.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return sumSquaredDeviations(data) / float64(len(data))
}

// SampleVariance returns the sample variance (divisor n-1), 0 when n < 2.
func SampleVariance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return sumSquaredDeviations(data) / float64(len(data)-1)
}

// StdDev returns the population standard deviation.
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// SampleStdDev returns the sample standard deviation.
func SampleStdDev(data []float64) float64 {
	return math.Sqrt(SampleVariance(data))
}

// MinMax returns the smallest and largest values in a single scan.
// Both are 0 for empty input.
func MinMax(data []float64) (lo, hi float64) {
	if len(data) == 0 {
		return 0, 0
	}
	lo, hi = data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// CalculateAll computes every field of Summary. Empty input yields the zero
// Summary.
func CalculateAll(data []float64) Summary {
	var s Summary
	if len(data) == 0 {
		return s
	}

	s.Count = len(data)
	s.Sum = Sum(data)
	s.Mean = s.Sum / float64(s.Count)
	s.Median = Median(data)
	s.Mode = Mode(data)
	s.Variance = Variance(data)
	s.StdDev = math.Sqrt(s.Variance)

	s.Min, s.Max = MinMax(data)
	s.Range = s.Max - s.Min

	// One sort serves both quartiles.
	sorted := sortedCopy(data)
	s.Q1 = percentileSorted(sorted, 25)
	s.Q3 = percentileSorted(sorted, 75)
	s.IQR = s.Q3 - s.Q1

	return s
}
