package stats

import "math"

// Correlate computes the Pearson correlation coefficient of x and y along with
// r², a strength label and a direction label.
//
// Sequences of different length, or with fewer than two points, are not an
// error: the result keeps a zero coefficient and is labelled
// StrengthInvalid / DirectionNone. A constant sequence (zero denominator)
// yields a coefficient of 0.
func Correlate(x, y []float64) Correlation {
	if len(x) != len(y) || len(x) < 2 {
		return Correlation{
			Strength:  StrengthInvalid,
			Direction: DirectionNone,
		}
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var numerator, sumSqX, sumSqY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		numerator += dx * dy
		sumSqX += dx * dx
		sumSqY += dy * dy
	}

	var r float64
	if denominator := math.Sqrt(sumSqX * sumSqY); denominator != 0 {
		r = numerator / denominator
	}

	return Correlation{
		Pearson:   r,
		RSquared:  r * r,
		Strength:  ClassifyStrength(r),
		Direction: ClassifyDirection(r),
	}
}

// ClassifyStrength labels |r| against the fixed thresholds 0.8, 0.6, 0.4, 0.2.
func ClassifyStrength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= 0.8:
		return StrengthVeryStrong
	case abs >= 0.6:
		return StrengthStrong
	case abs >= 0.4:
		return StrengthModerate
	case abs >= 0.2:
		return StrengthWeak
	default:
		return StrengthVeryWeak
	}
}

// ClassifyDirection labels r as positive (> 0.1), negative (< -0.1) or none.
func ClassifyDirection(r float64) string {
	switch {
	case r > 0.1:
		return DirectionPositive
	case r < -0.1:
		return DirectionNegative
	default:
		return DirectionNone
	}
}
