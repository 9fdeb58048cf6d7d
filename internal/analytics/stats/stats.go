// Package stats implements the descriptive-statistics engine: aggregates,
// order statistics, moving averages, correlation, IQR outlier detection and
// monthly bucketing over sequences of float64 observations.
//
// Every function is pure. Inputs are never modified (order statistics work on
// a private sorted copy), results are freshly allocated, and no state is kept
// between calls, so any function may be called concurrently without locking.
// Degenerate input (empty sequences, windows that do not fit, out-of-range
// smoothing factors) yields a zero-valued result rather than an error; only
// contract violations such as a percentile outside [0, 100] fail.
package stats

import "errors"

var (
	// ErrInvalidArgument is the root of all contract-violation errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidPercentile is returned when a percentile lies outside [0, 100].
	ErrInvalidPercentile = errors.New("percentile must be between 0 and 100")
)

// Summary holds the comprehensive statistics for a dataset.
// The zero value is the summary of an empty dataset.
type Summary struct {
	Sum      float64
	Mean     float64
	Median   float64
	Mode     float64
	Variance float64 // population variance
	StdDev   float64 // population standard deviation
	Min      float64
	Max      float64
	Range    float64 // Max - Min
	Q1       float64 // 25th percentile
	Q3       float64 // 75th percentile
	IQR      float64 // Q3 - Q1
	Count    int
}

// WindowMode distinguishes simple from exponential moving averages.
type WindowMode int

const (
	// ModeSimple marks a trailing fixed-window average.
	ModeSimple WindowMode = iota
	// ModeExponential marks an exponentially weighted average.
	ModeExponential
)

// String returns the mode name
func (m WindowMode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeExponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// Window describes how a MovingAverage was produced. Size is meaningful for
// ModeSimple only, Alpha for ModeExponential only.
type Window struct {
	Mode  WindowMode
	Size  int
	Alpha float64
}

// Simple returns the descriptor of a simple moving average over size points.
func Simple(size int) Window {
	return Window{Mode: ModeSimple, Size: size}
}

// Exponential returns the descriptor of an exponential moving average.
func Exponential(alpha float64) Window {
	return Window{Mode: ModeExponential, Alpha: alpha}
}

// IsExponential reports whether the window describes an EMA series.
func (w Window) IsExponential() bool {
	return w.Mode == ModeExponential
}

// MovingAverage is a smoothed series. Current is the last element of Values,
// or 0 when the series is empty.
type MovingAverage struct {
	Values  []float64
	Current float64
	Window  Window
}

// Len returns the number of averaged values
func (m MovingAverage) Len() int {
	return len(m.Values)
}

// Correlation strength labels.
const (
	StrengthVeryStrong = "very_strong"
	StrengthStrong     = "strong"
	StrengthModerate   = "moderate"
	StrengthWeak       = "weak"
	StrengthVeryWeak   = "very_weak"
	StrengthInvalid    = "invalid"
)

// Correlation direction labels.
const (
	DirectionPositive = "positive"
	DirectionNegative = "negative"
	DirectionNone     = "none"
)

// Correlation summarises the linear relationship between two sequences.
type Correlation struct {
	Pearson   float64
	RSquared  float64
	Strength  string
	Direction string
}
