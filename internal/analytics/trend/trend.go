// Package trend classifies the direction of daily spending by comparing the
// current moving average with the one a window earlier.
package trend

import (
	"fmt"

	"github.com/soltixdb/statcalc/internal/analytics/stats"
)

// Direction of a spending trend
type Direction string

const (
	Increasing       Direction = "increasing"
	Decreasing       Direction = "decreasing"
	Stable           Direction = "stable"
	InsufficientData Direction = "insufficient_data"
)

const (
	// DefaultWindow is a week of daily amounts.
	DefaultWindow = 7

	// ChangeThreshold is the percentage change beyond which a trend is no
	// longer stable.
	ChangeThreshold = 5.0

	// maxRecent caps the number of trailing amounts echoed in a result.
	maxRecent = 30
)

// Result describes a spending trend. Message is set only for
// InsufficientData; Recent holds up to the last 30 daily amounts.
type Result struct {
	Trend            Direction
	Message          string
	ChangePercentage float64
	CurrentAverage   float64
	PreviousAverage  float64
	Recent           []float64
}

// Analyze classifies daily amounts. The current average is the last simple
// moving average; the previous one is the moving average window positions
// earlier, or the current one when the series is too short to have it. A
// non-positive previous average reports no change.
func Analyze(daily []float64, window int) Result {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(daily) < window {
		return Result{
			Trend:   InsufficientData,
			Message: fmt.Sprintf("Need at least %d days of data for trend analysis", window),
		}
	}

	sma := stats.MovingAverageSimple(daily, window)
	recent := sma.Current
	older := recent
	if k := sma.Len() - window; k >= 0 && len(daily) > window {
		older = sma.Values[k]
	}

	change := 0.0
	if older > 0 {
		change = (recent - older) / older * 100
	}

	return Result{
		Trend:            Classify(change),
		ChangePercentage: change,
		CurrentAverage:   recent,
		PreviousAverage:  older,
		Recent:           daily[max(0, len(daily)-maxRecent):],
	}
}

// Classify maps a percentage change to a direction.
func Classify(changePercent float64) Direction {
	switch {
	case changePercent > ChangeThreshold:
		return Increasing
	case changePercent < -ChangeThreshold:
		return Decreasing
	default:
		return Stable
	}
}
