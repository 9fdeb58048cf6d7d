package anomaly

import (
	"math"

	"github.com/soltixdb/statcalc/internal/analytics/stats"
)

// AutoDetector picks a detector from the shape of the data and delegates to it.
type AutoDetector struct{}

func init() {
	RegisterDetector("auto", &AutoDetector{})
}

// Name returns the algorithm name
func (a *AutoDetector) Name() string {
	return "auto"
}

// Detect analyses the data and runs the selected detector
func (a *AutoDetector) Detect(data []float64, config DetectorConfig) []AnomalyResult {
	chars := AnalyzeData(data)

	detector, err := GetDetector(chars.SelectedAlgorithm)
	if err != nil {
		detector = &IQRDetector{}
	}

	// The IQR fence multiplier and the z-score threshold live on different
	// scales; keep the conventional fence when switching to IQR.
	if chars.SelectedAlgorithm == "iqr" {
		config.Threshold = stats.DefaultOutlierThreshold
	}
	return detector.Detect(data, config)
}

// DataCharacteristics describes properties of the data
type DataCharacteristics struct {
	DataSize int

	// TrendStrength is the Pearson correlation of values against their
	// position, from -1 (falling) to 1 (rising).
	TrendStrength float64
	HasTrend      bool

	// OutlierPercentage is the share of points outside the 1.5 IQR fences.
	OutlierPercentage float64

	// Variability is the coefficient of variation (stdDev / |mean|).
	Variability float64

	SelectedAlgorithm string
}

// AnalyzeData examines the data and chooses a detector:
//
//   - more than 5% fence outliers: iqr, which is not skewed by them
//   - a strong linear trend: moving_avg, which follows the trend
//   - otherwise zscore when there is enough data, else iqr
func AnalyzeData(data []float64) DataCharacteristics {
	chars := DataCharacteristics{
		DataSize:          len(data),
		SelectedAlgorithm: "iqr",
	}
	if len(data) < 3 {
		return chars
	}

	positions := make([]float64, len(data))
	for i := range positions {
		positions[i] = float64(i)
	}
	trend := stats.Correlate(positions, data)
	chars.TrendStrength = trend.Pearson
	chars.HasTrend = trend.Strength == stats.StrengthStrong || trend.Strength == stats.StrengthVeryStrong

	outliers := stats.DetectOutliers(data, stats.DefaultOutlierThreshold)
	chars.OutlierPercentage = float64(len(outliers)) / float64(len(data)) * 100

	if mean := stats.Mean(data); mean != 0 {
		chars.Variability = stats.SampleStdDev(data) / math.Abs(mean)
	}

	switch {
	case chars.OutlierPercentage > 5:
		chars.SelectedAlgorithm = "iqr"
	case chars.HasTrend:
		chars.SelectedAlgorithm = "moving_avg"
	case len(data) >= DefaultConfig().MinDataPoints:
		chars.SelectedAlgorithm = "zscore"
	}
	return chars
}
