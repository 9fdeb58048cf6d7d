package anomaly

import (
	"math"

	"github.com/soltixdb/statcalc/internal/analytics/stats"
)

// ZScoreDetector flags points more than Threshold sample standard deviations
// away from the mean. This is the rule used for unusual spending: at least
// MinDataPoints transactions and |z| > 2 by default.
type ZScoreDetector struct{}

func init() {
	RegisterDetector("zscore", &ZScoreDetector{})
}

// Name returns the algorithm name
func (z *ZScoreDetector) Name() string {
	return "zscore"
}

// Detect finds anomalies using Z-Score method. A constant dataset has no
// anomalies.
func (z *ZScoreDetector) Detect(data []float64, config DetectorConfig) []AnomalyResult {
	if len(data) < config.MinDataPoints || len(data) < 2 {
		return nil
	}

	mean := stats.Mean(data)
	stdDev := stats.SampleStdDev(data)
	if stdDev == 0 {
		return nil
	}

	expected := &Range{
		Min: mean - config.Threshold*stdDev,
		Max: mean + config.Threshold*stdDev,
	}

	var results []AnomalyResult
	for i, v := range data {
		zScore := CalculateZScore(v, mean, stdDev)
		if math.Abs(zScore) <= config.Threshold {
			continue
		}

		anomalyType := AnomalyTypeSpike
		if zScore < 0 {
			anomalyType = AnomalyTypeDrop
		}

		results = append(results, AnomalyResult{
			Index:    i,
			Value:    v,
			Score:    math.Abs(zScore),
			Type:     anomalyType,
			Expected: expected,
		})
	}
	return results
}

// CalculateZScore calculates Z-Score for a single value given mean and stdDev
func CalculateZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}
