package anomaly

import (
	"github.com/soltixdb/statcalc/internal/analytics/stats"
)

// IQRDetector flags points outside the Tukey fences
// [Q1 - k*IQR, Q3 + k*IQR]. It is robust to the outliers it is looking for,
// unlike mean-based methods.
type IQRDetector struct{}

func init() {
	RegisterDetector("iqr", &IQRDetector{})
}

// Name returns the algorithm name
func (d *IQRDetector) Name() string {
	return "iqr"
}

// Detect finds anomalies using the IQR fences. The threshold is the fence
// multiplier; a non-positive threshold falls back to 1.5. Only
// stats.MinOutlierPoints points are required, MinDataPoints is ignored.
func (d *IQRDetector) Detect(data []float64, config DetectorConfig) []AnomalyResult {
	multiplier := config.Threshold
	if multiplier <= 0 {
		multiplier = stats.DefaultOutlierThreshold
	}

	indices := stats.DetectOutliers(data, multiplier)
	if len(indices) == 0 {
		return nil
	}

	_, _, iqr := stats.Quartiles(data)
	lower, upper := stats.Fences(data, multiplier)
	expected := &Range{Min: lower, Max: upper}

	results := make([]AnomalyResult, 0, len(indices))
	for _, i := range indices {
		v := data[i]

		score := 1.0
		if iqr > 0 {
			if v < lower {
				score = (lower - v) / iqr
			} else {
				score = (v - upper) / iqr
			}
		}

		results = append(results, AnomalyResult{
			Index:    i,
			Value:    v,
			Score:    score,
			Type:     classify(v, *expected),
			Expected: expected,
		})
	}
	return results
}
