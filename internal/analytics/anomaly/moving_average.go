package anomaly

import (
	"math"

	"github.com/soltixdb/statcalc/internal/analytics/stats"
)

// MovingAverageDetector compares each point to the simple moving average of
// the WindowSize points before it. Good for detecting sudden changes in
// trending data, where a global mean would flag the trend itself.
type MovingAverageDetector struct{}

func init() {
	RegisterDetector("moving_avg", &MovingAverageDetector{})
}

// Name returns the algorithm name
func (ma *MovingAverageDetector) Name() string {
	return "moving_avg"
}

// Detect finds anomalies using moving average method. The first WindowSize
// points have no history and are never flagged.
func (ma *MovingAverageDetector) Detect(data []float64, config DetectorConfig) []AnomalyResult {
	if len(data) < config.MinDataPoints {
		return nil
	}

	windowSize := config.WindowSize
	if windowSize <= 0 {
		windowSize = 7
	}
	if windowSize >= len(data) {
		windowSize = len(data) / 2
	}
	if windowSize < 2 {
		return nil
	}

	// sma.Values[k] averages data[k : k+windowSize], the history of point
	// k+windowSize. The final window has no successor.
	sma := stats.MovingAverageSimple(data, windowSize)

	var results []AnomalyResult
	for i := windowSize; i < len(data); i++ {
		localMean := sma.Values[i-windowSize]
		localStdDev := stats.StdDev(data[i-windowSize : i])
		v := data[i]

		var deviation float64
		if localStdDev > 0 {
			deviation = math.Abs(v-localMean) / localStdDev
		} else if v != localMean {
			// Flat history: any change is significant
			deviation = config.Threshold + 1
		}

		if deviation <= config.Threshold {
			continue
		}

		anomalyType := AnomalyTypeSpike
		if v < localMean {
			anomalyType = AnomalyTypeDrop
		}

		results = append(results, AnomalyResult{
			Index: i,
			Value: v,
			Score: deviation,
			Type:  anomalyType,
			Expected: &Range{
				Min: localMean - config.Threshold*localStdDev,
				Max: localMean + config.Threshold*localStdDev,
			},
		})
	}
	return results
}
