package forecast

import (
	"time"

	"github.com/soltixdb/statcalc/internal/analytics/stats"
)

// MinWeeklyPoints is two weeks of daily amounts.
const MinWeeklyPoints = 14

// WeeklyPatternForecaster predicts each future day as the mean amount seen
// on the same weekday.
type WeeklyPatternForecaster struct{}

// NewWeeklyPatternForecaster creates a new weekly pattern forecaster
func NewWeeklyPatternForecaster() *WeeklyPatternForecaster {
	return &WeeklyPatternForecaster{}
}

func init() {
	RegisterForecaster("weekly", NewWeeklyPatternForecaster())
}

// Name returns the algorithm name
func (f *WeeklyPatternForecaster) Name() string {
	return "weekly"
}

// Forecast groups amounts by weekday of their timestamp. Bounds use the
// sample standard deviation of that weekday. The per-weekday means and the
// highest and lowest spending days are reported in the model parameters.
func (f *WeeklyPatternForecaster) Forecast(data []DataPoint, config ForecastConfig) (*ForecastResult, error) {
	need := max(MinWeeklyPoints, config.MinDataPoints)
	if len(data) < need {
		return nil, insufficient(need, len(data))
	}

	var byDay [7][]float64
	for _, p := range data {
		wd := p.Time.Weekday()
		byDay[wd] = append(byDay[wd], p.Value)
	}

	var mean, stdDev [7]float64
	for wd, amounts := range byDay {
		mean[wd] = stats.Mean(amounts)
		stdDev[wd] = stats.SampleStdDev(amounts)
	}

	actual := make([]float64, len(data))
	fitted := make([]float64, len(data))
	residuals := make([]float64, len(data))
	for i, p := range data {
		actual[i] = p.Value
		fitted[i] = mean[p.Time.Weekday()]
		residuals[i] = actual[i] - fitted[i]
	}

	lastTime := data[len(data)-1].Time
	predictions := make([]ForecastPoint, max(config.Horizon, 0))
	total := 0.0
	for i := range predictions {
		t := lastTime.AddDate(0, 0, i+1)
		wd := t.Weekday()
		lower, upper := calculatePredictionInterval(mean[wd], stdDev[wd], config.Confidence)
		predictions[i] = ForecastPoint{
			Time:       t,
			Value:      mean[wd],
			LowerBound: lower,
			UpperBound: upper,
		}
		total += mean[wd]
	}

	patterns := make(map[string]float64, 7)
	highest, lowest := time.Monday, time.Monday
	for _, wd := range mondayFirst {
		patterns[wd.String()] = mean[wd]
		if mean[wd] > mean[highest] {
			highest = wd
		}
		if mean[wd] < mean[lowest] {
			lowest = wd
		}
	}

	return &ForecastResult{
		Predictions:    predictions,
		TotalPredicted: total,
		Fitted:         fitted,
		Residuals:      residuals,
		ModelInfo: ModelInfo{
			Algorithm: "weekly",
			Parameters: map[string]any{
				"weekly_patterns":      patterns,
				"highest_spending_day": highest.String(),
				"lowest_spending_day":  lowest.String(),
			},
			MAPE:       CalculateMAPE(actual, fitted),
			MAE:        CalculateMAE(actual, fitted),
			RMSE:       CalculateRMSE(actual, fitted),
			DataPoints: len(data),
		},
	}, nil
}

var mondayFirst = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}
