package forecast

import (
	"github.com/soltixdb/statcalc/internal/analytics"
	"github.com/soltixdb/statcalc/internal/analytics/stats"
)

// SMAForecaster projects the last simple moving average forward.
type SMAForecaster struct{}

// NewSMAForecaster creates a new SMA forecaster
func NewSMAForecaster() *SMAForecaster {
	return &SMAForecaster{}
}

func init() {
	RegisterForecaster("sma", NewSMAForecaster())
}

// Name returns the algorithm name
func (f *SMAForecaster) Name() string {
	return "sma"
}

// Forecast needs at least WindowSize points (and MinDataPoints, when set).
// The interval uses the sample standard deviation of the last 2*WindowSize
// points.
func (f *SMAForecaster) Forecast(data []DataPoint, config ForecastConfig) (*ForecastResult, error) {
	windowSize := config.WindowSize
	if windowSize <= 0 {
		windowSize = 7
	}
	need := max(windowSize, config.MinDataPoints)
	if len(data) < need {
		return nil, insufficient(need, len(data))
	}

	values := analytics.TimeSeriesData(data).Values()
	sma := stats.MovingAverageSimple(values, windowSize)

	// Fitted values exist from the first full window onwards.
	actual := values[windowSize-1:]
	residuals := make([]float64, len(actual))
	for i := range actual {
		residuals[i] = actual[i] - sma.Values[i]
	}

	tail := values[max(0, len(values)-2*windowSize):]
	stdError := stats.SampleStdDev(tail)

	predictions, total := flatForecast(data, sma.Current, stdError, config)

	return &ForecastResult{
		Predictions:    predictions,
		TotalPredicted: total,
		Fitted:         sma.Values,
		Residuals:      residuals,
		ModelInfo: ModelInfo{
			Algorithm:  "sma",
			Parameters: map[string]any{"window_size": windowSize},
			MAPE:       CalculateMAPE(actual, sma.Values),
			MAE:        CalculateMAE(actual, sma.Values),
			RMSE:       CalculateRMSE(actual, sma.Values),
			DataPoints: len(data),
		},
	}, nil
}
