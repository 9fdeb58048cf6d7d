package forecast

import (
	"github.com/soltixdb/statcalc/internal/analytics"
	"github.com/soltixdb/statcalc/internal/analytics/stats"
)

// MinExponentialPoints is the shortest series exponential smoothing accepts.
const MinExponentialPoints = 7

// ExponentialSmoothingForecaster projects the last exponentially smoothed
// value forward.
type ExponentialSmoothingForecaster struct{}

// NewExponentialSmoothingForecaster creates a new Exponential Smoothing forecaster
func NewExponentialSmoothingForecaster() *ExponentialSmoothingForecaster {
	return &ExponentialSmoothingForecaster{}
}

func init() {
	RegisterForecaster("exponential", NewExponentialSmoothingForecaster())
}

// Name returns the algorithm name
func (f *ExponentialSmoothingForecaster) Name() string {
	return "exponential"
}

// Forecast smooths the series with stats.ExponentialMovingAverage. An alpha
// outside (0, 1] falls back to 0.3. The interval uses the RMSE of the
// in-sample residuals.
func (f *ExponentialSmoothingForecaster) Forecast(data []DataPoint, config ForecastConfig) (*ForecastResult, error) {
	need := max(MinExponentialPoints, config.MinDataPoints)
	if len(data) < need {
		return nil, insufficient(need, len(data))
	}

	alpha := config.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 0.3
	}

	values := analytics.TimeSeriesData(data).Values()
	ema := stats.ExponentialMovingAverage(values, alpha)

	residuals := make([]float64, len(values))
	for i := range values {
		residuals[i] = values[i] - ema.Values[i]
	}
	rmse := CalculateRMSE(values, ema.Values)

	predictions, total := flatForecast(data, ema.Current, rmse, config)

	return &ForecastResult{
		Predictions:    predictions,
		TotalPredicted: total,
		Fitted:         ema.Values,
		Residuals:      residuals,
		ModelInfo: ModelInfo{
			Algorithm:  "exponential",
			Parameters: map[string]any{"alpha": alpha},
			MAPE:       CalculateMAPE(values, ema.Values),
			MAE:        CalculateMAE(values, ema.Values),
			RMSE:       rmse,
			DataPoints: len(data),
		},
	}, nil
}
