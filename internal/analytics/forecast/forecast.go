// Package forecast projects future spending from a daily series. Forecasters
// are registered by name; each returns flat predictions with prediction
// interval bounds and the total over the horizon.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/soltixdb/statcalc/internal/analytics"
)

// ErrInsufficientData is returned when the series is too short for the
// requested method.
var ErrInsufficientData = errors.New("insufficient data")

// DataPoint is an alias to the shared analytics.TimeSeriesPoint type.
type DataPoint = analytics.TimeSeriesPoint

// ForecastPoint represents a single forecast prediction
type ForecastPoint struct {
	Time       time.Time `json:"time"`
	Value      float64   `json:"predicted"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
}

// ModelInfo contains metadata about the forecast model
type ModelInfo struct {
	Algorithm  string         `json:"algorithm"`
	Parameters map[string]any `json:"parameters,omitempty"`
	MAPE       float64        `json:"mape,omitempty"` // Mean Absolute Percentage Error
	MAE        float64        `json:"mae,omitempty"`  // Mean Absolute Error
	RMSE       float64        `json:"rmse,omitempty"` // Root Mean Squared Error
	DataPoints int            `json:"data_points"`
}

// ForecastResult contains the forecast predictions and model information
type ForecastResult struct {
	Predictions    []ForecastPoint `json:"predictions"`
	TotalPredicted float64         `json:"total_predicted"`
	Fitted         []float64       `json:"fitted,omitempty"`
	Residuals      []float64       `json:"residuals,omitempty"` // actual - fitted
	ModelInfo      ModelInfo       `json:"model_info"`
}

// ForecastConfig holds configuration for forecasting
type ForecastConfig struct {
	Horizon       int           // Number of periods to forecast
	WindowSize    int           // Window size for the moving average method
	Alpha         float64       // Smoothing factor for exponential smoothing (0-1]
	Confidence    float64       // Confidence level for prediction intervals (0-1)
	MinDataPoints int           // Minimum data points required
	Interval      time.Duration // Spacing of predictions when the data cannot tell
}

// DefaultForecastConfig returns default forecast configuration: 30 days
// ahead from daily amounts.
func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		Horizon:       30,
		WindowSize:    7,
		Alpha:         0.3,
		Confidence:    0.95,
		MinDataPoints: 7,
		Interval:      24 * time.Hour,
	}
}

// Forecaster interface for all forecasting algorithms
type Forecaster interface {
	// Name returns the algorithm name
	Name() string
	// Forecast generates predictions for future time periods
	Forecast(data []DataPoint, config ForecastConfig) (*ForecastResult, error)
}

var forecasterRegistry = make(map[string]Forecaster)

// RegisterForecaster adds a forecaster to the registry
func RegisterForecaster(name string, forecaster Forecaster) {
	forecasterRegistry[name] = forecaster
}

// GetForecaster returns a forecaster by name
func GetForecaster(name string) (Forecaster, error) {
	if forecaster, ok := forecasterRegistry[name]; ok {
		return forecaster, nil
	}
	return nil, fmt.Errorf("unknown forecaster: %s", name)
}

// ListForecasters returns the registered forecaster names in sorted order
func ListForecasters() []string {
	names := make([]string, 0, len(forecasterRegistry))
	for name := range forecasterRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CalculateMAPE calculates Mean Absolute Percentage Error
func CalculateMAPE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	count := 0
	for i := range actual {
		if actual[i] != 0 {
			sum += math.Abs((actual[i] - predicted[i]) / actual[i])
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (sum / float64(count)) * 100
}

// CalculateMAE calculates Mean Absolute Error
func CalculateMAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// CalculateRMSE calculates Root Mean Squared Error
func CalculateRMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}

// calculatePredictionInterval calculates prediction interval bounds. Amounts
// cannot be negative, so the lower bound is clamped at zero.
func calculatePredictionInterval(value, stdError, confidence float64) (lower, upper float64) {
	var z float64
	switch {
	case confidence >= 0.99:
		z = 2.576
	case confidence >= 0.95:
		z = 1.96
	case confidence >= 0.90:
		z = 1.645
	default:
		z = 1.96
	}

	margin := z * stdError
	return math.Max(0, value-margin), value + margin
}

// flatForecast repeats value over the horizon, one interval apart after the
// last observation.
func flatForecast(data []DataPoint, value, stdError float64, config ForecastConfig) ([]ForecastPoint, float64) {
	interval := analytics.TimeSeriesData(data).Interval(config.Interval)
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	lastTime := data[len(data)-1].Time

	lower, upper := calculatePredictionInterval(value, stdError, config.Confidence)
	predictions := make([]ForecastPoint, max(config.Horizon, 0))
	total := 0.0
	for i := range predictions {
		predictions[i] = ForecastPoint{
			Time:       lastTime.Add(interval * time.Duration(i+1)),
			Value:      value,
			LowerBound: lower,
			UpperBound: upper,
		}
		total += value
	}
	return predictions, total
}

func insufficient(need, have int) error {
	return fmt.Errorf("%w: need %d, have %d", ErrInsufficientData, need, have)
}
