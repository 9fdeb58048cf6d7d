package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/soltixdb/statcalc/internal/analytics"
)

// MinLinearPoints is the shortest series the regression accepts.
const MinLinearPoints = 3

// LinearRegressionForecaster extends the least-squares line through the
// series.
type LinearRegressionForecaster struct{}

// NewLinearRegressionForecaster creates a new Linear Regression forecaster
func NewLinearRegressionForecaster() *LinearRegressionForecaster {
	return &LinearRegressionForecaster{}
}

func init() {
	RegisterForecaster("linear", NewLinearRegressionForecaster())
}

// Name returns the algorithm name
func (f *LinearRegressionForecaster) Name() string {
	return "linear"
}

// Forecast fits value = intercept + slope*index. The interval widens with
// distance from the mean index, and amounts are clamped at zero.
func (f *LinearRegressionForecaster) Forecast(data []DataPoint, config ForecastConfig) (*ForecastResult, error) {
	need := max(MinLinearPoints, config.MinDataPoints)
	if len(data) < need {
		return nil, insufficient(need, len(data))
	}

	values := analytics.TimeSeriesData(data).Values()
	n := float64(len(values))

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return nil, fmt.Errorf("cannot calculate regression: all x values are the same")
	}
	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	fitted := make([]float64, len(values))
	residuals := make([]float64, len(values))
	sse := 0.0
	for i, v := range values {
		fitted[i] = intercept + slope*float64(i)
		residuals[i] = v - fitted[i]
		sse += residuals[i] * residuals[i]
	}
	stdError := math.Sqrt(sse / (n - 2))

	interval := analytics.TimeSeriesData(data).Interval(config.Interval)
	lastTime := data[len(data)-1].Time
	meanX := sumX / n
	sxx := sumX2 - sumX*sumX/n

	predictions := make([]ForecastPoint, max(config.Horizon, 0))
	total := 0.0
	for i := range predictions {
		x := n + float64(i)
		value := math.Max(0, intercept+slope*x)
		dx := x - meanX
		predStdError := stdError * math.Sqrt(1+1/n+dx*dx/sxx)
		lower, upper := calculatePredictionInterval(value, predStdError, config.Confidence)

		predictions[i] = ForecastPoint{
			Time:       lastTime.Add(interval * time.Duration(i+1)),
			Value:      value,
			LowerBound: lower,
			UpperBound: upper,
		}
		total += value
	}

	return &ForecastResult{
		Predictions:    predictions,
		TotalPredicted: total,
		Fitted:         fitted,
		Residuals:      residuals,
		ModelInfo: ModelInfo{
			Algorithm: "linear",
			Parameters: map[string]any{
				"slope":     slope,
				"intercept": intercept,
			},
			MAPE:       CalculateMAPE(values, fitted),
			MAE:        CalculateMAE(values, fitted),
			RMSE:       CalculateRMSE(values, fitted),
			DataPoints: len(data),
		},
	}, nil
}
