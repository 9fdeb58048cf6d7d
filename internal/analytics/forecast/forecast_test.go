package forecast

import (
	"errors"
	"math"
	"testing"
	"time"
)

var testBaseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// dailySeries stamps values one day apart starting at testBaseTime
func dailySeries(values ...float64) []DataPoint {
	data := make([]DataPoint, len(values))
	for i, v := range values {
		data[i] = DataPoint{
			Time:  testBaseTime.AddDate(0, 0, i),
			Value: v,
		}
	}
	return data
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestForecasterRegistry(t *testing.T) {
	names := ListForecasters()
	want := []string{"exponential", "linear", "sma", "weekly"}
	if len(names) != len(want) {
		t.Fatalf("unexpected forecasters: %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected forecasters: %v", names)
		}
	}

	for _, algo := range names {
		forecaster, err := GetForecaster(algo)
		if err != nil {
			t.Errorf("Forecaster '%s' not registered: %v", algo, err)
		} else if forecaster.Name() != algo {
			t.Errorf("Forecaster name mismatch: expected '%s', got '%s'", algo, forecaster.Name())
		}
	}
}

func TestGetForecaster_Unknown(t *testing.T) {
	if _, err := GetForecaster("arima"); err == nil {
		t.Error("Should return error for unknown algorithm")
	}
}

func TestSMAForecaster_Forecast(t *testing.T) {
	data := dailySeries(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	config := DefaultForecastConfig()
	config.Horizon = 5
	config.WindowSize = 3

	result, err := NewSMAForecaster().Forecast(data, config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if len(result.Predictions) != 5 {
		t.Fatalf("Expected 5 predictions, got %d", len(result.Predictions))
	}

	// Last window is 8, 9, 10; the interval comes from 5..10.
	margin := 1.96 * math.Sqrt(3.5)
	for i, p := range result.Predictions {
		if !approxEqual(p.Value, 9) {
			t.Errorf("prediction %d: expected 9, got %v", i, p.Value)
		}
		if !approxEqual(p.LowerBound, 9-margin) || !approxEqual(p.UpperBound, 9+margin) {
			t.Errorf("prediction %d: unexpected bounds [%v, %v]", i, p.LowerBound, p.UpperBound)
		}
		want := testBaseTime.AddDate(0, 0, 10+i)
		if !p.Time.Equal(want) {
			t.Errorf("prediction %d: expected time %v, got %v", i, want, p.Time)
		}
	}

	if !approxEqual(result.TotalPredicted, 45) {
		t.Errorf("Expected total 45, got %v", result.TotalPredicted)
	}
	if len(result.Fitted) != 8 || len(result.Residuals) != 8 {
		t.Errorf("Expected 8 fitted values, got %d/%d", len(result.Fitted), len(result.Residuals))
	}
	if result.ModelInfo.Algorithm != "sma" || result.ModelInfo.Parameters["window_size"] != 3 {
		t.Errorf("unexpected model info: %+v", result.ModelInfo)
	}
}

func TestSMAForecaster_LowerBoundClamped(t *testing.T) {
	data := dailySeries(0, 0, 0, 0, 0, 0, 100)
	config := DefaultForecastConfig()
	config.Horizon = 2
	config.WindowSize = 3

	result, err := NewSMAForecaster().Forecast(data, config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	for _, p := range result.Predictions {
		if p.LowerBound != 0 {
			t.Errorf("Expected lower bound clamped to 0, got %v", p.LowerBound)
		}
		if p.UpperBound <= p.Value {
			t.Errorf("Expected upper bound above %v, got %v", p.Value, p.UpperBound)
		}
	}
}

func TestSMAForecaster_InsufficientData(t *testing.T) {
	config := DefaultForecastConfig()
	config.WindowSize = 7

	_, err := NewSMAForecaster().Forecast(dailySeries(1, 2, 3, 4, 5, 6), config)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestSMAForecaster_DefaultWindow(t *testing.T) {
	config := ForecastConfig{Horizon: 1}

	result, err := NewSMAForecaster().Forecast(dailySeries(7, 7, 7, 7, 7, 7, 7), config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.ModelInfo.Parameters["window_size"] != 7 {
		t.Errorf("Expected default window 7, got %v", result.ModelInfo.Parameters["window_size"])
	}
	p := result.Predictions[0]
	if p.Value != 7 || p.LowerBound != 7 || p.UpperBound != 7 {
		t.Errorf("Expected a flat 7 forecast, got %+v", p)
	}
}

func TestExponentialForecaster_Forecast(t *testing.T) {
	data := dailySeries(10, 20, 10, 20, 10, 20, 10)
	config := DefaultForecastConfig()
	config.Horizon = 3
	config.Alpha = 0.5

	result, err := NewExponentialSmoothingForecaster().Forecast(data, config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	// 10, 15, 12.5, 16.25, 13.125, 16.5625, 13.28125
	const last = 13.28125
	for _, p := range result.Predictions {
		if !approxEqual(p.Value, last) {
			t.Errorf("Expected %v, got %v", last, p.Value)
		}
		margin := 1.96 * result.ModelInfo.RMSE
		if !approxEqual(p.UpperBound, last+margin) {
			t.Errorf("Expected upper bound %v, got %v", last+margin, p.UpperBound)
		}
	}
	if !approxEqual(result.TotalPredicted, 3*last) {
		t.Errorf("Expected total %v, got %v", 3*last, result.TotalPredicted)
	}
	if len(result.Fitted) != len(data) {
		t.Errorf("Expected %d fitted values, got %d", len(data), len(result.Fitted))
	}
	if result.ModelInfo.Parameters["alpha"] != 0.5 {
		t.Errorf("Expected alpha 0.5, got %v", result.ModelInfo.Parameters["alpha"])
	}
}

func TestExponentialForecaster_ConstantSeries(t *testing.T) {
	config := DefaultForecastConfig()
	config.Horizon = 4

	result, err := NewExponentialSmoothingForecaster().Forecast(dailySeries(10, 10, 10, 10, 10, 10, 10), config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	for _, p := range result.Predictions {
		if p.Value != 10 || p.LowerBound != 10 || p.UpperBound != 10 {
			t.Errorf("Expected a flat 10 forecast, got %+v", p)
		}
	}
	if result.TotalPredicted != 40 {
		t.Errorf("Expected total 40, got %v", result.TotalPredicted)
	}
}

func TestExponentialForecaster_InvalidAlphaFallsBack(t *testing.T) {
	config := DefaultForecastConfig()
	config.Alpha = 1.5

	result, err := NewExponentialSmoothingForecaster().Forecast(dailySeries(1, 2, 3, 4, 5, 6, 7), config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.ModelInfo.Parameters["alpha"] != 0.3 {
		t.Errorf("Expected fallback alpha 0.3, got %v", result.ModelInfo.Parameters["alpha"])
	}
}

func TestExponentialForecaster_InsufficientData(t *testing.T) {
	_, err := NewExponentialSmoothingForecaster().Forecast(dailySeries(1, 2, 3), DefaultForecastConfig())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestLinearForecaster_Forecast(t *testing.T) {
	data := dailySeries(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	config := DefaultForecastConfig()
	config.Horizon = 3
	config.MinDataPoints = 0

	result, err := NewLinearRegressionForecaster().Forecast(data, config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	for i, p := range result.Predictions {
		want := float64(11 + i)
		if !approxEqual(p.Value, want) || !approxEqual(p.LowerBound, want) || !approxEqual(p.UpperBound, want) {
			t.Errorf("prediction %d: expected exact %v, got %+v", i, want, p)
		}
		if !p.Time.Equal(testBaseTime.AddDate(0, 0, 10+i)) {
			t.Errorf("prediction %d: unexpected time %v", i, p.Time)
		}
	}
	if !approxEqual(result.TotalPredicted, 36) {
		t.Errorf("Expected total 36, got %v", result.TotalPredicted)
	}
	if !approxEqual(result.ModelInfo.Parameters["slope"].(float64), 1) {
		t.Errorf("Expected slope 1, got %v", result.ModelInfo.Parameters["slope"])
	}
}

func TestLinearForecaster_DecliningClampedAtZero(t *testing.T) {
	config := DefaultForecastConfig()
	config.Horizon = 10
	config.MinDataPoints = 0

	result, err := NewLinearRegressionForecaster().Forecast(dailySeries(30, 20, 10), config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	for _, p := range result.Predictions {
		if p.Value < 0 || p.LowerBound < 0 {
			t.Errorf("Expected non-negative forecast, got %+v", p)
		}
	}
	if result.Predictions[0].Value != 0 {
		t.Errorf("Expected 0 after the line crosses zero, got %v", result.Predictions[0].Value)
	}
}

func TestLinearForecaster_InsufficientData(t *testing.T) {
	config := DefaultForecastConfig()
	config.MinDataPoints = 0

	_, err := NewLinearRegressionForecaster().Forecast(dailySeries(1, 2), config)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestWeeklyPatternForecaster_Forecast(t *testing.T) {
	// Two weeks where each amount is ten times its weekday number.
	values := make([]float64, 14)
	for i := range values {
		values[i] = float64(testBaseTime.AddDate(0, 0, i).Weekday()) * 10
	}
	config := DefaultForecastConfig()
	config.Horizon = 7

	result, err := NewWeeklyPatternForecaster().Forecast(dailySeries(values...), config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	for i, p := range result.Predictions {
		day := testBaseTime.AddDate(0, 0, 14+i)
		want := float64(day.Weekday()) * 10
		if !p.Time.Equal(day) {
			t.Errorf("prediction %d: expected time %v, got %v", i, day, p.Time)
		}
		if p.Value != want || p.LowerBound != want || p.UpperBound != want {
			t.Errorf("prediction %d: expected %v, got %+v", i, want, p)
		}
	}
	if !approxEqual(result.TotalPredicted, 210) {
		t.Errorf("Expected total 210, got %v", result.TotalPredicted)
	}

	params := result.ModelInfo.Parameters
	if params["highest_spending_day"] != "Saturday" || params["lowest_spending_day"] != "Sunday" {
		t.Errorf("unexpected extremes: %v / %v", params["highest_spending_day"], params["lowest_spending_day"])
	}
	patterns := params["weekly_patterns"].(map[string]float64)
	if len(patterns) != 7 || patterns["Wednesday"] != 30 {
		t.Errorf("unexpected patterns: %v", patterns)
	}
}

func TestWeeklyPatternForecaster_InsufficientData(t *testing.T) {
	_, err := NewWeeklyPatternForecaster().Forecast(dailySeries(make([]float64, 13)...), DefaultForecastConfig())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestForecast_ZeroHorizon(t *testing.T) {
	config := DefaultForecastConfig()
	config.Horizon = 0

	result, err := NewSMAForecaster().Forecast(dailySeries(1, 2, 3, 4, 5, 6, 7), config)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if len(result.Predictions) != 0 || result.TotalPredicted != 0 {
		t.Errorf("Expected no predictions, got %d (total %v)", len(result.Predictions), result.TotalPredicted)
	}
}

func TestCalculateErrorMetrics(t *testing.T) {
	actual := []float64{100, 200, 300}
	predicted := []float64{110, 190, 310}

	if mape := CalculateMAPE(actual, predicted); mape < 6 || mape > 6.2 {
		t.Errorf("MAPE calculation incorrect: got %v", mape)
	}
	if mae := CalculateMAE(actual, predicted); mae != 10 {
		t.Errorf("MAE calculation incorrect: got %v, expected 10", mae)
	}
	if rmse := CalculateRMSE(actual, predicted); rmse != 10 {
		t.Errorf("RMSE calculation incorrect: got %v, expected 10", rmse)
	}
	if CalculateRMSE(actual, predicted[:2]) != 0 {
		t.Error("Expected 0 for mismatched lengths")
	}
}
