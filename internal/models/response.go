package models

import (
	"github.com/soltixdb/statcalc/internal/analytics/anomaly"
	"github.com/soltixdb/statcalc/internal/analytics/forecast"
	"github.com/soltixdb/statcalc/internal/utils"
)

const (
	// AppName and AppVersion identify the calculator in version output
	AppName    = "ExpenseCalculator"
	AppVersion = "1.0.0"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// VersionResponse represents the name/version object
type VersionResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CurrentVersion returns the version object of this build
func CurrentVersion() VersionResponse {
	return VersionResponse{Name: AppName, Version: AppVersion}
}

// ErrorResponse is the single failure shape used by the CLI, the HTTP
// bridge and the worker.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewErrorResponse builds a failure object
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}

// ReportResponse is the combined analysis of one sequence
type ReportResponse struct {
	Success                  bool              `json:"success"`
	Statistics               StatisticsView    `json:"statistics"`
	SimpleMovingAverage      MovingAverageView `json:"simple_moving_average"`
	ExponentialMovingAverage MovingAverageView `json:"exponential_moving_average"`
	Outliers                 []int             `json:"outliers"`
	OutlierCount             int               `json:"outlier_count"`
}

// PercentileResponse reports a single percentile
type PercentileResponse struct {
	Percentile float64 `json:"percentile"`
	Value      Fixed2  `json:"value"`
}

// MonthlyTotalsResponse reports per-month totals
type MonthlyTotalsResponse struct {
	Totals []Fixed2 `json:"totals"`
}

// OutliersResponse reports outlier indices
type OutliersResponse struct {
	Outliers     []int `json:"outliers"`
	OutlierCount int   `json:"outlier_count"`
}

// AnomalyResponse reports detected anomalies
type AnomalyResponse struct {
	Method    string                  `json:"method"`
	Threshold float64                 `json:"threshold"`
	Anomalies []anomaly.AnomalyResult `json:"anomalies"`
	Count     int                     `json:"count"`
}

// ForecastPointView is one predicted day
type ForecastPointView struct {
	Date       string `json:"date"`
	Predicted  Fixed2 `json:"predicted"`
	LowerBound Fixed2 `json:"lower_bound"`
	UpperBound Fixed2 `json:"upper_bound"`
}

// ForecastResponse reports a forecast
type ForecastResponse struct {
	Method         string              `json:"method"`
	Horizon        int                 `json:"horizon"`
	Forecast       []ForecastPointView `json:"forecast"`
	TotalPredicted Fixed2              `json:"total_predicted"`
	Model          forecast.ModelInfo  `json:"model_info"`
}

// NewForecastResponse converts a forecast result, dating each point
// YYYY-MM-DD.
func NewForecastResponse(method string, r *forecast.ForecastResult) ForecastResponse {
	points := make([]ForecastPointView, len(r.Predictions))
	for i, p := range r.Predictions {
		points[i] = ForecastPointView{
			Date:       p.Time.Format(utils.DateLayout),
			Predicted:  Fixed2(p.Value),
			LowerBound: Fixed2(p.LowerBound),
			UpperBound: Fixed2(p.UpperBound),
		}
	}
	return ForecastResponse{
		Method:         method,
		Horizon:        len(points),
		Forecast:       points,
		TotalPredicted: Fixed2(r.TotalPredicted),
		Model:          r.ModelInfo,
	}
}
