package models

// ValuesRequest carries a single sequence
type ValuesRequest struct {
	Values []float64 `json:"values"`
}

// MovingAverageRequest asks for a simple moving average. A missing window
// uses the configured default.
type MovingAverageRequest struct {
	Values []float64 `json:"values"`
	Window *int      `json:"window,omitempty"`
}

// EMARequest asks for an exponential moving average
type EMARequest struct {
	Values []float64 `json:"values"`
	Alpha  *float64  `json:"alpha,omitempty"`
}

// OutliersRequest asks for IQR outliers
type OutliersRequest struct {
	Values    []float64 `json:"values"`
	Threshold *float64  `json:"threshold,omitempty"`
}

// CorrelationRequest pairs two sequences
type CorrelationRequest struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// PercentileRequest asks for the p-th percentile, p in [0, 100]. P is
// required.
type PercentileRequest struct {
	Values []float64 `json:"values"`
	P      *float64  `json:"p"`
}

// MonthlyTotalsRequest groups daily amounts into months of the given
// lengths. When DaysInMonths is empty, StartMonth (YYYY-MM) derives them from
// the calendar.
type MonthlyTotalsRequest struct {
	Amounts      []float64 `json:"amounts"`
	DaysInMonths []int     `json:"days_in_months,omitempty"`
	StartMonth   string    `json:"start_month,omitempty"`
}

// AnomalyRequest asks for anomalies with a named detector
type AnomalyRequest struct {
	Values    []float64 `json:"values"`
	Method    string    `json:"method,omitempty"`
	Threshold *float64  `json:"threshold,omitempty"`
}

// ForecastRequest asks for a forecast of daily amounts. StartDate
// (YYYY-MM-DD) dates the first value; without it the series ends today.
type ForecastRequest struct {
	Values    []float64 `json:"values"`
	Method    string    `json:"method,omitempty"`
	Horizon   *int      `json:"horizon,omitempty"`
	Window    *int      `json:"window,omitempty"`
	Alpha     *float64  `json:"alpha,omitempty"`
	StartDate string    `json:"start_date,omitempty"`
}

// TrendRequest asks for a spending trend
type TrendRequest struct {
	Values []float64 `json:"values"`
	Window *int      `json:"window,omitempty"`
}

// ExpensesRequest carries recorded expenses. Categories and Dates, when
// present, must match Amounts in length; dates are YYYY-MM-DD.
type ExpensesRequest struct {
	Amounts    []float64 `json:"amounts"`
	Categories []string  `json:"categories,omitempty"`
	Dates      []string  `json:"dates,omitempty"`
}
