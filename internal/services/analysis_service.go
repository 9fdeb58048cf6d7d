package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soltixdb/statcalc/internal/analytics"
	"github.com/soltixdb/statcalc/internal/analytics/anomaly"
	"github.com/soltixdb/statcalc/internal/analytics/forecast"
	"github.com/soltixdb/statcalc/internal/analytics/insights"
	"github.com/soltixdb/statcalc/internal/analytics/stats"
	"github.com/soltixdb/statcalc/internal/analytics/trend"
	"github.com/soltixdb/statcalc/internal/config"
	"github.com/soltixdb/statcalc/internal/logging"
	"github.com/soltixdb/statcalc/internal/models"
	"github.com/soltixdb/statcalc/internal/utils"
)

// MismatchedLengthsMessage is reported when correlation inputs differ in length
const MismatchedLengthsMessage = "Arrays must have same length"

// MissingPercentileMessage is reported when a percentile request has no p
const MissingPercentileMessage = "p is required"

// MaxForecastHorizon bounds the number of predicted days
const MaxForecastHorizon = 365

// AnalysisService runs analyses with configured defaults for any parameter
// a request leaves out. It holds no per-request state and is safe for
// concurrent use.
type AnalysisService struct {
	logger *logging.Logger
	cfg    config.AnalysisConfig
	now    func() time.Time
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(logger *logging.Logger, cfg config.AnalysisConfig) *AnalysisService {
	return &AnalysisService{
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Report computes the combined analysis: full statistics, a simple moving
// average over min(window, n) values, an exponential moving average and the
// IQR outliers.
func (s *AnalysisService) Report(ctx context.Context, values []float64) models.ReportResponse {
	outliers := stats.DetectOutliers(values, s.cfg.OutlierThreshold)

	s.log(ctx, "report", len(values))
	return models.ReportResponse{
		Success:                  true,
		Statistics:               models.NewStatisticsView(stats.CalculateAll(values)),
		SimpleMovingAverage:      models.NewMovingAverageView(stats.MovingAverageSimple(values, s.cfg.MovingAverageWindow)),
		ExponentialMovingAverage: models.NewMovingAverageView(stats.ExponentialMovingAverage(values, s.cfg.EMAAlpha)),
		Outliers:                 outliers,
		OutlierCount:             len(outliers),
	}
}

// Statistics computes the full summary
func (s *AnalysisService) Statistics(ctx context.Context, values []float64) models.StatisticsView {
	s.log(ctx, "statistics", len(values))
	return models.NewStatisticsView(stats.CalculateAll(values))
}

// MovingAverage computes a simple moving average
func (s *AnalysisService) MovingAverage(ctx context.Context, req models.MovingAverageRequest) models.MovingAverageView {
	window := s.cfg.MovingAverageWindow
	if req.Window != nil {
		window = *req.Window
	}

	s.log(ctx, "moving_average", len(req.Values), "window", window)
	return models.NewMovingAverageView(stats.MovingAverageSimple(req.Values, window))
}

// EMA computes an exponential moving average
func (s *AnalysisService) EMA(ctx context.Context, req models.EMARequest) models.MovingAverageView {
	alpha := s.cfg.EMAAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	s.log(ctx, "ema", len(req.Values), "alpha", alpha)
	return models.NewMovingAverageView(stats.ExponentialMovingAverage(req.Values, alpha))
}

// Outliers returns the indices outside the IQR fences
func (s *AnalysisService) Outliers(ctx context.Context, req models.OutliersRequest) models.OutliersResponse {
	threshold := s.cfg.OutlierThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	outliers := stats.DetectOutliers(req.Values, threshold)
	s.log(ctx, "outliers", len(req.Values), "threshold", threshold)
	return models.OutliersResponse{Outliers: outliers, OutlierCount: len(outliers)}
}

// Correlation computes the Pearson correlation. Inputs of different lengths
// are rejected here rather than classified as invalid.
func (s *AnalysisService) Correlation(ctx context.Context, req models.CorrelationRequest) (models.CorrelationView, error) {
	if len(req.X) != len(req.Y) {
		return models.CorrelationView{}, NewServiceErrorWithDetails(CodeInvalidArgument, MismatchedLengthsMessage,
			map[string]interface{}{"x_length": len(req.X), "y_length": len(req.Y)})
	}

	s.log(ctx, "correlation", len(req.X))
	return models.NewCorrelationView(stats.Correlate(req.X, req.Y)), nil
}

// Percentile computes the p-th percentile
func (s *AnalysisService) Percentile(ctx context.Context, req models.PercentileRequest) (models.PercentileResponse, error) {
	if req.P == nil {
		return models.PercentileResponse{}, invalidArgument(MissingPercentileMessage)
	}
	p := *req.P
	v, err := stats.Percentile(req.Values, p)
	if err != nil {
		return models.PercentileResponse{}, invalidArgument(err.Error())
	}

	s.log(ctx, "percentile", len(req.Values), "p", p)
	return models.PercentileResponse{Percentile: p, Value: models.Fixed2(v)}, nil
}

// MonthlyTotals sums consecutive daily amounts per month. Month lengths come
// from the request or, given a start month, from the calendar.
func (s *AnalysisService) MonthlyTotals(ctx context.Context, req models.MonthlyTotalsRequest) (models.MonthlyTotalsResponse, error) {
	days := req.DaysInMonths
	if len(days) == 0 && req.StartMonth != "" {
		start, err := time.Parse(utils.MonthLayout, req.StartMonth)
		if err != nil {
			return models.MonthlyTotalsResponse{}, invalidArgument(fmt.Sprintf("invalid start_month %q, expected YYYY-MM", req.StartMonth))
		}
		days = monthsCovering(start, len(req.Amounts))
	}

	s.log(ctx, "monthly_totals", len(req.Amounts), "months", len(days))
	return models.MonthlyTotalsResponse{
		Totals: models.Fixed2Slice(stats.MonthlyTotals(req.Amounts, days)),
	}, nil
}

// monthsCovering returns the lengths of the calendar months from start that
// together hold n days.
func monthsCovering(start time.Time, n int) []int {
	var days []int
	covered := 0
	for month := 0; covered < n; month++ {
		t := start.AddDate(0, month, 0)
		length := stats.DaysInMonths(t.Year(), t.Month(), 1)[0]
		days = append(days, length)
		covered += length
	}
	return days
}

// Anomalies runs a named detector. The threshold defaults to the outlier
// fence multiplier for "iqr" and to the z-score cutoff otherwise.
func (s *AnalysisService) Anomalies(ctx context.Context, req models.AnomalyRequest) (models.AnomalyResponse, error) {
	method := req.Method
	if method == "" {
		method = s.cfg.AnomalyMethod
	}
	detector, err := anomaly.GetDetector(method)
	if err != nil {
		return models.AnomalyResponse{}, NewServiceErrorWithDetails(CodeInvalidArgument, err.Error(),
			map[string]interface{}{"available": anomaly.ListDetectors()})
	}

	cfg := anomaly.DetectorConfig{
		Threshold:     s.cfg.AnomalyThreshold,
		WindowSize:    s.cfg.MovingAverageWindow,
		MinDataPoints: s.cfg.AnomalyMinPoints,
	}
	if method == "iqr" {
		cfg.Threshold = s.cfg.OutlierThreshold
	}
	if req.Threshold != nil {
		cfg.Threshold = *req.Threshold
	}

	found := detector.Detect(req.Values, cfg)
	if found == nil {
		found = []anomaly.AnomalyResult{}
	}

	s.log(ctx, "anomalies", len(req.Values), "method", method, "found", len(found))
	return models.AnomalyResponse{
		Method:    method,
		Threshold: cfg.Threshold,
		Anomalies: found,
		Count:     len(found),
	}, nil
}

// Forecast projects daily amounts forward. The series is dated from
// StartDate, or so that its last value falls on today in the configured
// timezone.
func (s *AnalysisService) Forecast(ctx context.Context, req models.ForecastRequest) (models.ForecastResponse, error) {
	method := req.Method
	if method == "" {
		method = s.cfg.ForecastMethod
	}
	forecaster, err := forecast.GetForecaster(method)
	if err != nil {
		return models.ForecastResponse{}, NewServiceErrorWithDetails(CodeInvalidArgument, err.Error(),
			map[string]interface{}{"available": forecast.ListForecasters()})
	}

	cfg := forecast.DefaultForecastConfig()
	cfg.Horizon = s.cfg.ForecastHorizon
	cfg.WindowSize = s.cfg.MovingAverageWindow
	cfg.Alpha = s.cfg.EMAAlpha
	cfg.MinDataPoints = 0
	if req.Horizon != nil {
		cfg.Horizon = *req.Horizon
	}
	if req.Window != nil {
		cfg.WindowSize = *req.Window
	}
	if req.Alpha != nil {
		cfg.Alpha = *req.Alpha
	}
	if cfg.Horizon < 1 || cfg.Horizon > MaxForecastHorizon {
		return models.ForecastResponse{}, invalidArgument(fmt.Sprintf("horizon must be between 1 and %d", MaxForecastHorizon))
	}

	start := s.cfg.Today(s.now()).AddDate(0, 0, 1-len(req.Values))
	if req.StartDate != "" {
		start, err = time.ParseInLocation(utils.DateLayout, req.StartDate, s.cfg.Location())
		if err != nil {
			return models.ForecastResponse{}, invalidArgument(fmt.Sprintf("invalid start_date %q, expected YYYY-MM-DD", req.StartDate))
		}
	}

	series := analytics.FromValues(req.Values, start, utils.HoursPerDay)
	result, err := forecaster.Forecast(series, cfg)
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientData) {
			return models.ForecastResponse{}, NewServiceError(CodeInsufficientData, err.Error())
		}
		return models.ForecastResponse{}, NewServiceError(CodeInternal, err.Error())
	}

	s.log(ctx, "forecast", len(req.Values), "method", method, "horizon", cfg.Horizon)
	return models.NewForecastResponse(method, result), nil
}

// Trend classifies the direction of daily spending
func (s *AnalysisService) Trend(ctx context.Context, req models.TrendRequest) models.TrendView {
	window := s.cfg.TrendWindow
	if req.Window != nil {
		window = *req.Window
	}

	s.log(ctx, "trend", len(req.Values), "window", window)
	return models.NewTrendView(trend.Analyze(req.Values, window))
}

// CategoryBreakdown aggregates expenses per category
func (s *AnalysisService) CategoryBreakdown(ctx context.Context, req models.ExpensesRequest) (models.CategoryBreakdownResponse, error) {
	b, err := insights.CategoryBreakdown(req.Amounts, req.Categories)
	if err != nil {
		return models.CategoryBreakdownResponse{}, invalidArgument(err.Error())
	}

	s.log(ctx, "category_breakdown", len(req.Amounts), "categories", len(b))
	return models.NewCategoryBreakdownResponse(b), nil
}

// SpendingSummary totals expenses. Dated expenses also report their date
// range and per-month spending.
func (s *AnalysisService) SpendingSummary(ctx context.Context, req models.ExpensesRequest) (models.SpendingSummaryResponse, error) {
	dates, err := s.parseDates(req)
	if err != nil {
		return models.SpendingSummaryResponse{}, err
	}
	summary, err := insights.Summarize(req.Amounts, dates)
	if err != nil {
		return models.SpendingSummaryResponse{}, invalidArgument(err.Error())
	}
	var monthly []insights.MonthTotal
	if dates != nil {
		if monthly, err = insights.MonthlySpending(req.Amounts, dates); err != nil {
			return models.SpendingSummaryResponse{}, invalidArgument(err.Error())
		}
	}

	s.log(ctx, "spending_summary", len(req.Amounts), "months", len(monthly))
	return models.NewSpendingSummaryResponse(summary, monthly), nil
}

// Insights derives spending notes, budget recommendations and savings
// opportunities. The month-over-month note needs dated expenses.
func (s *AnalysisService) Insights(ctx context.Context, req models.ExpensesRequest) (models.InsightsResponse, error) {
	b, err := insights.CategoryBreakdown(req.Amounts, req.Categories)
	if err != nil {
		return models.InsightsResponse{}, invalidArgument(err.Error())
	}
	dates, err := s.parseDates(req)
	if err != nil {
		return models.InsightsResponse{}, err
	}
	var monthly []insights.MonthTotal
	if dates != nil {
		if monthly, err = insights.MonthlySpending(req.Amounts, dates); err != nil {
			return models.InsightsResponse{}, invalidArgument(err.Error())
		}
	}

	notes := insights.SpendingNotes(b, monthly)
	budget := insights.Recommend(b)
	savings := insights.SavingsOpportunities(b)

	s.log(ctx, "insights", len(req.Amounts), "notes", len(notes), "recommendations", len(budget.Recommendations))
	return models.NewInsightsResponse(notes, budget, savings), nil
}

// parseDates reads YYYY-MM-DD dates in the configured timezone. No dates
// gives nil.
func (s *AnalysisService) parseDates(req models.ExpensesRequest) ([]time.Time, error) {
	if len(req.Dates) == 0 {
		return nil, nil
	}
	if len(req.Dates) != len(req.Amounts) {
		return nil, invalidArgument(insights.ErrDateMismatch.Error())
	}
	dates := make([]time.Time, len(req.Dates))
	for i, d := range req.Dates {
		t, err := time.ParseInLocation(utils.DateLayout, d, s.cfg.Location())
		if err != nil {
			return nil, invalidArgument(fmt.Sprintf("invalid date %q at index %d, expected YYYY-MM-DD", d, i))
		}
		dates[i] = t
	}
	return dates, nil
}

func (s *AnalysisService) log(ctx context.Context, op string, n int, fields ...interface{}) {
	kOp, vOp := logging.Operation(op)
	kN, vN := logging.Count(n)
	s.logger.WithContext(ctx).Debug("Analysis completed", append([]interface{}{kOp, vOp, kN, vN}, fields...)...)
}
