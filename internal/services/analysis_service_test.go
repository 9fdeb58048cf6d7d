package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soltixdb/statcalc/internal/analytics/stats"
	"github.com/soltixdb/statcalc/internal/analytics/trend"
	"github.com/soltixdb/statcalc/internal/config"
	"github.com/soltixdb/statcalc/internal/logging"
	"github.com/soltixdb/statcalc/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *AnalysisService {
	svc := NewAnalysisService(logging.Nop(), config.DefaultConfig().Analysis)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	}
	return svc
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func requireServiceError(t *testing.T, err error, code string) *ServiceError {
	t.Helper()
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr), "expected *ServiceError, got %v", err)
	assert.Equal(t, code, svcErr.Code)
	return svcErr
}

func TestAnalysisService_Report(t *testing.T) {
	svc := newTestService()
	values := []float64{10, 12, 11, 13, 12, 100, 11, 12}

	report := svc.Report(context.Background(), values)

	assert.True(t, report.Success)
	assert.Equal(t, 8, report.Statistics.Count)
	assert.Equal(t, 7, report.SimpleMovingAverage.WindowSize)
	assert.Len(t, report.SimpleMovingAverage.Values, 2)
	assert.Equal(t, models.ExponentialWindowSize, report.ExponentialMovingAverage.WindowSize)
	assert.Len(t, report.ExponentialMovingAverage.Values, 8)
	assert.Equal(t, []int{5}, report.Outliers)
	assert.Equal(t, 1, report.OutlierCount)
}

func TestAnalysisService_ReportClampsWindow(t *testing.T) {
	report := newTestService().Report(context.Background(), []float64{1, 2, 3})

	assert.Equal(t, 3, report.SimpleMovingAverage.WindowSize)
	assert.Equal(t, []models.Fixed2{2}, report.SimpleMovingAverage.Values)
	assert.Empty(t, report.Outliers)
	assert.NotNil(t, report.Outliers)
}

func TestAnalysisService_MovingAverages(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sma := svc.MovingAverage(ctx, models.MovingAverageRequest{Values: []float64{1, 2, 3, 4}, Window: intPtr(2)})
	assert.Equal(t, 2, sma.WindowSize)
	assert.Equal(t, models.Fixed2(3.5), sma.CurrentAverage)

	sma = svc.MovingAverage(ctx, models.MovingAverageRequest{Values: []float64{1, 2, 3, 4}, Window: intPtr(0)})
	assert.Equal(t, 0, sma.WindowSize)
	assert.Empty(t, sma.Values)

	ema := svc.EMA(ctx, models.EMARequest{Values: []float64{10, 20}})
	assert.Equal(t, models.ExponentialWindowSize, ema.WindowSize)
	assert.InDelta(t, 13.0, float64(ema.CurrentAverage), 1e-9)

	ema = svc.EMA(ctx, models.EMARequest{Values: []float64{10, 20}, Alpha: floatPtr(1.5)})
	assert.Empty(t, ema.Values)
}

func TestAnalysisService_Outliers(t *testing.T) {
	svc := newTestService()
	values := []float64{10, 20, 30, 40, 50, 200}

	resp := svc.Outliers(context.Background(), models.OutliersRequest{Values: values})
	assert.Equal(t, []int{5}, resp.Outliers)

	resp = svc.Outliers(context.Background(), models.OutliersRequest{Values: values, Threshold: floatPtr(10)})
	assert.Empty(t, resp.Outliers)
	assert.Equal(t, 0, resp.OutlierCount)
}

func TestAnalysisService_Correlation(t *testing.T) {
	svc := newTestService()

	view, err := svc.Correlation(context.Background(), models.CorrelationRequest{
		X: []float64{1, 2, 3, 4},
		Y: []float64{8, 6, 4, 2},
	})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, float64(view.PearsonCoefficient), 1e-9)
	assert.Equal(t, stats.DirectionNegative, view.Direction)

	_, err = svc.Correlation(context.Background(), models.CorrelationRequest{
		X: []float64{1, 2, 3},
		Y: []float64{1, 2},
	})
	svcErr := requireServiceError(t, err, CodeInvalidArgument)
	assert.Equal(t, MismatchedLengthsMessage, svcErr.Message)
}

func TestAnalysisService_Percentile(t *testing.T) {
	svc := newTestService()
	values := []float64{10, 20, 30, 40, 50}

	resp, err := svc.Percentile(context.Background(), models.PercentileRequest{Values: values, P: floatPtr(90)})
	require.NoError(t, err)
	assert.InDelta(t, 46.0, float64(resp.Value), 1e-9)

	_, err = svc.Percentile(context.Background(), models.PercentileRequest{Values: values, P: floatPtr(150)})
	requireServiceError(t, err, CodeInvalidArgument)

	resp, err = svc.Percentile(context.Background(), models.PercentileRequest{P: floatPtr(150)})
	require.NoError(t, err)
	assert.Zero(t, resp.Value)

	resp, err = svc.Percentile(context.Background(), models.PercentileRequest{Values: values, P: floatPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, models.Fixed2(10), resp.Value)

	_, err = svc.Percentile(context.Background(), models.PercentileRequest{Values: values})
	svcErr := requireServiceError(t, err, CodeInvalidArgument)
	assert.Equal(t, MissingPercentileMessage, svcErr.Message)
}

func TestAnalysisService_MonthlyTotals(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.MonthlyTotals(ctx, models.MonthlyTotalsRequest{
		Amounts:      []float64{1, 1, 1, 2, 2, 5},
		DaysInMonths: []int{3, 2, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Fixed2{3, 4, 5}, resp.Totals)

	// February 2024 has 29 days.
	amounts := make([]float64, 40)
	for i := range amounts {
		amounts[i] = 1
	}
	resp, err = svc.MonthlyTotals(ctx, models.MonthlyTotalsRequest{Amounts: amounts, StartMonth: "2024-02"})
	require.NoError(t, err)
	assert.Equal(t, []models.Fixed2{29, 11}, resp.Totals)

	_, err = svc.MonthlyTotals(ctx, models.MonthlyTotalsRequest{Amounts: amounts, StartMonth: "02/2024"})
	requireServiceError(t, err, CodeInvalidArgument)
}

func TestAnalysisService_Anomalies(t *testing.T) {
	svc := newTestService()
	values := []float64{10, 10, 10, 10, 10, 10, 100, 10, 10, 10}

	resp, err := svc.Anomalies(context.Background(), models.AnomalyRequest{Values: values})
	require.NoError(t, err)
	assert.Equal(t, "zscore", resp.Method)
	assert.Equal(t, 2.0, resp.Threshold)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 6, resp.Anomalies[0].Index)

	resp, err = svc.Anomalies(context.Background(), models.AnomalyRequest{Values: values[:5], Method: "zscore"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Anomalies)
	assert.Zero(t, resp.Count)

	resp, err = svc.Anomalies(context.Background(), models.AnomalyRequest{Values: values, Method: "iqr"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, resp.Threshold)

	_, err = svc.Anomalies(context.Background(), models.AnomalyRequest{Values: values, Method: "lstm"})
	requireServiceError(t, err, CodeInvalidArgument)
}

func TestAnalysisService_Forecast(t *testing.T) {
	svc := newTestService()
	values := []float64{10, 10, 10, 10, 10, 10, 10}

	resp, err := svc.Forecast(context.Background(), models.ForecastRequest{Values: values, Horizon: intPtr(3)})
	require.NoError(t, err)

	assert.Equal(t, "sma", resp.Method)
	require.Len(t, resp.Forecast, 3)
	// The last value is dated today, so predictions start tomorrow.
	assert.Equal(t, "2025-03-11", resp.Forecast[0].Date)
	assert.Equal(t, "2025-03-13", resp.Forecast[2].Date)
	assert.Equal(t, models.Fixed2(10), resp.Forecast[0].Predicted)
	assert.Equal(t, models.Fixed2(30), resp.TotalPredicted)
}

func TestAnalysisService_ForecastStartDate(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Forecast(context.Background(), models.ForecastRequest{
		Values:    []float64{5, 6, 7, 8, 9, 10, 11, 12},
		Method:    "exponential",
		Horizon:   intPtr(1),
		StartDate: "2024-12-25",
	})
	require.NoError(t, err)
	assert.Equal(t, "exponential", resp.Method)
	assert.Equal(t, "2025-01-02", resp.Forecast[0].Date)
}

func TestAnalysisService_ForecastWeekly(t *testing.T) {
	svc := newTestService()

	// Two weeks from a Monday, spending only on Mondays.
	values := make([]float64, 14)
	values[0], values[7] = 100, 100

	resp, err := svc.Forecast(context.Background(), models.ForecastRequest{
		Values:    values,
		Method:    "weekly",
		Horizon:   intPtr(7),
		StartDate: "2025-01-06",
	})
	require.NoError(t, err)
	require.Len(t, resp.Forecast, 7)
	assert.Equal(t, "2025-01-20", resp.Forecast[0].Date)
	assert.Equal(t, models.Fixed2(100), resp.Forecast[0].Predicted)
	assert.Equal(t, models.Fixed2(0), resp.Forecast[1].Predicted)
	assert.Equal(t, models.Fixed2(100), resp.TotalPredicted)
	assert.Equal(t, "Monday", resp.Model.Parameters["highest_spending_day"])
}

func TestAnalysisService_ForecastErrors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	values := []float64{1, 2, 3, 4, 5, 6, 7}

	_, err := svc.Forecast(ctx, models.ForecastRequest{Values: values[:3]})
	requireServiceError(t, err, CodeInsufficientData)

	_, err = svc.Forecast(ctx, models.ForecastRequest{Values: values, Method: "prophet"})
	requireServiceError(t, err, CodeInvalidArgument)

	_, err = svc.Forecast(ctx, models.ForecastRequest{Values: values, Horizon: intPtr(0)})
	requireServiceError(t, err, CodeInvalidArgument)

	_, err = svc.Forecast(ctx, models.ForecastRequest{Values: values, StartDate: "yesterday"})
	requireServiceError(t, err, CodeInvalidArgument)
}

func TestAnalysisService_Trend(t *testing.T) {
	svc := newTestService()

	result := svc.Trend(context.Background(), models.TrendRequest{
		Values: []float64{10, 10, 10, 10, 10, 20, 20, 20},
		Window: intPtr(3),
	})
	assert.Equal(t, trend.Increasing, result.Trend)

	result = svc.Trend(context.Background(), models.TrendRequest{Values: []float64{1, 2}})
	assert.Equal(t, trend.InsufficientData, result.Trend)
}

func expenses() models.ExpensesRequest {
	return models.ExpensesRequest{
		Amounts:    []float64{600, 200, 100, 100},
		Categories: []string{"rent", "food", "food", "savings"},
		Dates:      []string{"2025-01-01", "2025-01-15", "2025-02-03", "2025-02-20"},
	}
}

func TestAnalysisService_CategoryBreakdown(t *testing.T) {
	svc := newTestService()

	resp, err := svc.CategoryBreakdown(context.Background(), expenses())
	require.NoError(t, err)
	assert.Equal(t, models.Fixed2(1000), resp.Total)
	assert.Equal(t, models.CategoryView{Total: 300, Count: 2, Average: 150, Percentage: 30}, resp.Categories["FOOD"])

	_, err = svc.CategoryBreakdown(context.Background(), models.ExpensesRequest{Amounts: []float64{1, 2}})
	requireServiceError(t, err, CodeInvalidArgument)
}

func TestAnalysisService_SpendingSummary(t *testing.T) {
	svc := newTestService()

	resp, err := svc.SpendingSummary(context.Background(), expenses())
	require.NoError(t, err)
	assert.Equal(t, 4, resp.TotalTransactions)
	assert.Equal(t, models.Fixed2(250), resp.AverageTransaction)
	require.NotNil(t, resp.DateRange)
	assert.Equal(t, models.DateRangeView{Start: "2025-01-01", End: "2025-02-20"}, *resp.DateRange)
	assert.Equal(t, []models.MonthTotalView{{Month: "2025-01", Total: 800}, {Month: "2025-02", Total: 200}}, resp.MonthlySpending)

	resp, err = svc.SpendingSummary(context.Background(), models.ExpensesRequest{Amounts: []float64{4, 8}})
	require.NoError(t, err)
	assert.Nil(t, resp.DateRange)
	assert.Equal(t, models.Fixed2(8), resp.MaxTransaction)
}

func TestAnalysisService_SpendingSummaryBadDates(t *testing.T) {
	svc := newTestService()

	_, err := svc.SpendingSummary(context.Background(), models.ExpensesRequest{
		Amounts: []float64{1, 2},
		Dates:   []string{"2025-01-01"},
	})
	requireServiceError(t, err, CodeInvalidArgument)

	_, err = svc.SpendingSummary(context.Background(), models.ExpensesRequest{
		Amounts: []float64{1},
		Dates:   []string{"01/02/2025"},
	})
	svcErr := requireServiceError(t, err, CodeInvalidArgument)
	assert.Contains(t, svcErr.Message, "index 0")
}

func TestAnalysisService_Insights(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Insights(context.Background(), expenses())
	require.NoError(t, err)

	types := make([]string, len(resp.Insights))
	for i, n := range resp.Insights {
		types[i] = n.Type
	}
	assert.Equal(t, []string{"top_spending", "high_category_spending", "spending_decrease", "average_spending"}, types)
	assert.Equal(t, models.AllocationView{Needs: 60, Wants: 30, Savings: 10}, resp.BudgetAnalysis.CurrentAllocation)
	require.Len(t, resp.SavingsOpportunities, 1)
	assert.Equal(t, "dining_vs_cooking", resp.SavingsOpportunities[0].Type)

	_, err = svc.Insights(context.Background(), models.ExpensesRequest{Amounts: []float64{1}, Categories: []string{"a", "b"}})
	requireServiceError(t, err, CodeInvalidArgument)
}
