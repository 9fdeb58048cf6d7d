package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soltixdb/statcalc/internal/models"
	"github.com/soltixdb/statcalc/internal/services"
)

// Dispatch decodes the job params for its operation and runs it. The
// returned value is the same view the HTTP endpoint would return.
func Dispatch(ctx context.Context, svc *services.AnalysisService, job models.JobRequest) (any, error) {
	switch job.Operation {
	case models.OpReport:
		var req models.ValuesRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.Report(ctx, req.Values), nil

	case models.OpStatistics:
		var req models.ValuesRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.Statistics(ctx, req.Values), nil

	case models.OpMovingAverage:
		var req models.MovingAverageRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.MovingAverage(ctx, req), nil

	case models.OpEMA:
		var req models.EMARequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.EMA(ctx, req), nil

	case models.OpOutliers:
		var req models.OutliersRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.Outliers(ctx, req), nil

	case models.OpCorrelation:
		var req models.CorrelationRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.Correlation(ctx, req)

	case models.OpPercentile:
		var req models.PercentileRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.Percentile(ctx, req)

	case models.OpMonthlyTotals:
		var req models.MonthlyTotalsRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.MonthlyTotals(ctx, req)

	case models.OpAnomalies:
		var req models.AnomalyRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.Anomalies(ctx, req)

	case models.OpForecast:
		var req models.ForecastRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.Forecast(ctx, req)

	case models.OpTrend:
		var req models.TrendRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.Trend(ctx, req), nil

	case models.OpCategoryBreakdown:
		var req models.ExpensesRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.CategoryBreakdown(ctx, req)

	case models.OpSpendingSummary:
		var req models.ExpensesRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.SpendingSummary(ctx, req)

	case models.OpInsights:
		var req models.ExpensesRequest
		if err := decodeParams(job.Params, &req); err != nil {
			return nil, err
		}
		return svc.Insights(ctx, req)

	default:
		return nil, services.NewServiceError(services.CodeInvalidArgument, fmt.Sprintf("unknown operation: %q", job.Operation))
	}
}

func decodeParams(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return services.NewServiceError(services.CodeInvalidArgument, "invalid params: "+err.Error())
	}
	return nil
}
