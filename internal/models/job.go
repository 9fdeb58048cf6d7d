package models

import (
	"encoding/json"
	"fmt"
)

// Operations a queued job may request
const (
	OpReport        = "report"
	OpStatistics    = "statistics"
	OpMovingAverage = "moving_average"
	OpEMA           = "ema"
	OpOutliers      = "outliers"
	OpCorrelation   = "correlation"
	OpPercentile    = "percentile"
	OpMonthlyTotals = "monthly_totals"
	OpAnomalies     = "anomalies"
	OpForecast      = "forecast"
	OpTrend         = "trend"

	OpCategoryBreakdown = "category_breakdown"
	OpSpendingSummary   = "spending_summary"
	OpInsights          = "insights"
)

// Operations lists every operation in the order they are documented
var Operations = []string{
	OpReport, OpStatistics, OpMovingAverage, OpEMA, OpOutliers, OpCorrelation,
	OpPercentile, OpMonthlyTotals, OpAnomalies, OpForecast, OpTrend,
	OpCategoryBreakdown, OpSpendingSummary, OpInsights,
}

// IsOperation reports whether op names a supported operation
func IsOperation(op string) bool {
	for _, o := range Operations {
		if o == op {
			return true
		}
	}
	return false
}

// JobRequest is the envelope published on the request subject. Params holds
// the request body of the HTTP endpoint with the same operation.
type JobRequest struct {
	ID        string          `json:"id"`
	Operation string          `json:"operation"`
	Params    json.RawMessage `json:"params"`
}

// Validate checks the envelope, not the params
func (r *JobRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	if !IsOperation(r.Operation) {
		return fmt.Errorf("unknown operation: %q", r.Operation)
	}
	if len(r.Params) == 0 {
		return fmt.Errorf("params are required")
	}
	return nil
}

// JobReply is published on the reply subject once a job has run. Exactly one
// of Error and Result is set.
type JobReply struct {
	ID        string `json:"id"`
	Operation string `json:"operation"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Result    any    `json:"result,omitempty"`
}

// NewJobResult builds a successful reply
func NewJobResult(req JobRequest, result any) JobReply {
	return JobReply{ID: req.ID, Operation: req.Operation, Success: true, Result: result}
}

// NewJobError builds a failed reply
func NewJobError(req JobRequest, message string) JobReply {
	return JobReply{ID: req.ID, Operation: req.Operation, Success: false, Error: message}
}

// JobAccepted is returned when a job has been queued
type JobAccepted struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
}

// JobBatchAccepted is returned when a batch of jobs has been queued.
// Accepted counts the published jobs; IDs lists every submitted job in
// request order.
type JobBatchAccepted struct {
	IDs      []string `json:"ids"`
	Accepted int      `json:"accepted"`
	Subject  string   `json:"subject"`
}
