package models

import (
	"github.com/soltixdb/statcalc/internal/analytics/insights"
	"github.com/soltixdb/statcalc/internal/utils"
)

// CategoryView is the wire form of insights.CategoryStats
type CategoryView struct {
	Total      Fixed2 `json:"total"`
	Count      int    `json:"count"`
	Average    Fixed2 `json:"average"`
	Percentage Fixed2 `json:"percentage"`
}

// CategoryBreakdownResponse reports spending per category, keyed by the
// upper-cased category name.
type CategoryBreakdownResponse struct {
	Total      Fixed2                  `json:"total"`
	Categories map[string]CategoryView `json:"categories"`
}

// NewCategoryBreakdownResponse converts a breakdown
func NewCategoryBreakdownResponse(b insights.Breakdown) CategoryBreakdownResponse {
	categories := make(map[string]CategoryView, len(b))
	for name, cs := range b {
		categories[name] = CategoryView{
			Total:      Fixed2(cs.Total),
			Count:      cs.Count,
			Average:    Fixed2(cs.Average),
			Percentage: Fixed2(cs.Percentage),
		}
	}
	return CategoryBreakdownResponse{Total: Fixed2(b.Total()), Categories: categories}
}

// DateRangeView is the first and last expense date
type DateRangeView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MonthTotalView is the spending of one month
type MonthTotalView struct {
	Month string `json:"month"`
	Total Fixed2 `json:"total"`
}

// SpendingSummaryResponse is the wire form of insights.Summary. DateRange
// and MonthlySpending are present only when the expenses are dated.
type SpendingSummaryResponse struct {
	TotalSpending      Fixed2           `json:"total_spending"`
	TotalTransactions  int              `json:"total_transactions"`
	AverageTransaction Fixed2           `json:"average_transaction"`
	MaxTransaction     Fixed2           `json:"max_transaction"`
	MinTransaction     Fixed2           `json:"min_transaction"`
	DateRange          *DateRangeView   `json:"date_range,omitempty"`
	MonthlySpending    []MonthTotalView `json:"monthly_spending,omitempty"`
}

// NewSpendingSummaryResponse converts a summary and its monthly totals
func NewSpendingSummaryResponse(s insights.Summary, monthly []insights.MonthTotal) SpendingSummaryResponse {
	resp := SpendingSummaryResponse{
		TotalSpending:      Fixed2(s.Total),
		TotalTransactions:  s.Count,
		AverageTransaction: Fixed2(s.Average),
		MaxTransaction:     Fixed2(s.Max),
		MinTransaction:     Fixed2(s.Min),
	}
	if s.HasDates() {
		resp.DateRange = &DateRangeView{
			Start: s.Start.Format(utils.DateLayout),
			End:   s.End.Format(utils.DateLayout),
		}
	}
	for _, m := range monthly {
		resp.MonthlySpending = append(resp.MonthlySpending, MonthTotalView{Month: m.Month, Total: Fixed2(m.Total)})
	}
	return resp
}

// NoteView is the wire form of insights.Note
type NoteView struct {
	Type           string            `json:"type"`
	Severity       insights.Severity `json:"severity,omitempty"`
	Category       string            `json:"category,omitempty"`
	Message        string            `json:"message"`
	Recommendation string            `json:"recommendation,omitempty"`
	Figures        map[string]Fixed2 `json:"figures,omitempty"`
}

func newNoteViews(notes []insights.Note) []NoteView {
	out := make([]NoteView, len(notes))
	for i, n := range notes {
		out[i] = NoteView{
			Type:           n.Type,
			Severity:       n.Severity,
			Category:       n.Category,
			Message:        n.Message,
			Recommendation: n.Recommendation,
		}
		if len(n.Figures) > 0 {
			out[i].Figures = make(map[string]Fixed2, len(n.Figures))
			for k, v := range n.Figures {
				out[i].Figures[k] = Fixed2(v)
			}
		}
	}
	return out
}

// AllocationView splits spending into needs, wants and savings
type AllocationView struct {
	Needs   Fixed2 `json:"needs"`
	Wants   Fixed2 `json:"wants"`
	Savings Fixed2 `json:"savings"`
}

func newAllocationView(a insights.Allocation) AllocationView {
	return AllocationView{Needs: Fixed2(a.Needs), Wants: Fixed2(a.Wants), Savings: Fixed2(a.Savings)}
}

// BudgetView is the wire form of insights.Budget
type BudgetView struct {
	CurrentAllocation AllocationView `json:"current_allocation"`
	IdealAllocation   AllocationView `json:"ideal_allocation"`
	Recommendations   []NoteView     `json:"recommendations"`
	CategoryTotals    AllocationView `json:"category_totals"`
}

// InsightsResponse bundles spending notes, the budget analysis and savings
// opportunities.
type InsightsResponse struct {
	Insights             []NoteView `json:"insights"`
	BudgetAnalysis       BudgetView `json:"budget_analysis"`
	SavingsOpportunities []NoteView `json:"savings_opportunities"`
}

// NewInsightsResponse converts the three analyses
func NewInsightsResponse(notes []insights.Note, budget insights.Budget, savings []insights.Note) InsightsResponse {
	return InsightsResponse{
		Insights: newNoteViews(notes),
		BudgetAnalysis: BudgetView{
			CurrentAllocation: newAllocationView(budget.Current),
			IdealAllocation:   newAllocationView(budget.Ideal),
			Recommendations:   newNoteViews(budget.Recommendations),
			CategoryTotals:    newAllocationView(budget.Totals),
		},
		SavingsOpportunities: newNoteViews(savings),
	}
}
