package insights

import (
	"fmt"
	"math"
)

// Severity grades a note
type Severity string

const (
	Info     Severity = "info"
	Warning  Severity = "warning"
	Positive Severity = "positive"
)

const (
	// HighCategoryShare is the percentage of spending above which the top
	// category draws a warning.
	HighCategoryShare = 40.0

	// MonthChangeThreshold is the month-over-month percentage change that
	// draws a note.
	MonthChangeThreshold = 10.0
)

// Note is one observation about spending. Figures holds the numbers the
// message was built from, keyed by name.
type Note struct {
	Type           string
	Severity       Severity
	Category       string
	Message        string
	Recommendation string
	Figures        map[string]float64
}

// SpendingNotes describes the top category, the month-over-month change
// of the last two months and the average transaction.
func SpendingNotes(b Breakdown, monthly []MonthTotal) []Note {
	notes := []Note{}

	if top, ok := topCategory(b); ok {
		cs := b[top]
		notes = append(notes, Note{
			Type:     "top_spending",
			Severity: Info,
			Category: top,
			Message:  fmt.Sprintf("You spent %.1f%% of your budget on %s", cs.Percentage, top),
			Figures:  map[string]float64{"amount": cs.Total, "percentage": cs.Percentage},
		})
		if cs.Percentage > HighCategoryShare {
			notes = append(notes, Note{
				Type:           "high_category_spending",
				Severity:       Warning,
				Category:       top,
				Message:        fmt.Sprintf("Consider reducing %s spending - it's consuming over 40%% of your budget", top),
				Recommendation: fmt.Sprintf("Try to reduce %s spending by 10-15%%", top),
			})
		}
	}

	if n := len(monthly); n >= 2 && monthly[n-2].Total > 0 {
		current, previous := monthly[n-1].Total, monthly[n-2].Total
		change := (current - previous) / previous * 100
		figures := map[string]float64{
			"current_month":     current,
			"previous_month":    previous,
			"change_percentage": change,
		}
		switch {
		case change > MonthChangeThreshold:
			notes = append(notes, Note{
				Type:     "spending_increase",
				Severity: Warning,
				Message:  fmt.Sprintf("Your spending increased by %.1f%% compared to last month", change),
				Figures:  figures,
			})
		case change < -MonthChangeThreshold:
			notes = append(notes, Note{
				Type:     "spending_decrease",
				Severity: Positive,
				Message:  fmt.Sprintf("Great job! Your spending decreased by %.1f%% compared to last month", math.Abs(change)),
				Figures:  figures,
			})
		}
	}

	if total, count := b.Total(), b.Transactions(); total > 0 && count > 0 {
		avg := total / float64(count)
		notes = append(notes, Note{
			Type:     "average_spending",
			Severity: Info,
			Message:  fmt.Sprintf("Your average transaction is $%.2f", avg),
			Figures:  map[string]float64{"average_amount": avg, "total_transactions": float64(count)},
		})
	}

	return notes
}

// topCategory returns the category with the largest total; ties go to the
// lexically first name.
func topCategory(b Breakdown) (string, bool) {
	var top string
	found := false
	for _, name := range b.Names() {
		if !found || b[name].Total > b[top].Total {
			top, found = name, true
		}
	}
	return top, found
}
