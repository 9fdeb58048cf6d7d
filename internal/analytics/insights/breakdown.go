// Package insights aggregates categorized expenses and derives spending
// notes, 50/30/20 budget recommendations and savings opportunities from the
// per-category totals.
package insights

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/soltixdb/statcalc/internal/analytics/stats"
)

// Uncategorized names expenses recorded without a category
const Uncategorized = "UNCATEGORIZED"

var (
	// ErrCategoryMismatch is returned when amounts and categories differ in length
	ErrCategoryMismatch = errors.New("amounts and categories must have same length")

	// ErrDateMismatch is returned when amounts and dates differ in length
	ErrDateMismatch = errors.New("amounts and dates must have same length")
)

// CategoryStats aggregates the expenses of one category. Percentage is the
// category's share of all spending, 0 when nothing was spent.
type CategoryStats struct {
	Total      float64
	Count      int
	Average    float64
	Percentage float64
}

// Breakdown maps each category to its aggregate
type Breakdown map[string]CategoryStats

// NormalizeCategory upper-cases and trims a category name. Blank names
// become Uncategorized.
func NormalizeCategory(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return Uncategorized
	}
	return name
}

// CategoryBreakdown groups amounts by their normalized category.
func CategoryBreakdown(amounts []float64, categories []string) (Breakdown, error) {
	if len(amounts) != len(categories) {
		return nil, ErrCategoryMismatch
	}

	grouped := make(map[string][]float64)
	for i, amount := range amounts {
		name := NormalizeCategory(categories[i])
		grouped[name] = append(grouped[name], amount)
	}

	total := stats.Sum(amounts)
	out := make(Breakdown, len(grouped))
	for name, values := range grouped {
		cs := CategoryStats{
			Total:   stats.Sum(values),
			Count:   len(values),
			Average: stats.Mean(values),
		}
		if total > 0 {
			cs.Percentage = cs.Total / total * 100
		}
		out[name] = cs
	}
	return out, nil
}

// Names returns the categories in lexical order
func (b Breakdown) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Total sums every category
func (b Breakdown) Total() float64 {
	var total float64
	for _, cs := range b {
		total += cs.Total
	}
	return total
}

// Transactions counts every expense
func (b Breakdown) Transactions() int {
	var n int
	for _, cs := range b {
		n += cs.Count
	}
	return n
}

// Summary describes a set of expenses. Start and End are zero when the
// expenses carry no dates.
type Summary struct {
	Total   float64
	Count   int
	Average float64
	Max     float64
	Min     float64
	Start   time.Time
	End     time.Time
}

// HasDates reports whether the summary covers a date range
func (s Summary) HasDates() bool {
	return !s.Start.IsZero()
}

// Summarize totals expenses. dates may be nil; otherwise it must match
// amounts in length.
func Summarize(amounts []float64, dates []time.Time) (Summary, error) {
	if dates != nil && len(dates) != len(amounts) {
		return Summary{}, ErrDateMismatch
	}

	s := Summary{
		Total:   stats.Sum(amounts),
		Count:   len(amounts),
		Average: stats.Mean(amounts),
	}
	s.Min, s.Max = stats.MinMax(amounts)

	for i, d := range dates {
		if i == 0 || d.Before(s.Start) {
			s.Start = d
		}
		if i == 0 || d.After(s.End) {
			s.End = d
		}
	}
	return s, nil
}

// MonthTotal is the spending of one calendar month, keyed YYYY-MM
type MonthTotal struct {
	Month string
	Total float64
}

// MonthlySpending sums amounts per calendar month of their dates, oldest
// month first.
func MonthlySpending(amounts []float64, dates []time.Time) ([]MonthTotal, error) {
	if len(dates) != len(amounts) {
		return nil, ErrDateMismatch
	}

	totals := make(map[string]float64)
	for i, d := range dates {
		totals[d.Format("2006-01")] += amounts[i]
	}

	out := make([]MonthTotal, 0, len(totals))
	for month, total := range totals {
		out = append(out, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
