package insights

import (
	"fmt"
	"math"
)

// Allocation splits spending into needs, wants and savings
type Allocation struct {
	Needs   float64
	Wants   float64
	Savings float64
}

// IdealAllocation is the 50/30/20 rule in percent
var IdealAllocation = Allocation{Needs: 50, Wants: 30, Savings: 20}

var (
	needsCategories   = map[string]bool{"RENT": true, "UTILITIES": true, "GROCERIES": true, "HEALTHCARE": true, "INSURANCE": true, "TRANSPORT": true}
	wantsCategories   = map[string]bool{"ENTERTAINMENT": true, "SHOPPING": true, "FOOD": true, "SUBSCRIPTIONS": true, "TRAVEL": true}
	savingsCategories = map[string]bool{"SAVINGS": true}
)

const (
	needsLimit        = 55.0
	wantsLimit        = 35.0
	savingsFloor      = 15.0
	categoryShareCap  = 30.0
	suggestedLimitPct = 0.8
)

// Budget compares spending with the 50/30/20 rule. Current is in percent of
// the classified spending, rounded to one decimal; categories outside the
// three groups are ignored there but still draw a category warning.
type Budget struct {
	Current         Allocation
	Ideal           Allocation
	Totals          Allocation
	Recommendations []Note
}

// Recommend builds budget recommendations from a breakdown.
func Recommend(b Breakdown) Budget {
	var totals Allocation
	for name, cs := range b {
		switch {
		case needsCategories[name]:
			totals.Needs += cs.Total
		case wantsCategories[name]:
			totals.Wants += cs.Total
		case savingsCategories[name]:
			totals.Savings += cs.Total
		}
	}

	classified := totals.Needs + totals.Wants + totals.Savings
	if classified == 0 {
		classified = 1
	}
	current := Allocation{
		Needs:   round1(totals.Needs / classified * 100),
		Wants:   round1(totals.Wants / classified * 100),
		Savings: round1(totals.Savings / classified * 100),
	}

	recs := []Note{}
	if current.Needs > needsLimit {
		recs = append(recs, allocationNote("reduce_needs",
			"Your essential spending is above 50%. Consider ways to reduce fixed costs.", current.Needs, IdealAllocation.Needs))
	}
	if current.Wants > wantsLimit {
		recs = append(recs, allocationNote("reduce_wants",
			"Your discretionary spending is above 30%. Try cutting back on non-essentials.", current.Wants, IdealAllocation.Wants))
	}
	if current.Savings < savingsFloor {
		recs = append(recs, allocationNote("increase_savings",
			"Your savings rate is below 20%. Consider automating savings deposits.", current.Savings, IdealAllocation.Savings))
	}

	for _, name := range b.Names() {
		cs := b[name]
		if cs.Percentage <= categoryShareCap {
			continue
		}
		recs = append(recs, Note{
			Type:     "category_warning",
			Severity: Warning,
			Category: name,
			Message:  fmt.Sprintf("%s is taking over 30%% of your budget. Set a spending limit.", name),
			Figures: map[string]float64{
				"current_percentage": cs.Percentage,
				"suggested_limit":    cs.Total * suggestedLimitPct,
			},
		})
	}

	return Budget{
		Current:         current,
		Ideal:           IdealAllocation,
		Totals:          totals,
		Recommendations: recs,
	}
}

func allocationNote(kind, msg string, current, target float64) Note {
	return Note{
		Type:     kind,
		Severity: Warning,
		Message:  msg,
		Figures:  map[string]float64{"current": current, "target": target},
	}
}

const (
	subscriptionCount   = 3
	smallPurchaseCount  = 10
	smallPurchaseAmount = 20.0
	diningRatio         = 1.5
)

// SavingsOpportunities flags subscription bloat, frequent small purchases
// and dining out well beyond grocery spending. Figures always carry
// potential_savings.
func SavingsOpportunities(b Breakdown) []Note {
	out := []Note{}

	if sub, ok := b["SUBSCRIPTIONS"]; ok && sub.Count > subscriptionCount {
		out = append(out, Note{
			Type:     "subscription_audit",
			Category: "SUBSCRIPTIONS",
			Message:  fmt.Sprintf("You have %d subscription charges. Review if you're using all of them.", sub.Count),
			Figures:  map[string]float64{"potential_savings": sub.Total * 0.3},
		})
	}

	for _, name := range b.Names() {
		cs := b[name]
		if cs.Count > smallPurchaseCount && cs.Average < smallPurchaseAmount {
			out = append(out, Note{
				Type:     "small_purchases",
				Category: name,
				Message:  fmt.Sprintf("You made %d small purchases in %s. These add up to $%.2f.", cs.Count, name, cs.Total),
				Figures:  map[string]float64{"potential_savings": cs.Total * 0.2},
			})
		}
	}

	food, grocery := b["FOOD"].Total, b["GROCERIES"].Total
	if food > grocery*diningRatio {
		out = append(out, Note{
			Type:    "dining_vs_cooking",
			Message: "You're spending significantly more on dining out than groceries. Cooking more could save money.",
			Figures: map[string]float64{
				"food_spending":     food,
				"grocery_spending":  grocery,
				"potential_savings": (food - grocery) * 0.4,
			},
		})
	}

	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
