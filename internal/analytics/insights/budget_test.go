package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend(t *testing.T) {
	b, err := CategoryBreakdown([]float64{600, 300, 100}, []string{"rent", "food", "savings"})
	require.NoError(t, err)

	budget := Recommend(b)
	assert.Equal(t, Allocation{Needs: 60, Wants: 30, Savings: 10}, budget.Current)
	assert.Equal(t, IdealAllocation, budget.Ideal)
	assert.Equal(t, Allocation{Needs: 600, Wants: 300, Savings: 100}, budget.Totals)

	require.Equal(t, []string{"reduce_needs", "increase_savings", "category_warning"}, noteTypes(budget.Recommendations))
	assert.Equal(t, map[string]float64{"current": 60, "target": 50}, budget.Recommendations[0].Figures)
	assert.Equal(t, map[string]float64{"current": 10, "target": 20}, budget.Recommendations[1].Figures)

	warning := budget.Recommendations[2]
	assert.Equal(t, "RENT", warning.Category)
	assert.Equal(t, "RENT is taking over 30% of your budget. Set a spending limit.", warning.Message)
	assert.Equal(t, 480.0, warning.Figures["suggested_limit"])
}

func TestRecommend_RoundsToOneDecimal(t *testing.T) {
	b, err := CategoryBreakdown([]float64{1, 1, 1}, []string{"rent", "food", "savings"})
	require.NoError(t, err)

	budget := Recommend(b)
	assert.Equal(t, Allocation{Needs: 33.3, Wants: 33.3, Savings: 33.3}, budget.Current)
}

func TestRecommend_UnclassifiedSpending(t *testing.T) {
	b, err := CategoryBreakdown([]float64{100}, []string{"misc"})
	require.NoError(t, err)

	budget := Recommend(b)
	assert.Equal(t, Allocation{}, budget.Current)
	assert.Equal(t, []string{"increase_savings", "category_warning"}, noteTypes(budget.Recommendations))

	empty := Recommend(Breakdown{})
	assert.Equal(t, []string{"increase_savings"}, noteTypes(empty.Recommendations))
}

func TestSavingsOpportunities(t *testing.T) {
	b := Breakdown{
		"SUBSCRIPTIONS": {Total: 100, Count: 4, Average: 25},
		"COFFEE":        {Total: 55, Count: 11, Average: 5},
		"FOOD":          {Total: 400, Count: 8, Average: 50},
		"GROCERIES":     {Total: 200, Count: 4, Average: 50},
	}

	got := SavingsOpportunities(b)
	require.Equal(t, []string{"subscription_audit", "small_purchases", "dining_vs_cooking"}, noteTypes(got))

	assert.Equal(t, "You have 4 subscription charges. Review if you're using all of them.", got[0].Message)
	assert.InDelta(t, 30.0, got[0].Figures["potential_savings"], 1e-9)

	assert.Equal(t, "COFFEE", got[1].Category)
	assert.Equal(t, "You made 11 small purchases in COFFEE. These add up to $55.00.", got[1].Message)
	assert.InDelta(t, 11.0, got[1].Figures["potential_savings"], 1e-9)

	assert.InDelta(t, 80.0, got[2].Figures["potential_savings"], 1e-9)
	assert.Equal(t, 400.0, got[2].Figures["food_spending"])
}

func TestSavingsOpportunities_None(t *testing.T) {
	got := SavingsOpportunities(Breakdown{
		"SUBSCRIPTIONS": {Total: 30, Count: 3, Average: 10},
		"FOOD":          {Total: 150, Count: 3, Average: 50},
		"GROCERIES":     {Total: 100, Count: 2, Average: 50},
	})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, SavingsOpportunities(nil))
}
