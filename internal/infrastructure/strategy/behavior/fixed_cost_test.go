package behavior

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedCostComponent(t *testing.T) {
	c, err := NewFixedCostComponent(FixedCostConfig{Price: decimal.RequireFromString("4.90"), Description: "Handling"})
	require.NoError(t, err)
	assert.Equal(t, KindFixedCost, c.Name())

	costs := c.GetCosts(newTestMethod(t), newTestSource(t, 1, "10", "1", "FI"))
	require.Len(t, costs, 1)
	assert.True(t, costs[0].Price.Equals(eur("4.90")))
	assert.True(t, costs[0].BasePrice.Equals(eur("4.90")))
	assert.Equal(t, "Handling", costs[0].Description)
	assert.Empty(t, c.GetUnavailabilityReasons(newTestMethod(t), newTestSource(t, 1, "10", "1", "FI")))

	_, err = NewFixedCostComponent(FixedCostConfig{Price: decimal.NewFromInt(-1)})
	assert.Error(t, err)
}
