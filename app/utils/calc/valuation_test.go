package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockValue(t *testing.T) {
	assert.Equal(t, "125.00", StockValue(decimal.RequireFromString("12.50"), 10).StringFixed(2))
	assert.True(t, StockValue(decimal.RequireFromString("999.99"), 0).IsZero())
}

func TestAverageRating(t *testing.T) {
	assert.True(t, AverageRating(nil).IsZero())

	avg := AverageRating([]decimal.Decimal{
		decimal.RequireFromString("4"),
		decimal.RequireFromString("5"),
		decimal.RequireFromString("4.5"),
	})
	assert.Equal(t, "4.50", avg.StringFixed(2))

	avg = AverageRating([]decimal.Decimal{
		decimal.RequireFromString("1"),
		decimal.RequireFromString("2"),
		decimal.RequireFromString("2"),
	})
	assert.Equal(t, "1.67", avg.StringFixed(2))
}
