package calc

import "github.com/shopspring/decimal"

// StockValue is the value of units priced at price, rounded to cents.
func StockValue(price decimal.Decimal, units int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(units)).Round(2)
}

// AverageRating returns the mean of ratings rounded to two places, or zero
// for an empty slice.
func AverageRating(ratings []decimal.Decimal) decimal.Decimal {
	if len(ratings) == 0 {
		return decimal.Zero
	}
	return decimal.Avg(ratings[0], ratings[1:]...).Round(2)
}
