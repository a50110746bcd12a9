package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

func NewMoneyFormatter(symbol string) *accounting.Accounting {
	return &accounting.Accounting{Symbol: symbol, Precision: 2, Thousand: ",", Decimal: "."}
}

// Money renders amount with the currency symbol, e.g. "$1,234.50".
func Money(symbol string, amount decimal.Decimal) string {
	return NewMoneyFormatter(symbol).FormatMoneyDecimal(amount)
}
