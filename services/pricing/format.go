package pricing

import (
	"fmt"
	"math"
)

var currencySymbols = map[string]string{
	"GBP": "£",
	"EUR": "€",
	"USD": "$",
}

// FormatPrice renders an amount for display, e.g. "£52.00".
func FormatPrice(amount float64, currency string) string {
	if symbol, ok := currencySymbols[currency]; ok {
		return fmt.Sprintf("%s%.2f", symbol, amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
