// Package money holds the storefront's currency rules. All arithmetic is
// exact fixed-point via shopspring/decimal: the formatted amount ends up
// inside the KHQR payload and has to match what Bakong settles, so float
// drift is not an option.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	USD = "USD"
	KHR = "KHR"
)

var hundred = decimal.NewFromInt(100)

// Normalize upper-cases a currency code, defaulting empty to USD.
func Normalize(currency string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c == "" {
		return USD
	}
	return c
}

// Supported reports whether the storefront can charge in the currency.
func Supported(currency string) bool {
	switch Normalize(currency) {
	case USD, KHR:
		return true
	}
	return false
}

// Format renders an amount the way KHQR expects it:
// USD keeps two decimals, KHR is rounded to the nearest 100 riel and
// rendered as an integer string. Rounding is half-up (amounts are never
// negative, so decimal's round-half-away-from-zero is exactly that).
func Format(amount decimal.Decimal, currency string) string {
	if Normalize(currency) == KHR {
		return amount.Div(hundred).Round(0).Mul(hundred).StringFixed(0)
	}
	return amount.Round(2).StringFixed(2)
}

// UsdToKhr converts a USD amount into whole riel at the configured rate,
// half-up to the nearest riel. Rounding to the 100-riel denomination is
// Format's job, not this one's.
func UsdToKhr(usd, rate decimal.Decimal) decimal.Decimal {
	return usd.Mul(rate).Round(0)
}

// LineTotal is unit price times quantity, kept at cent precision.
func LineTotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
