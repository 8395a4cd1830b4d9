package widget

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatTotal renders a cent amount, keeping whatever currency marker the
// previously rendered total carried. Both "$12.00" and "12.00kr" style
// markers survive a recalculation; with no previous render the bare amount
// is returned.
func FormatTotal(cents int, previous string) string {
	amount := decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100)).StringFixed(2)
	prefix, suffix := currencyMarkers(previous)
	return prefix + amount + suffix
}

// LineTotalCents computes a line total with the rental-day multiplier.
// Non-rental lines count as one day.
func LineTotalCents(quantity, priceCents, rentalDays int) int {
	if rentalDays < 1 {
		rentalDays = 1
	}
	return quantity * priceCents * rentalDays
}

func currencyMarkers(rendered string) (prefix, suffix string) {
	rendered = strings.TrimSpace(rendered)
	start := 0
	for start < len(rendered) && !isAmountByte(rendered[start]) {
		start++
	}
	end := len(rendered)
	for end > start && !isAmountByte(rendered[end-1]) {
		end--
	}
	return rendered[:start], rendered[end:]
}

func isAmountByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '.' || b == ','
}
