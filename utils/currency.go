package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

const RupeeSymbol = "₹"

// FormatRupee formats an amount as "₹1234.50". Rounding happens here, at
// display time, never in stored totals.
func FormatRupee(amount decimal.Decimal) string {
	return RupeeSymbol + amount.StringFixed(2)
}

// FormatRupeeGrouped adds Indian digit grouping: 123456.5 -> "₹1,23,456.50".
func FormatRupeeGrouped(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	integerPart, decimalPart := parts[0], parts[1]

	// tiga digit terakhir, lalu kelompok dua digit
	if len(integerPart) > 3 {
		head := integerPart[:len(integerPart)-3]
		tail := integerPart[len(integerPart)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		integerPart = strings.Join(append(groups, tail), ",")
	}

	return sign + RupeeSymbol + integerPart + "." + decimalPart
}
