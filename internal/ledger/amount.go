package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a grid amount such as "$1,204.10", "-$5.00",
// "($5.00)" or "$12.00 CR". Parenthesised values are negative; a trailing
// CR or DR marker is dropped. Empty or unreadable text reports false.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "CR") || strings.HasSuffix(upper, "DR") {
		s = strings.TrimSpace(s[:len(s)-2])
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

// Totals sums the amounts in vals that parse, returning the sum and how
// many values contributed.
func Totals(vals []string) (decimal.Decimal, int) {
	sum := decimal.Zero
	n := 0
	for _, v := range vals {
		if d, ok := ParseAmount(v); ok {
			sum = sum.Add(d)
			n++
		}
	}
	return sum, n
}
