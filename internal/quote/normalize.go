package quote

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseNumber parses an upstream numeric field that may carry thousands
// separators or surrounding whitespace. Returns false for anything that is
// not a number, including the empty string.
func parseNumber(raw string) (decimal.Decimal, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// groupThousands renders the integer part of d with thousands separators.
// Domestic symbols use an integer-price convention, so the fractional part
// is dropped.
func groupThousands(d decimal.Decimal) string {
	s := d.Truncate(0).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// fixedTwo renders d with exactly two decimal places, the fractional-price
// convention used for foreign symbols.
func fixedTwo(d decimal.Decimal) string {
	return d.StringFixed(2)
}
