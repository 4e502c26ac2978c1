package classify

import (
	"strings"

	"stock-quote-service/internal/types"
)

// Classify decides which market pipeline should handle the input. It is a
// pure function: no network access, never fails.
//
// Rules, in order:
//  1. any character in the Hangul syllable block -> domestic (Korean name)
//  2. exactly six ASCII digits -> domestic (already a symbol code)
//  3. everything else -> foreign ticker
//
// Digit strings of other lengths fall through to foreign; KRX codes are
// fixed at six digits today and the policy lives only here.
func Classify(text string) types.ClassifiedQuery {
	trimmed := strings.TrimSpace(text)

	if containsHangul(trimmed) {
		return types.ClassifiedQuery{Text: trimmed, Market: types.MarketDomestic}
	}
	if IsSymbolCode(trimmed) {
		return types.ClassifiedQuery{Text: trimmed, Market: types.MarketDomestic}
	}
	return types.ClassifiedQuery{Text: trimmed, Market: types.MarketForeign}
}

// IsSymbolCode reports whether s is a well-formed domestic symbol code:
// exactly six ASCII digits.
func IsSymbolCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func containsHangul(s string) bool {
	for _, r := range s {
		if r >= 0xAC00 && r <= 0xD7A3 {
			return true
		}
	}
	return false
}
