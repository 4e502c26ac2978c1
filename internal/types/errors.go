package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyQuery is returned by the engine when the input is blank after
// trimming. No remote call is attempted in that case.
var ErrEmptyQuery = errors.New("empty query")

// NotFoundError means no symbol could be derived for the query by any
// strategy, including the foreign-ticker reattempt. It carries the strategies
// that were tried so callers can see what the pipeline actually did.
type NotFoundError struct {
	Query    string
	Attempts []string
}

func (e *NotFoundError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("no symbol found for %q", e.Query)
	}
	return fmt.Sprintf("no symbol found for %q (tried %s)", e.Query, strings.Join(e.Attempts, ", "))
}

// QuoteUnavailableError means the symbol resolved but no upstream yielded a
// live price. Distinct from NotFoundError on purpose: the symbol is real,
// only the data is missing, so the caller can suggest retrying later.
type QuoteUnavailableError struct {
	Symbol  string
	Sources []string
}

func (e *QuoteUnavailableError) Error() string {
	if len(e.Sources) == 0 {
		return fmt.Sprintf("no quote available for %s", e.Symbol)
	}
	return fmt.Sprintf("no quote available for %s (tried %s)", e.Symbol, strings.Join(e.Sources, ", "))
}
