package types

// Market identifies which quote pipeline a symbol belongs to.
type Market string

const (
	// MarketDomestic covers KRX listings looked up by name or 6-digit code.
	MarketDomestic Market = "DOMESTIC"
	// MarketForeign covers exchanges where the ticker itself is the symbol.
	MarketForeign Market = "FOREIGN"
)

// ClassifiedQuery is the trimmed user input plus the market it most likely
// belongs to. Produced once per request and never mutated afterwards.
type ClassifiedQuery struct {
	Text   string
	Market Market
}

// ResolvedSymbol is the outcome of one successful resolution strategy.
// Strategy records which strategy matched, for diagnostics.
type ResolvedSymbol struct {
	Symbol      string
	Market      Market
	MatchedName string
	Strategy    string
}

// Quote is the canonical normalized quote record. Prices and volume are
// pre-rendered strings (thousands separators for integer-priced symbols,
// two decimals for fractional ones); ChangeRate is a plain percentage.
// Quotes are built fresh per request and never cached.
type Quote struct {
	CurrentPrice string            `json:"current_price"`
	ChangeAmount string            `json:"change_amount"`
	ChangeRate   float64           `json:"change_rate"`
	Volume       string            `json:"volume"`
	Extra        map[string]string `json:"extra,omitempty"`
	Source       string            `json:"source"`
}

// StockResult is what the engine hands back to the HTTP layer on success.
type StockResult struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Market Market `json:"market"`
	Quote  *Quote `json:"quote"`
}
