package quote

import (
	"context"

	"stock-quote-service/internal/logger"
	"stock-quote-service/internal/types"
)

// Source is one upstream quote endpoint. A nil quote (or one without a
// current price) with a nil error means the source had nothing usable;
// errors are diagnostic and treated the same way by the driver.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (*types.Quote, error)
}

// Fetcher runs the ordered fallback chain for a resolved symbol's market.
// There is exactly one driver for both markets; the chains differ only in
// their sources. No step is retried: each step is a different upstream
// surface, and retrying a failing one wastes the request's latency budget.
type Fetcher struct {
	domestic []Source
	foreign  []Source
}

// NewFetcher creates a quote fetcher with per-market source chains.
func NewFetcher(domestic, foreign []Source) *Fetcher {
	return &Fetcher{domestic: domestic, foreign: foreign}
}

// Fetch tries the market's sources in order until one yields a quote with a
// current price. Exhaustion produces a QuoteUnavailableError listing the
// sources that were tried.
func (f *Fetcher) Fetch(ctx context.Context, sym *types.ResolvedSymbol) (*types.Quote, error) {
	chain := f.domestic
	if sym.Market == types.MarketForeign {
		chain = f.foreign
	}

	var tried []string
	for _, src := range chain {
		tried = append(tried, src.Name())

		q, err := src.Fetch(ctx, sym.Symbol)
		if err != nil {
			logger.Warn(ctx, "Quote source produced nothing", "source", src.Name(), "symbol", sym.Symbol, "error", err)
			continue
		}
		if q == nil || q.CurrentPrice == "" {
			continue
		}

		q.Source = src.Name()
		logger.Debug(ctx, "Quote fetched", "source", src.Name(), "symbol", sym.Symbol, "price", q.CurrentPrice)
		return q, nil
	}

	return nil, &types.QuoteUnavailableError{Symbol: sym.Symbol, Sources: tried}
}
