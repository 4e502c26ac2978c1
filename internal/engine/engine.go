package engine

import (
	"context"
	"errors"
	"strings"

	"stock-quote-service/internal/classify"
	"stock-quote-service/internal/interfaces"
	"stock-quote-service/internal/logger"
	"stock-quote-service/internal/types"
)

// Engine composes classification, resolution and quote retrieval. It holds
// no per-request state; the only shared mutable state in the pipeline lives
// inside the directory cache behind the resolver.
type Engine struct {
	resolver interfaces.Resolver
	quotes   interfaces.QuoteFetcher
}

// New creates the engine.
func New(resolver interfaces.Resolver, quotes interfaces.QuoteFetcher) *Engine {
	return &Engine{resolver: resolver, quotes: quotes}
}

// GetStock resolves the raw input to a symbol and fetches its quote.
//
// The lookup is an explicit two-attempt sequence: a domestic-hinted query
// that exhausts every domestic strategy is reattempted once as a foreign
// ticker before giving up. This covers Latin-alphabet inputs for domestic
// listings that slipped past every name lookup. Failure taxonomy:
//
//   - types.ErrEmptyQuery: blank input, nothing was attempted
//   - *types.NotFoundError: no symbol by any strategy, either attempt
//   - *types.QuoteUnavailableError: symbol is real, live data is not
func (e *Engine) GetStock(ctx context.Context, raw string) (*types.StockResult, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, types.ErrEmptyQuery
	}

	cq := classify.Classify(text)
	logger.Debug(ctx, "Query classified", "text", text, "market", cq.Market)

	resolved, err := e.resolver.Resolve(ctx, cq)
	if err != nil {
		if cq.Market != types.MarketDomestic {
			return nil, err
		}
		return e.retryAsForeign(ctx, text, err)
	}

	q, err := e.quotes.Fetch(ctx, resolved)
	if err != nil {
		logger.Warn(ctx, "Quote unavailable for resolved symbol",
			"symbol", resolved.Symbol, "strategy", resolved.Strategy, "error", err)
		return nil, err
	}

	return result(resolved, q), nil
}

// retryAsForeign is the second attempt of the lookup state machine. The
// input is taken verbatim as a foreign ticker; if no quote exists for it
// either, the overall outcome is NotFound for the original query, not
// QuoteUnavailable, because the symbol was never confirmed to exist.
func (e *Engine) retryAsForeign(ctx context.Context, text string, domesticErr error) (*types.StockResult, error) {
	logger.Debug(ctx, "Domestic resolution exhausted, retrying as foreign ticker", "query", text)

	resolved, err := e.resolver.Resolve(ctx, types.ClassifiedQuery{Text: text, Market: types.MarketForeign})
	if err != nil {
		return nil, notFound(text, domesticErr, "foreign")
	}

	q, err := e.quotes.Fetch(ctx, resolved)
	if err != nil {
		return nil, notFound(text, domesticErr, "foreign-quote")
	}

	return result(resolved, q), nil
}

func notFound(query string, domesticErr error, extraAttempt string) error {
	var nf *types.NotFoundError
	attempts := []string{extraAttempt}
	if errors.As(domesticErr, &nf) {
		attempts = append(nf.Attempts, extraAttempt)
	}
	return &types.NotFoundError{Query: query, Attempts: attempts}
}

func result(resolved *types.ResolvedSymbol, q *types.Quote) *types.StockResult {
	return &types.StockResult{
		Name:   resolved.MatchedName,
		Symbol: resolved.Symbol,
		Market: resolved.Market,
		Quote:  q,
	}
}
