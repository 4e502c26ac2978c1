package engine

import (
	"context"
	"errors"
	"testing"

	"stock-quote-service/internal/types"
)

type fakeResolver struct {
	calls   []types.ClassifiedQuery
	resolve func(types.ClassifiedQuery) (*types.ResolvedSymbol, error)
}

func (f *fakeResolver) Resolve(ctx context.Context, q types.ClassifiedQuery) (*types.ResolvedSymbol, error) {
	f.calls = append(f.calls, q)
	return f.resolve(q)
}

type fakeFetcher struct {
	calls []string
	fetch func(*types.ResolvedSymbol) (*types.Quote, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context, sym *types.ResolvedSymbol) (*types.Quote, error) {
	f.calls = append(f.calls, sym.Symbol)
	return f.fetch(sym)
}

func samsung() *types.ResolvedSymbol {
	return &types.ResolvedSymbol{Symbol: "005930", Market: types.MarketDomestic, MatchedName: "삼성전자", Strategy: "predefined"}
}

func samsungQuote() *types.Quote {
	return &types.Quote{CurrentPrice: "71,500", ChangeAmount: "500", ChangeRate: 0.7, Volume: "12,345,678", Source: "realtime:service_item"}
}

func TestGetStockDomestic(t *testing.T) {
	resolver := &fakeResolver{resolve: func(q types.ClassifiedQuery) (*types.ResolvedSymbol, error) {
		return samsung(), nil
	}}
	fetcher := &fakeFetcher{fetch: func(*types.ResolvedSymbol) (*types.Quote, error) {
		return samsungQuote(), nil
	}}
	e := New(resolver, fetcher)

	got, err := e.GetStock(context.Background(), " 삼성전자 ")
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if got.Name != "삼성전자" || got.Symbol != "005930" || got.Market != types.MarketDomestic {
		t.Errorf("Unexpected result: %+v", got)
	}
	if got.Quote.CurrentPrice != "71,500" {
		t.Errorf("Unexpected quote: %+v", got.Quote)
	}
	if len(resolver.calls) != 1 {
		t.Fatalf("Expected 1 resolve call, got %d", len(resolver.calls))
	}
	if resolver.calls[0].Text != "삼성전자" {
		t.Errorf("Expected trimmed query, got %q", resolver.calls[0].Text)
	}
	if resolver.calls[0].Market != types.MarketDomestic {
		t.Errorf("Expected domestic classification, got %s", resolver.calls[0].Market)
	}
}

func TestGetStockForeignTicker(t *testing.T) {
	resolver := &fakeResolver{resolve: func(q types.ClassifiedQuery) (*types.ResolvedSymbol, error) {
		if q.Market != types.MarketForeign {
			t.Errorf("Expected foreign classification for AAPL, got %s", q.Market)
		}
		return &types.ResolvedSymbol{Symbol: "AAPL", Market: types.MarketForeign, MatchedName: "AAPL", Strategy: "ticker-passthrough"}, nil
	}}
	fetcher := &fakeFetcher{fetch: func(*types.ResolvedSymbol) (*types.Quote, error) {
		return &types.Quote{CurrentPrice: "190.12", Source: "yahoo-chart"}, nil
	}}
	e := New(resolver, fetcher)

	got, err := e.GetStock(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if got.Symbol != "AAPL" || got.Market != types.MarketForeign {
		t.Errorf("Unexpected result: %+v", got)
	}
}

func TestGetStockEmptyQuery(t *testing.T) {
	resolver := &fakeResolver{resolve: func(types.ClassifiedQuery) (*types.ResolvedSymbol, error) {
		return samsung(), nil
	}}
	fetcher := &fakeFetcher{fetch: func(*types.ResolvedSymbol) (*types.Quote, error) {
		return samsungQuote(), nil
	}}
	e := New(resolver, fetcher)

	for _, raw := range []string{"", "   "} {
		_, err := e.GetStock(context.Background(), raw)
		if !errors.Is(err, types.ErrEmptyQuery) {
			t.Errorf("GetStock(%q) error = %v, want ErrEmptyQuery", raw, err)
		}
	}
	if len(resolver.calls) != 0 || len(fetcher.calls) != 0 {
		t.Error("Expected no pipeline calls for blank input")
	}
}

func TestGetStockRetriesDomesticAsForeign(t *testing.T) {
	resolver := &fakeResolver{resolve: func(q types.ClassifiedQuery) (*types.ResolvedSymbol, error) {
		if q.Market == types.MarketDomestic {
			return nil, &types.NotFoundError{Query: q.Text, Attempts: []string{"predefined", "directory-exact"}}
		}
		return &types.ResolvedSymbol{Symbol: "PLTR", Market: types.MarketForeign, MatchedName: "PLTR", Strategy: "ticker-passthrough"}, nil
	}}
	fetcher := &fakeFetcher{fetch: func(*types.ResolvedSymbol) (*types.Quote, error) {
		return &types.Quote{CurrentPrice: "24.50", Source: "yahoo-chart"}, nil
	}}
	e := New(resolver, fetcher)

	// Hangul-free input classifies as foreign; force the domestic path with a
	// resolver that sees the engine's own classification.
	got, err := e.GetStock(context.Background(), "팔란티어")
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if got.Symbol != "PLTR" || got.Market != types.MarketForeign {
		t.Errorf("Unexpected result after foreign retry: %+v", got)
	}
	if len(resolver.calls) != 2 {
		t.Fatalf("Expected 2 resolve attempts, got %d", len(resolver.calls))
	}
	if resolver.calls[0].Market != types.MarketDomestic || resolver.calls[1].Market != types.MarketForeign {
		t.Errorf("Unexpected attempt markets: %+v", resolver.calls)
	}
}

func TestGetStockRetryQuoteFailureIsNotFound(t *testing.T) {
	resolver := &fakeResolver{resolve: func(q types.ClassifiedQuery) (*types.ResolvedSymbol, error) {
		if q.Market == types.MarketDomestic {
			return nil, &types.NotFoundError{Query: q.Text, Attempts: []string{"predefined", "directory-exact", "directory-partial"}}
		}
		return &types.ResolvedSymbol{Symbol: "없는회사", Market: types.MarketForeign, MatchedName: "없는회사", Strategy: "ticker-passthrough"}, nil
	}}
	fetcher := &fakeFetcher{fetch: func(sym *types.ResolvedSymbol) (*types.Quote, error) {
		return nil, &types.QuoteUnavailableError{Symbol: sym.Symbol, Sources: []string{"yahoo-chart"}}
	}}
	e := New(resolver, fetcher)

	_, err := e.GetStock(context.Background(), "없는회사")
	var nf *types.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError for unconfirmed symbol, got %v", err)
	}
	var qe *types.QuoteUnavailableError
	if errors.As(err, &qe) {
		t.Error("Retry-path quote failure must not surface as QuoteUnavailableError")
	}
	if nf.Attempts[len(nf.Attempts)-1] != "foreign-quote" {
		t.Errorf("Expected foreign-quote recorded last, got %v", nf.Attempts)
	}
	if len(nf.Attempts) != 4 {
		t.Errorf("Expected domestic attempts carried over, got %v", nf.Attempts)
	}
}

func TestGetStockQuoteUnavailableForConfirmedSymbol(t *testing.T) {
	resolver := &fakeResolver{resolve: func(types.ClassifiedQuery) (*types.ResolvedSymbol, error) {
		return samsung(), nil
	}}
	fetcher := &fakeFetcher{fetch: func(sym *types.ResolvedSymbol) (*types.Quote, error) {
		return nil, &types.QuoteUnavailableError{Symbol: sym.Symbol, Sources: []string{"realtime:service_item", "quote-page"}}
	}}
	e := New(resolver, fetcher)

	_, err := e.GetStock(context.Background(), "삼성전자")
	var qe *types.QuoteUnavailableError
	if !errors.As(err, &qe) {
		t.Fatalf("Expected QuoteUnavailableError, got %v", err)
	}
	if qe.Symbol != "005930" {
		t.Errorf("Expected resolved symbol in error, got %q", qe.Symbol)
	}
}

func TestGetStockForeignFailureIsNotRetried(t *testing.T) {
	resolveErr := &types.NotFoundError{Query: "ZZZZ", Attempts: []string{"ticker-passthrough"}}
	resolver := &fakeResolver{resolve: func(q types.ClassifiedQuery) (*types.ResolvedSymbol, error) {
		return nil, resolveErr
	}}
	fetcher := &fakeFetcher{fetch: func(*types.ResolvedSymbol) (*types.Quote, error) {
		return samsungQuote(), nil
	}}
	e := New(resolver, fetcher)

	_, err := e.GetStock(context.Background(), "ZZZZ")
	if !errors.Is(err, resolveErr) {
		t.Fatalf("Expected resolver error passed through, got %v", err)
	}
	if len(resolver.calls) != 1 {
		t.Errorf("Expected a single attempt for a foreign-classified query, got %d", len(resolver.calls))
	}
}
