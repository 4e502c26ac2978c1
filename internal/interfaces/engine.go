package interfaces

import (
	"context"

	"stock-quote-service/internal/types"
)

// Resolver maps a classified query to an exchange symbol.
type Resolver interface {
	Resolve(ctx context.Context, q types.ClassifiedQuery) (*types.ResolvedSymbol, error)
}

// QuoteFetcher retrieves a normalized quote for a resolved symbol.
type QuoteFetcher interface {
	Fetch(ctx context.Context, sym *types.ResolvedSymbol) (*types.Quote, error)
}

// Engine is the full lookup pipeline the HTTP layer calls into.
type Engine interface {
	GetStock(ctx context.Context, raw string) (*types.StockResult, error)
}
