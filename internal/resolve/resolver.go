package resolve

import (
	"context"
	"strings"

	"stock-quote-service/internal/classify"
	"stock-quote-service/internal/directory"
	"stock-quote-service/internal/logger"
	"stock-quote-service/internal/types"
)

// Directory is the snapshot provider the resolver reads from.
type Directory interface {
	Get(ctx context.Context) *directory.Snapshot
}

// SearchStrategy is one remote lookup for a free-text query. A nil error
// with empty results means "this strategy found nothing"; an error is only
// diagnostic and is treated the same way by the resolver.
type SearchStrategy interface {
	Name() string
	Search(ctx context.Context, query string) (name, code string, err error)
}

// Resolver maps a classified query to an exchange symbol by trying ordered
// strategies: predefined aliases, the directory snapshot (exact then
// partial), then the remote search chain. Foreign-hinted queries skip all of
// it; the upper-cased ticker is the symbol.
type Resolver struct {
	aliases    map[string]string
	dir        Directory
	strategies []SearchStrategy
}

// New creates a resolver. Alias keys are matched case-insensitively.
func New(aliases map[string]string, dir Directory, strategies ...SearchStrategy) *Resolver {
	normalized := make(map[string]string, len(aliases))
	for name, symbol := range aliases {
		normalized[strings.ToUpper(strings.TrimSpace(name))] = strings.TrimSpace(symbol)
	}
	return &Resolver{aliases: normalized, dir: dir, strategies: strategies}
}

// Resolve returns the first symbol any strategy finds, or a NotFoundError
// listing everything that was tried.
func (r *Resolver) Resolve(ctx context.Context, q types.ClassifiedQuery) (*types.ResolvedSymbol, error) {
	if q.Market == types.MarketForeign {
		ticker := strings.ToUpper(q.Text)
		return &types.ResolvedSymbol{
			Symbol:      ticker,
			Market:      types.MarketForeign,
			MatchedName: ticker,
			Strategy:    "ticker-passthrough",
		}, nil
	}

	var attempts []string

	// Hand-maintained aliases come first: O(1), and they hard-override
	// lookups that would otherwise misresolve. An alias may map to a
	// foreign ticker (a Korean nickname for an overseas listing).
	attempts = append(attempts, "predefined")
	if symbol, ok := r.aliases[strings.ToUpper(q.Text)]; ok {
		return resolved(symbol, q.Text, "predefined"), nil
	}

	// A six-digit input is already a symbol code, not a name.
	if classify.IsSymbolCode(q.Text) {
		return resolved(q.Text, q.Text, "code"), nil
	}

	snap := r.dir.Get(ctx)

	attempts = append(attempts, "directory-exact")
	for _, variant := range []string{q.Text, strings.ToUpper(q.Text), strings.ToLower(q.Text)} {
		if code, ok := snap.Lookup(variant); ok {
			return resolved(code, q.Text, "directory-exact"), nil
		}
	}

	attempts = append(attempts, "directory-partial")
	if name, code, ok := partialMatch(snap, q.Text); ok {
		return resolved(code, name, "directory-partial"), nil
	}

	for _, strategy := range r.strategies {
		attempts = append(attempts, strategy.Name())
		name, code, err := strategy.Search(ctx, q.Text)
		if err != nil {
			logger.Warn(ctx, "Search strategy failed", "strategy", strategy.Name(), "query", q.Text, "error", err)
			continue
		}
		if !classify.IsSymbolCode(code) {
			continue // invalid extraction counts as "found nothing"
		}
		if name == "" {
			name = q.Text
		}
		return resolved(code, name, strategy.Name()), nil
	}

	return nil, &types.NotFoundError{Query: q.Text, Attempts: attempts}
}

// partialMatch scans the snapshot for a substring relationship in either
// direction. The snapshot's name order is sorted, so the first hit is stable
// across calls.
func partialMatch(snap *directory.Snapshot, text string) (name, code string, ok bool) {
	forms := []string{text, strings.ToUpper(text), strings.ToLower(text)}
	for _, candidate := range snap.Names() {
		for _, form := range forms {
			if form == "" {
				continue
			}
			if strings.Contains(candidate, form) || strings.Contains(form, candidate) {
				c, _ := snap.Lookup(candidate)
				return candidate, c, true
			}
		}
	}
	return "", "", false
}

func resolved(symbol, matched, strategy string) *types.ResolvedSymbol {
	market := types.MarketForeign
	if classify.IsSymbolCode(symbol) {
		market = types.MarketDomestic
	}
	return &types.ResolvedSymbol{
		Symbol:      symbol,
		Market:      market,
		MatchedName: matched,
		Strategy:    strategy,
	}
}
