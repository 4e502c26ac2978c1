package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-quote-service/internal/directory"
	"stock-quote-service/internal/types"
)

type fakeDirectory struct {
	snap *directory.Snapshot
}

func (f *fakeDirectory) Get(ctx context.Context) *directory.Snapshot {
	return f.snap
}

func dirWith(listings ...directory.Listing) *fakeDirectory {
	return &fakeDirectory{snap: directory.NewSnapshot(listings, time.Now())}
}

type fakeStrategy struct {
	name   string
	code   string
	match  string
	err    error
	called int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Search(ctx context.Context, query string) (string, string, error) {
	f.called++
	return f.match, f.code, f.err
}

func TestResolvePredefinedBeatsEmptyDirectory(t *testing.T) {
	r := New(map[string]string{"삼성전자": "005930"}, dirWith())

	got, err := r.Resolve(context.Background(), types.ClassifiedQuery{Text: "삼성전자", Market: types.MarketDomestic})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Symbol != "005930" {
		t.Errorf("Expected 005930, got %s", got.Symbol)
	}
	if got.Strategy != "predefined" {
		t.Errorf("Expected predefined strategy, got %s", got.Strategy)
	}
	if got.Market != types.MarketDomestic {
		t.Errorf("Expected domestic market, got %s", got.Market)
	}
}

func TestResolvePredefinedForeignAlias(t *testing.T) {
	r := New(map[string]string{"테슬라": "TSLA"}, dirWith())

	got, err := r.Resolve(context.Background(), types.ClassifiedQuery{Text: "테슬라", Market: types.MarketDomestic})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Symbol != "TSLA" || got.Market != types.MarketForeign {
		t.Errorf("Expected TSLA/foreign, got %s/%s", got.Symbol, got.Market)
	}
}

func TestResolveCodePassthrough(t *testing.T) {
	r := New(nil, dirWith())

	got, err := r.Resolve(context.Background(), types.ClassifiedQuery{Text: "000660", Market: types.MarketDomestic})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Symbol != "000660" || got.Strategy != "code" {
		t.Errorf("Expected code passthrough, got %+v", got)
	}
}

func TestResolveDirectoryExactCaseInsensitive(t *testing.T) {
	r := New(nil, dirWith(directory.Listing{Name: "LS ELECTRIC", Code: "010120"}))

	for _, query := range []string{"LS ELECTRIC", "ls electric"} {
		got, err := r.Resolve(context.Background(), types.ClassifiedQuery{Text: query, Market: types.MarketDomestic})
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", query, err)
		}
		if got.Symbol != "010120" {
			t.Errorf("Resolve(%q) = %s, want 010120", query, got.Symbol)
		}
	}
}

func TestResolveDirectoryPartial(t *testing.T) {
	r := New(nil, dirWith(
		directory.Listing{Name: "삼성전자", Code: "005930"},
		directory.Listing{Name: "삼성전자우", Code: "005935"},
	))

	// Query contained in a name.
	got, err := r.Resolve(context.Background(), types.ClassifiedQuery{Text: "삼성전", Market: types.MarketDomestic})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Strategy != "directory-partial" {
		t.Errorf("Expected partial match, got %s", got.Strategy)
	}
	// Sorted snapshot order makes the shorter name win deterministically.
	if got.Symbol != "005930" {
		t.Errorf("Expected 005930 from stable iteration order, got %s", got.Symbol)
	}

	// Name contained in the query.
	got, err = r.Resolve(context.Background(), types.ClassifiedQuery{Text: "삼성전자 주식", Market: types.MarketDomestic})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Symbol != "005930" {
		t.Errorf("Expected 005930, got %s", got.Symbol)
	}
}

func TestResolvePartialIsDeterministic(t *testing.T) {
	dir := dirWith(
		directory.Listing{Name: "한화시스템", Code: "272210"},
		directory.Listing{Name: "한화솔루션", Code: "009830"},
	)
	r := New(nil, dir)

	var first string
	for i := 0; i < 5; i++ {
		got, err := r.Resolve(context.Background(), types.ClassifiedQuery{Text: "한화", Market: types.MarketDomestic})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if first == "" {
			first = got.Symbol
		} else if got.Symbol != first {
			t.Fatalf("Partial match order unstable: %s then %s", first, got.Symbol)
		}
	}
}

func TestResolveRemoteFallbackOrder(t *testing.T) {
	miss := &fakeStrategy{name: "search-redirect"}
	fail := &fakeStrategy{name: "search-page", err: errors.New("timeout")}
	invalid := &fakeStrategy{name: "search-api", code: "12AB56", match: "junk"}
	hit := &fakeStrategy{name: "autocomplete", code: "035720", match: "카카오"}

	r := New(nil, dirWith(), miss, fail, invalid, hit)

	got, err := r.Resolve(context.Background(), types.ClassifiedQuery{Text: "카카오", Market: types.MarketDomestic})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Symbol != "035720" || got.Strategy != "autocomplete" {
		t.Errorf("Expected autocomplete hit, got %+v", got)
	}
	for _, s := range []*fakeStrategy{miss, fail, invalid, hit} {
		if s.called != 1 {
			t.Errorf("Expected strategy %s to be tried once, got %d", s.name, s.called)
		}
	}
}

func TestResolveNotFoundCarriesAttempts(t *testing.T) {
	s := &fakeStrategy{name: "search-redirect"}
	r := New(nil, dirWith(), s)

	_, err := r.Resolve(context.Background(), types.ClassifiedQuery{Text: "없는회사", Market: types.MarketDomestic})
	var nf *types.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
	if nf.Query != "없는회사" {
		t.Errorf("Expected query in error, got %q", nf.Query)
	}
	if len(nf.Attempts) != 4 {
		t.Errorf("Expected 4 recorded attempts, got %v", nf.Attempts)
	}
}

func TestResolveForeignPassthrough(t *testing.T) {
	r := New(nil, dirWith())

	got, err := r.Resolve(context.Background(), types.ClassifiedQuery{Text: "aapl", Market: types.MarketForeign})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Symbol != "AAPL" || got.Market != types.MarketForeign {
		t.Errorf("Expected upper-cased ticker passthrough, got %+v", got)
	}
}
