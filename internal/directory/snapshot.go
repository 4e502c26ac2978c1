package directory

import (
	"sort"
	"strings"
	"time"

	"stock-quote-service/internal/classify"
)

// Listing is one row of the upstream corporation list.
type Listing struct {
	Name string
	Code string
}

// Snapshot is a point-in-time copy of the full name -> symbol-code table.
// It is immutable once built; the cache swaps whole snapshots on refresh so
// readers never observe a partially written table.
//
// Each company is indexed under three key variants: the literal name, the
// upper-cased form and the lower-cased form. Upstream comparisons are
// case-sensitive ASCII comparisons, so Latin-alphabet names ("LS ELECTRIC")
// need the variants; Hangul names are unaffected.
type Snapshot struct {
	entries   map[string]string
	names     []string // sorted, for deterministic partial-match scans
	fetchedAt time.Time
}

// NewSnapshot builds an immutable snapshot from upstream listings.
func NewSnapshot(listings []Listing, fetchedAt time.Time) *Snapshot {
	entries := make(map[string]string, len(listings)*3)
	for _, l := range listings {
		name := strings.TrimSpace(l.Name)
		if name == "" || !classify.IsSymbolCode(l.Code) {
			continue
		}
		entries[name] = l.Code
		entries[strings.ToUpper(name)] = l.Code
		entries[strings.ToLower(name)] = l.Code
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Snapshot{entries: entries, names: names, fetchedAt: fetchedAt}
}

// Lookup returns the symbol code indexed under the exact name variant.
func (s *Snapshot) Lookup(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	code, ok := s.entries[name]
	return code, ok
}

// Names returns the indexed name variants in sorted order. The slice is
// shared; callers must not modify it.
func (s *Snapshot) Names() []string {
	if s == nil {
		return nil
	}
	return s.names
}

// Len returns the number of indexed name variants.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// FetchedAt returns when the snapshot's data was fetched.
func (s *Snapshot) FetchedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.fetchedAt
}

// expired returns a copy of the snapshot with a zeroed fetch time, keeping
// the data available as a fallback while forcing the next Get to refresh.
func (s *Snapshot) expired() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{entries: s.entries, names: s.names}
}
