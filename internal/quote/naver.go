package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"stock-quote-service/internal/api"
	"stock-quote-service/internal/types"
)

// Query types for the realtime polling endpoint. Upstream exposes two
// slightly different feeds behind the same URL; not every symbol is
// populated in both, hence the two chain entries.
const (
	QueryTypeItem       = "SERVICE_ITEM"
	QueryTypeRecentItem = "SERVICE_RECENT_ITEM"
)

// RealtimeSource polls the realtime quote feed for a domestic symbol.
type RealtimeSource struct {
	client    *api.Client
	baseURL   string
	queryType string
}

// NewRealtimeSource creates a realtime polling source for one query type.
func NewRealtimeSource(client *api.Client, baseURL, queryType string) *RealtimeSource {
	return &RealtimeSource{
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		queryType: queryType,
	}
}

func (s *RealtimeSource) Name() string {
	return "realtime:" + strings.ToLower(s.queryType)
}

// realtimeData mirrors the documented field names of the polling payload.
type realtimeData struct {
	Now       json.Number `json:"now"`
	Diff      json.Number `json:"diff"`
	Rate      json.Number `json:"rate"`
	AccVolume json.Number `json:"accVolume"`
	Open      json.Number `json:"open"`
	High      json.Number `json:"high"`
	Low       json.Number `json:"low"`
	PrevClose json.Number `json:"prevClose"`
}

type realtimePayload struct {
	Result struct {
		Areas []struct {
			Datas []realtimeData `json:"datas"`
		} `json:"areas"`
	} `json:"result"`
}

func (s *RealtimeSource) Fetch(ctx context.Context, symbol string) (*types.Quote, error) {
	url := fmt.Sprintf("%s/api/realtime?query=%s:%s", s.baseURL, s.queryType, symbol)
	resp, err := s.client.GET(ctx, url, api.NaverHeaders())
	if err != nil {
		return nil, err
	}

	var payload realtimePayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("malformed realtime payload: %w", err)
	}

	for _, area := range payload.Result.Areas {
		for _, d := range area.Datas {
			if q := normalizeRealtime(d); q != nil {
				return q, nil
			}
		}
	}
	return nil, nil
}

// normalizeRealtime maps one realtime record into the canonical quote.
// A record without a parseable current price yields nil, which advances the
// fallback chain. Other missing fields normalize to zero. The rate field is
// already a percentage upstream and is passed through undivided.
func normalizeRealtime(d realtimeData) *types.Quote {
	now, ok := parseNumber(string(d.Now))
	if !ok {
		return nil
	}

	q := &types.Quote{
		CurrentPrice: groupThousands(now),
		ChangeAmount: "0",
		Volume:       "0",
	}
	if diff, ok := parseNumber(string(d.Diff)); ok {
		q.ChangeAmount = groupThousands(diff)
	}
	if rate, ok := parseNumber(string(d.Rate)); ok {
		q.ChangeRate = rate.InexactFloat64()
	}
	if vol, ok := parseNumber(string(d.AccVolume)); ok {
		q.Volume = groupThousands(vol)
	}

	extra := map[string]string{}
	for key, num := range map[string]json.Number{
		"open":       d.Open,
		"high":       d.High,
		"low":        d.Low,
		"prev_close": d.PrevClose,
	} {
		if v, ok := parseNumber(string(num)); ok {
			extra[key] = groupThousands(v)
		}
	}
	if len(extra) > 0 {
		q.Extra = extra
	}
	return q
}

// PageSource scrapes the per-symbol quote page as the last domestic
// fallback. Only the current price is reliably present in the markup; the
// remaining fields stay at their zero sentinels.
type PageSource struct {
	client  *api.Client
	baseURL string
}

func NewPageSource(client *api.Client, baseURL string) *PageSource {
	return &PageSource{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *PageSource) Name() string { return "quote-page" }

func (s *PageSource) Fetch(ctx context.Context, symbol string) (*types.Quote, error) {
	resp, err := s.client.GET(ctx, s.baseURL+"/item/main.naver?code="+symbol, api.BrowserHeaders())
	if err != nil {
		return nil, err
	}

	// The legacy quote pages are served as EUC-KR.
	utf8Reader := transform.NewReader(bytes.NewReader(resp.Body), korean.EUCKR.NewDecoder())
	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("malformed quote page: %w", err)
	}

	price, ok := parseNumber(doc.Find(".no_today .blind").First().Text())
	if !ok {
		return nil, nil
	}

	return &types.Quote{
		CurrentPrice: groupThousands(price),
		ChangeAmount: "0",
		Volume:       "0",
	}, nil
}
