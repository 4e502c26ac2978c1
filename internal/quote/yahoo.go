package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"stock-quote-service/internal/api"
	"stock-quote-service/internal/types"
)

// ChartSource looks up the most recent trading session for a foreign ticker
// via the chart API. The latest close is the current price. This is the
// single system of record for foreign symbols: no session data means the
// fetch fails outright, there is no further fallback.
type ChartSource struct {
	client  *api.Client
	baseURL string
}

func NewChartSource(client *api.Client, baseURL string) *ChartSource {
	return &ChartSource{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *ChartSource) Name() string { return "yahoo-chart" }

type chartPayload struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

func (s *ChartSource) Fetch(ctx context.Context, symbol string) (*types.Quote, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", s.baseURL, url.PathEscape(symbol))
	resp, err := s.client.GET(ctx, reqURL, api.YahooFinanceHeaders())
	if err != nil {
		return nil, err
	}

	var payload chartPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("malformed chart payload: %w", err)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	result := payload.Chart.Result[0]
	var lastClose *float64
	var volume *int64
	for _, q := range result.Indicators.Quote {
		for i := len(q.Close) - 1; i >= 0; i-- {
			if q.Close[i] != nil {
				lastClose = q.Close[i]
				if i < len(q.Volume) {
					volume = q.Volume[i]
				}
				break
			}
		}
		if lastClose != nil {
			break
		}
	}
	if lastClose == nil {
		return nil, fmt.Errorf("no session data for %s", symbol)
	}

	price := decimal.NewFromFloat(*lastClose)
	q := &types.Quote{
		CurrentPrice: fixedTwo(price),
		ChangeAmount: "0",
		Volume:       "0",
	}
	if volume != nil {
		q.Volume = groupThousands(decimal.NewFromInt(*volume))
	}
	if prev := result.Meta.ChartPreviousClose; prev != nil && *prev != 0 {
		prevDec := decimal.NewFromFloat(*prev)
		change := price.Sub(prevDec)
		q.ChangeAmount = fixedTwo(change)
		q.ChangeRate = change.Div(prevDec).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		q.Extra = map[string]string{"prev_close": fixedTwo(prevDec)}
	}
	return q, nil
}
