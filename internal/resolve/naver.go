package resolve

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"stock-quote-service/internal/api"
	"stock-quote-service/internal/classify"
)

const searchListPath = "/search/searchList.naver?query="

// RedirectProbe issues a search request without following redirects. When
// the query matches exactly one listing the search endpoint answers with a
// redirect straight to the per-symbol page; the code is in the landing URL.
type RedirectProbe struct {
	client  *api.Client
	baseURL string
}

// NewRedirectProbe creates the probe. The client must be built with
// api.WithoutRedirects so the 3xx response is observable.
func NewRedirectProbe(client *api.Client, baseURL string) *RedirectProbe {
	return &RedirectProbe{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (p *RedirectProbe) Name() string { return "search-redirect" }

func (p *RedirectProbe) Search(ctx context.Context, query string) (string, string, error) {
	resp, err := p.client.GET(ctx, p.baseURL+searchListPath+eucKRQuery(query), api.BrowserHeaders())
	if err != nil {
		return "", "", err
	}
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return "", "", nil
	}
	code := extractCodeParam(resp.Headers.Get("Location"))
	if !classify.IsSymbolCode(code) {
		return "", "", nil
	}
	return query, code, nil
}

// ResultsPageScraper parses the first row of the HTML search-results
// listing. Used when the redirect probe lands on a multi-result page.
type ResultsPageScraper struct {
	baseURL string
	timeout time.Duration
}

func NewResultsPageScraper(baseURL string, timeout time.Duration) *ResultsPageScraper {
	return &ResultsPageScraper{baseURL: strings.TrimSuffix(baseURL, "/"), timeout: timeout}
}

func (s *ResultsPageScraper) Name() string { return "search-page" }

func (s *ResultsPageScraper) Search(ctx context.Context, query string) (string, string, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(s.baseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range api.BrowserHeaders() {
			r.Headers.Set(k, v)
		}
	})

	var foundName, foundCode string
	c.OnHTML(".search_result td.tit a, .search_result dd a", func(e *colly.HTMLElement) {
		if foundCode != "" {
			return // first result row wins
		}
		code := extractCodeParam(e.Attr("href"))
		if classify.IsSymbolCode(code) {
			foundCode = code
			foundName = strings.TrimSpace(e.Text)
		}
	})

	if err := c.Visit(s.baseURL + searchListPath + eucKRQuery(query)); err != nil {
		return "", "", err
	}
	c.Wait()
	return foundName, foundCode, nil
}

// JSONSearch queries the structured search API and takes the first item.
type JSONSearch struct {
	client  *api.Client
	baseURL string
}

func NewJSONSearch(client *api.Client, baseURL string) *JSONSearch {
	return &JSONSearch{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *JSONSearch) Name() string { return "search-api" }

func (s *JSONSearch) Search(ctx context.Context, query string) (string, string, error) {
	resp, err := s.client.GET(ctx, s.baseURL+"/api/search/all?keyword="+url.QueryEscape(query), api.NaverHeaders())
	if err != nil {
		return "", "", err
	}

	var payload struct {
		Items []struct {
			Code string `json:"itemCode"`
			Name string `json:"stockName"`
		} `json:"items"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return "", "", err
	}
	if len(payload.Items) == 0 {
		return "", "", nil
	}
	first := payload.Items[0]
	return first.Name, first.Code, nil
}

// Autocomplete calls the suggestion endpoint, which answers with
// pipe-delimited lines of the form "name|code|market".
type Autocomplete struct {
	client  *api.Client
	baseURL string
}

func NewAutocomplete(client *api.Client, baseURL string) *Autocomplete {
	return &Autocomplete{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *Autocomplete) Name() string { return "autocomplete" }

func (s *Autocomplete) Search(ctx context.Context, query string) (string, string, error) {
	resp, err := s.client.GET(ctx, s.baseURL+"/ac?q="+url.QueryEscape(query)+"&target=stock", api.NaverHeaders())
	if err != nil {
		return "", "", err
	}

	for _, line := range strings.Split(resp.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			continue
		}
		for _, f := range fields[1:] {
			f = strings.TrimSpace(f)
			if classify.IsSymbolCode(f) {
				return strings.TrimSpace(fields[0]), f, nil
			}
		}
	}
	return "", "", nil
}

// extractCodeParam pulls the code query parameter out of a per-symbol URL.
func extractCodeParam(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if u, err := url.Parse(rawURL); err == nil {
		if code := u.Query().Get("code"); code != "" {
			return code
		}
	}
	// Upstream sometimes emits hrefs that do not parse cleanly.
	if i := strings.LastIndex(rawURL, "code="); i >= 0 {
		code := rawURL[i+len("code="):]
		if j := strings.IndexAny(code, "&#"); j >= 0 {
			code = code[:j]
		}
		return code
	}
	return ""
}

// eucKRQuery escapes a query for the legacy search endpoint, which expects
// EUC-KR percent-encoding rather than UTF-8.
func eucKRQuery(s string) string {
	encoded, _, err := transform.String(korean.EUCKR.NewEncoder(), s)
	if err != nil {
		encoded = s
	}
	return url.QueryEscape(encoded)
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
