package directory

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"stock-quote-service/internal/api"
)

const krxListingPath = "/corpgeneral/corpList.do?method=download&searchType=13"

// KRXClient fetches the full listed-corporation table from the KRX KIND
// download endpoint. The payload is an EUC-KR encoded HTML table with the
// company name in the first column and the numeric code in the second.
type KRXClient struct {
	client  *api.Client
	baseURL string
}

// NewKRXClient creates a KRX listing fetcher. baseURL overrides the KIND
// host, mainly for tests.
func NewKRXClient(client *api.Client, baseURL string) *KRXClient {
	if baseURL == "" {
		baseURL = "https://kind.krx.co.kr"
	}
	return &KRXClient{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// FetchListings downloads and parses the corporation list.
func (k *KRXClient) FetchListings(ctx context.Context) ([]Listing, error) {
	resp, err := k.client.GET(ctx, k.baseURL+krxListingPath, api.BrowserHeaders())
	if err != nil {
		return nil, fmt.Errorf("failed to download KRX listing: %w", err)
	}

	utf8Reader := transform.NewReader(bytes.NewReader(resp.Body), korean.EUCKR.NewDecoder())
	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KRX listing: %w", err)
	}

	var listings []Listing
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return // header or malformed row
		}
		name := strings.TrimSpace(cells.Eq(0).Text())
		code := normalizeCode(strings.TrimSpace(cells.Eq(1).Text()))
		if name == "" || code == "" {
			return
		}
		listings = append(listings, Listing{Name: name, Code: code})
	})

	if len(listings) == 0 {
		return nil, fmt.Errorf("KRX listing contained no rows")
	}
	return listings, nil
}

// normalizeCode left-pads short numeric codes to the 6-digit form the quote
// endpoints expect; the download drops leading zeros for some rows.
func normalizeCode(raw string) string {
	if raw == "" || len(raw) > 6 {
		return ""
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return ""
		}
	}
	return strings.Repeat("0", 6-len(raw)) + raw
}
