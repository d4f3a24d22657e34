package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"soravault/internal/models"
)

var priceRe = regexp.MustCompile(`\d[\d,.\s]*`)

// ScrapeProvider reads listing prices from a search results page. URLTemplate
// contains "{query}" which is replaced by the escaped item name; Selector
// picks the elements whose text holds a price.
type ScrapeProvider struct {
	HTTPClient  *http.Client
	URLTemplate string
	Selector    string
}

func (p *ScrapeProvider) Name() string { return models.PriceSourceScrape }

func (p *ScrapeProvider) Estimate(ctx context.Context, item models.Item) (Estimate, error) {
	if p.URLTemplate == "" {
		return Estimate{}, ErrNoEstimate
	}
	target := strings.ReplaceAll(p.URLTemplate, "{query}", url.QueryEscape(item.DisplayName()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Estimate{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "soravault-pricing/1.0")

	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	res, err := client.Do(req)
	if err != nil {
		return Estimate{}, fmt.Errorf("failed to fetch listings: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Estimate{}, fmt.Errorf("unexpected status code: %d %s", res.StatusCode, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return Estimate{}, fmt.Errorf("failed to parse listings: %w", err)
	}

	var prices []float64
	doc.Find(p.Selector).Each(func(_ int, s *goquery.Selection) {
		if v, ok := ParsePrice(s.Text()); ok {
			prices = append(prices, v)
		}
	})
	if len(prices) == 0 {
		return Estimate{}, ErrNoEstimate
	}

	sort.Float64s(prices)
	return Estimate{
		Value:     median(prices),
		Low:       prices[0],
		High:      prices[len(prices)-1],
		Currency:  "USD",
		Source:    models.PriceSourceScrape,
		Samples:   len(prices),
		FetchedAt: time.Now(),
	}, nil
}

// ParsePrice extracts the first number from text such as "$12,450.00".
func ParsePrice(text string) (float64, bool) {
	m := priceRe.FindString(text)
	if m == "" {
		return 0, false
	}
	m = strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(m))
	v, err := strconv.ParseFloat(strings.TrimRight(m, "."), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
