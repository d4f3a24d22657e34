package pricing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"soravault/internal/models"
)

type memCache struct {
	data map[string]Estimate
	sets int
}

func (m *memCache) Get(_ context.Context, key string) (Estimate, bool, error) {
	est, ok := m.data[key]
	return est, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, est Estimate, _ time.Duration) error {
	m.data[key] = est
	m.sets++
	return nil
}

type stubProvider struct {
	name  string
	est   Estimate
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Estimate(context.Context, models.Item) (Estimate, error) {
	s.calls++
	return s.est, s.err
}

var testItem = models.Item{ID: "i1", Category: "watch", Brand: "Omega", Model: "Speedmaster"}

func TestChainFallsThroughAndCaches(t *testing.T) {
	cache := &memCache{data: map[string]Estimate{}}
	failing := &stubProvider{name: "ai", err: errors.New("bad json")}
	scraper := &stubProvider{name: "scrape", est: Estimate{Value: 5000, Source: "scrape"}}
	chain := &Chain{Cache: cache, Providers: []Provider{failing, scraper}}

	est, err := chain.Estimate(context.Background(), testItem)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if est.Value != 5000 || est.Cached {
		t.Fatalf("unexpected estimate %+v", est)
	}

	est, err = chain.Estimate(context.Background(), testItem)
	if err != nil || !est.Cached {
		t.Fatalf("second call must hit cache: %+v %v", est, err)
	}
	if failing.calls != 1 || scraper.calls != 1 || cache.sets != 1 {
		t.Fatalf("unexpected calls ai=%d scrape=%d sets=%d", failing.calls, scraper.calls, cache.sets)
	}
}

func TestChainStopsOnRateLimit(t *testing.T) {
	limited := &stubProvider{name: "ai", err: models.ErrRateLimited}
	scraper := &stubProvider{name: "scrape", est: Estimate{Value: 1}}
	chain := &Chain{Providers: []Provider{limited, scraper}}

	if _, err := chain.Estimate(context.Background(), testItem); !errors.Is(err, models.ErrRateLimited) {
		t.Fatalf("expected rate limit, got %v", err)
	}
	if scraper.calls != 0 {
		t.Fatalf("scraper must not run after a rate limit")
	}
}

func TestChainAllFail(t *testing.T) {
	chain := &Chain{Providers: []Provider{&stubProvider{name: "a", err: errors.New("x")}}}
	if _, err := chain.Estimate(context.Background(), testItem); !errors.Is(err, ErrNoEstimate) {
		t.Fatalf("expected ErrNoEstimate, got %v", err)
	}
}

func TestScrapeProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Omega Speedmaster" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`<html><body>
			<div class="listing"><span class="price">$5,200</span></div>
			<div class="listing"><span class="price">$4,800.00</span></div>
			<div class="listing"><span class="price">USD 6 100</span></div>
			<div class="listing"><span class="price">call for price</span></div>
		</body></html>`))
	}))
	defer srv.Close()

	p := &ScrapeProvider{URLTemplate: srv.URL + "/search?q={query}", Selector: ".price"}
	est, err := p.Estimate(context.Background(), testItem)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if est.Samples != 3 || est.Value != 5200 || est.Low != 4800 || est.High != 6100 {
		t.Fatalf("unexpected estimate %+v", est)
	}
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{"$12,450.00": 12450, "€ 980": 980, "1.5k": 1.5}
	for in, want := range cases {
		got, ok := ParsePrice(in)
		if !ok || got != want {
			t.Fatalf("%q: got %v %v", in, got, ok)
		}
	}
	if _, ok := ParsePrice("sold out"); ok {
		t.Fatalf("expected no price")
	}
}

func TestCacheKeyNormalises(t *testing.T) {
	ref := " 310.30.42 "
	a := CacheKey(models.Item{Category: "watch", Brand: "OMEGA", Model: "Speedmaster", Reference: &ref})
	b := CacheKey(models.Item{Category: "watch", Brand: "omega", Model: "speedmaster ", Reference: &[]string{"310.30.42"}[0]})
	if a != b {
		t.Fatalf("keys differ: %s vs %s", a, b)
	}
}
