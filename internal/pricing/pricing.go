// Package pricing estimates the market value of an item from a chain of
// sources: a shared cache, the AI provider, then a scraped listings page.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"soravault/internal/models"
)

var ErrNoEstimate = errors.New("pricing: no estimate available")

type Estimate struct {
	Value     float64   `json:"value"`
	Low       float64   `json:"low"`
	High      float64   `json:"high"`
	Currency  string    `json:"currency"`
	Source    string    `json:"source"`
	Samples   int       `json:"samples,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	Cached    bool      `json:"cached"`
}

type Provider interface {
	Name() string
	Estimate(ctx context.Context, item models.Item) (Estimate, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (Estimate, bool, error)
	Set(ctx context.Context, key string, est Estimate, ttl time.Duration) error
}

// Chain asks each provider in turn and caches the first answer.
type Chain struct {
	Cache     Cache
	TTL       time.Duration
	Providers []Provider
	Logger    *slog.Logger
}

func CacheKey(item models.Item) string {
	parts := []string{item.Category, item.Brand, item.Model}
	if item.Reference != nil {
		parts = append(parts, *item.Reference)
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return "price:" + strings.Join(parts, "|")
}

func (c *Chain) Estimate(ctx context.Context, item models.Item) (Estimate, error) {
	key := CacheKey(item)
	if c.Cache != nil {
		est, ok, err := c.Cache.Get(ctx, key)
		if err != nil {
			c.logger().Warn("price cache read failed", "key", key, "error", err)
		} else if ok {
			est.Cached = true
			return est, nil
		}
	}

	var errs []error
	for _, p := range c.Providers {
		est, err := p.Estimate(ctx, item)
		if err != nil {
			if errors.Is(err, models.ErrRateLimited) {
				return Estimate{}, err
			}
			c.logger().Info("price provider failed", "provider", p.Name(), "item", item.ID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if est.FetchedAt.IsZero() {
			est.FetchedAt = time.Now()
		}
		if c.Cache != nil {
			if err := c.Cache.Set(ctx, key, est, c.TTL); err != nil {
				c.logger().Warn("price cache write failed", "key", key, "error", err)
			}
		}
		return est, nil
	}

	if len(errs) == 0 {
		return Estimate{}, ErrNoEstimate
	}
	return Estimate{}, fmt.Errorf("%w: %w", ErrNoEstimate, errors.Join(errs...))
}

func (c *Chain) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
