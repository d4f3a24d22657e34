package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"soravault/internal/ai"
	"soravault/internal/models"
)

const estimatePrompt = `You are a pre-owned market analyst for watches, sneakers and handbags.
Estimate the current secondary-market price of the described piece.
Reply with a JSON object {"value": number, "low": number, "high": number, "currency": "USD"}.`

type AIProvider struct {
	Client *ai.Client
}

func (p *AIProvider) Name() string { return models.PriceSourceAI }

func (p *AIProvider) Estimate(ctx context.Context, item models.Item) (Estimate, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", item.DisplayName(), item.Category)
	if item.Condition != nil && *item.Condition != "" {
		fmt.Fprintf(&b, ", condition: %s", *item.Condition)
	}

	res, err := p.Client.ChatJSON(ctx, "market_price", estimatePrompt, b.String())
	if err != nil {
		return Estimate{}, err
	}

	value := res.Get("value").Float()
	if value <= 0 {
		return Estimate{}, fmt.Errorf("ai estimate has no positive value")
	}
	est := Estimate{
		Value:     value,
		Low:       res.Get("low").Float(),
		High:      res.Get("high").Float(),
		Currency:  res.Get("currency").String(),
		Source:    models.PriceSourceAI,
		FetchedAt: time.Now(),
	}
	if est.Low <= 0 || est.Low > value {
		est.Low = value
	}
	if est.High < value {
		est.High = value
	}
	if est.Currency == "" {
		est.Currency = "USD"
	}
	return est, nil
}
