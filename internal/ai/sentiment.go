package ai

import (
	"context"
	"math"
)

type Sentiment struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

const sentimentPrompt = `Rate the sentiment of the user's text from -1 (very negative) to 1 (very positive).
Reply with a JSON object {"score": number}.`

func (c *Client) Sentiment(ctx context.Context, text string) (Sentiment, error) {
	res, err := c.ChatJSON(ctx, "sentiment", sentimentPrompt, text)
	if err != nil {
		return Sentiment{}, err
	}
	score := math.Max(-1, math.Min(1, res.Get("score").Float()))
	return Sentiment{Score: score, Label: SentimentLabel(score)}, nil
}

func SentimentLabel(score float64) string {
	switch {
	case score >= 0.25:
		return "positive"
	case score <= -0.25:
		return "negative"
	default:
		return "neutral"
	}
}
