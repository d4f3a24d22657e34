package ai

import (
	"context"
	"fmt"
	"strings"

	"soravault/internal/models"
)

const referencePrompt = `You describe collectible watches, sneakers and handbags for product photography.
Given a piece, describe its visual appearance in 2-4 sentences: materials, colours, dial or upper details, hardware.
Describe the stock appearance of the reference, not a particular photo.`

// DescribeReference produces a short visual description of the piece that
// the image prompt is built from.
func (c *Client) DescribeReference(ctx context.Context, item models.Item) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s\nBrand: %s\nModel: %s\n", item.Category, item.Brand, item.Model)
	if item.Reference != nil && *item.Reference != "" {
		fmt.Fprintf(&b, "Reference: %s\n", *item.Reference)
	}
	for k, v := range item.Metadata {
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}
	desc, err := c.Chat(ctx, "reference_search", referencePrompt, b.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(desc), nil
}

// ImagePrompt assembles the generation prompt for a studio shot.
func ImagePrompt(item models.Item, description string) string {
	subject := map[string]string{
		models.CategoryWatch:   "wristwatch",
		models.CategorySneaker: "sneaker, side profile",
		models.CategoryPurse:   "handbag",
	}[item.Category]
	if subject == "" {
		subject = "product"
	}
	return fmt.Sprintf(
		"Studio product photograph of a %s: %s. %s Centered, plain white background, soft even lighting, no text, no hands.",
		subject, item.DisplayName(), description)
}
