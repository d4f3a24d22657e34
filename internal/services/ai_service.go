package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"soravault/internal/ai"
	"soravault/internal/imaging"
	"soravault/internal/models"
	"soravault/internal/pricing"
	"soravault/internal/realtime"
	"soravault/utils"
)

const (
	generatedImageSize  = "1024x1024"
	normalizedImageSide = 1024
	normalizedMargin    = 0.08
	maxScanBytes        = 8 << 20
	generateAllLimit    = 50
)

// AIClient is the part of the AI client the service calls.
type AIClient interface {
	SentimentScorer
	DescribeReference(ctx context.Context, item models.Item) (string, error)
	GenerateImage(ctx context.Context, prompt, size string) ([]byte, error)
	WarrantyOCR(ctx context.Context, image []byte, mimeType string) (ai.WarrantyInfo, error)
}

type PriceEstimator interface {
	Estimate(ctx context.Context, item models.Item) (pricing.Estimate, error)
}

type AIService struct {
	AI      AIClient
	Prices  PriceEstimator
	Items   ItemStore
	Storage Uploader
	Logger  *slog.Logger
	changes
}

func NewAIService(client AIClient, prices PriceEstimator, items ItemStore, storage Uploader, pub realtime.Publisher, logger *slog.Logger) *AIService {
	return &AIService{
		AI:      client,
		Prices:  prices,
		Items:   items,
		Storage: storage,
		Logger:  logger,
		changes: newChanges(pub, logger),
	}
}

func (s *AIService) requireAI() error {
	if s.AI == nil || !s.AI.Enabled() {
		return models.ErrAIDisabled
	}
	return nil
}

// GenerateImage produces a studio shot for one item and stores it as the
// item's AI image.
func (s *AIService) GenerateImage(ctx context.Context, userID, itemID string) (models.Item, error) {
	if err := s.requireAI(); err != nil {
		return models.Item{}, err
	}
	item, err := s.Items.Get(ctx, userID, itemID)
	if err != nil {
		return models.Item{}, err
	}
	return s.generate(ctx, item)
}

// generate runs the pipeline: describe the reference, generate from the
// assembled prompt, normalise the composition, upload, link.
func (s *AIService) generate(ctx context.Context, item models.Item) (models.Item, error) {
	if s.Storage == nil {
		return models.Item{}, fmt.Errorf("generate image: %w: storage is not configured", models.ErrInvalidInput)
	}
	desc, err := s.AI.DescribeReference(ctx, item)
	if err != nil {
		return models.Item{}, fmt.Errorf("reference search: %w", err)
	}
	raw, err := s.AI.GenerateImage(ctx, ai.ImagePrompt(item, desc), generatedImageSize)
	if err != nil {
		return models.Item{}, fmt.Errorf("image generation: %w", err)
	}
	img, err := imaging.Normalize(raw, normalizedImageSide, normalizedMargin)
	if err != nil {
		return models.Item{}, fmt.Errorf("normalise image: %w", err)
	}
	url, err := s.Storage.Upload(ctx, "generated/"+item.UserID, img)
	if err != nil {
		return models.Item{}, err
	}
	out, err := s.Items.SetAIImage(ctx, item.UserID, item.ID, url)
	if err != nil {
		return models.Item{}, err
	}
	s.emit(ctx, "items", realtime.Update, item.ID, item.UserID)
	return out, nil
}

type GenerationFailure struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	Error  string `json:"error"`
}

type GenerationReport struct {
	Generated []models.Item       `json:"generated"`
	Failed    []GenerationFailure `json:"failed"`
	Skipped   int                 `json:"skipped"`
}

// GenerateAll runs the pipeline one item at a time for the caller's active
// items that have no AI image yet. A failing item does not stop the rest;
// an upstream rate limit does, and the untouched items are counted as skipped.
func (s *AIService) GenerateAll(ctx context.Context, userID string) (GenerationReport, error) {
	if err := s.requireAI(); err != nil {
		return GenerationReport{}, err
	}
	items, err := s.Items.ListMissingAIImage(ctx, userID, generateAllLimit)
	if err != nil {
		return GenerationReport{}, err
	}
	return s.generateEach(ctx, items), nil
}

func (s *AIService) generateEach(ctx context.Context, items []models.Item) GenerationReport {
	report := GenerationReport{Generated: []models.Item{}, Failed: []GenerationFailure{}}
	for i, item := range items {
		if ctx.Err() != nil {
			report.Skipped = len(items) - i
			break
		}
		out, err := s.generate(ctx, item)
		if err == nil {
			report.Generated = append(report.Generated, out)
			continue
		}
		report.Failed = append(report.Failed, GenerationFailure{ItemID: item.ID, Name: item.DisplayName(), Error: err.Error()})
		if errors.Is(err, models.ErrRateLimited) {
			report.Skipped = len(items) - i - 1
			break
		}
	}
	return report
}

// BackfillImages is the scheduled variant of GenerateAll across all users.
func (s *AIService) BackfillImages(ctx context.Context, limit int) (GenerationReport, error) {
	if err := s.requireAI(); err != nil {
		return GenerationReport{}, err
	}
	items, err := s.Items.BackfillCandidates(ctx, limit)
	if err != nil {
		return GenerationReport{}, err
	}
	report := s.generateEach(ctx, items)
	for _, f := range report.Failed {
		s.Logger.Warn("image backfill failed", "item_id", f.ItemID, "error", f.Error)
	}
	return report, nil
}

// WarrantyOCR reads a photographed warranty card or receipt.
func (s *AIService) WarrantyOCR(ctx context.Context, image []byte) (ai.WarrantyInfo, error) {
	if err := s.requireAI(); err != nil {
		return ai.WarrantyInfo{}, err
	}
	if len(image) == 0 || len(image) > maxScanBytes {
		return ai.WarrantyInfo{}, models.Invalid("image", "must be between 1 byte and 8 MB")
	}
	if !utils.IsImage(image) {
		return ai.WarrantyInfo{}, models.Invalid("image", "must be an image")
	}
	return s.AI.WarrantyOCR(ctx, image, utils.DetectMIME(image))
}

func (s *AIService) Sentiment(ctx context.Context, text string) (ai.Sentiment, error) {
	if err := s.requireAI(); err != nil {
		return ai.Sentiment{}, err
	}
	text, err := checkBody("text", text, maxPostLength)
	if err != nil {
		return ai.Sentiment{}, err
	}
	return s.AI.Sentiment(ctx, text)
}

type MarketPriceResult struct {
	Estimate pricing.Estimate `json:"estimate"`
	Item     *models.Item     `json:"item,omitempty"`
}

// MarketPrice estimates an item's market value. With apply the estimate
// becomes the item's current value and is recorded as a price point.
func (s *AIService) MarketPrice(ctx context.Context, userID, itemID string, apply bool) (MarketPriceResult, error) {
	item, err := s.Items.Get(ctx, userID, itemID)
	if err != nil {
		return MarketPriceResult{}, err
	}
	est, err := s.Prices.Estimate(ctx, item)
	if err != nil {
		return MarketPriceResult{}, err
	}
	res := MarketPriceResult{Estimate: est}
	if apply {
		updated, err := s.Items.SetValue(ctx, userID, itemID, est.Value, est.Source)
		if err != nil {
			return MarketPriceResult{}, err
		}
		s.emit(ctx, "items", realtime.Update, itemID, userID)
		res.Item = &updated
	}
	return res, nil
}

// RefreshValues re-estimates active items whose valuation is older than
// staleAfter. It stops early when the upstream is rate limiting.
func (s *AIService) RefreshValues(ctx context.Context, staleAfter time.Duration, limit int) (int, error) {
	items, err := s.Items.StaleValues(ctx, time.Now().Add(-staleAfter), limit)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, item := range items {
		est, err := s.Prices.Estimate(ctx, item)
		if err != nil {
			if errors.Is(err, models.ErrRateLimited) || ctx.Err() != nil {
				return updated, err
			}
			s.Logger.Info("market refresh skipped item", "item_id", item.ID, "error", err)
			continue
		}
		if _, err := s.Items.SetValue(ctx, item.UserID, item.ID, est.Value, est.Source); err != nil {
			return updated, err
		}
		s.emit(ctx, "items", realtime.Update, item.ID, item.UserID)
		updated++
	}
	return updated, nil
}
