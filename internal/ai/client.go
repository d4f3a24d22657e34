// Package ai talks to an OpenAI-compatible API for chat, vision and image
// generation, and builds the collection-specific helpers on top.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"soravault/internal/metrics"
	"soravault/internal/models"
)

const defaultBaseURL = "https://api.openai.com/v1"

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ai provider error: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) RateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

func (e *APIError) Unwrap() error {
	if e.RateLimited() {
		return models.ErrRateLimited
	}
	return nil
}

type Options struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	VisionModel string
	ImageModel  string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	chatModel   string
	visionModel string
	imageModel  string
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:  httpClient,
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		chatModel:   opts.ChatModel,
		visionModel: opts.VisionModel,
		imageModel:  opts.ImageModel,
	}
}

// Enabled is false for a nil client or one without an API key.
func (c *Client) Enabled() bool {
	return c != nil && strings.TrimSpace(c.apiKey) != ""
}

type message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// Chat sends a system and user prompt and returns the assistant text.
func (c *Client) Chat(ctx context.Context, operation, system, user string) (string, error) {
	res, err := c.complete(ctx, operation, c.chatModel, []message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, false)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// ChatJSON asks for a JSON object reply and returns it parsed.
func (c *Client) ChatJSON(ctx context.Context, operation, system, user string) (gjson.Result, error) {
	res, err := c.complete(ctx, operation, c.chatModel, []message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, true)
	if err != nil {
		return gjson.Result{}, err
	}
	return parseObject(res.String())
}

// VisionJSON sends an image inline as a data URL together with prompt and
// expects a JSON object back.
func (c *Client) VisionJSON(ctx context.Context, operation, prompt string, image []byte, mimeType string) (gjson.Result, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	content := []map[string]interface{}{
		{"type": "text", "text": prompt},
		{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
	}
	res, err := c.complete(ctx, operation, c.visionModel, []message{{Role: "user", Content: content}}, true)
	if err != nil {
		return gjson.Result{}, err
	}
	return parseObject(res.String())
}

// GenerateImage returns the decoded bytes of one generated image.
func (c *Client) GenerateImage(ctx context.Context, prompt, size string) ([]byte, error) {
	if size == "" {
		size = "1024x1024"
	}
	body, err := c.post(ctx, "/images/generations", map[string]interface{}{
		"model":  c.imageModel,
		"prompt": prompt,
		"n":      1,
		"size":   size,
	})
	metrics.ObserveAI("image_generation", err)
	if err != nil {
		return nil, err
	}

	b64 := gjson.GetBytes(body, "data.0.b64_json").String()
	if b64 == "" {
		return nil, errors.New("ai provider returned no image")
	}
	img, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (c *Client) complete(ctx context.Context, operation, model string, messages []message, jsonMode bool) (gjson.Result, error) {
	payload := map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"temperature": 0.2,
	}
	if jsonMode {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}

	body, err := c.post(ctx, "/chat/completions", payload)
	metrics.ObserveAI(operation, err)
	if err != nil {
		return gjson.Result{}, err
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		return gjson.Result{}, errors.New("ai provider returned no choices")
	}
	return content, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	if !c.Enabled() {
		return nil, models.ErrAIDisabled
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		msg := gjson.GetBytes(data, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    msg,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// parseObject tolerates replies wrapped in a markdown code fence.
func parseObject(s string) (gjson.Result, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if !gjson.Valid(s) {
		return gjson.Result{}, fmt.Errorf("ai provider returned invalid json: %.80q", s)
	}
	res := gjson.Parse(s)
	if !res.IsObject() {
		return gjson.Result{}, errors.New("ai provider returned a non-object reply")
	}
	return res, nil
}
