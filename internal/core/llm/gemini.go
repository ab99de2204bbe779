package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/platform/config"
)

const geminiDefaultModel = "gemini-1.5-flash"

type geminiClient struct {
	cfg         *config.Config
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter

	mu     sync.Mutex
	client *genai.Client
}

func newGemini(cfg *config.Config, logger *zerolog.Logger) Client {
	return &geminiClient{
		cfg:         cfg,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimitRPS)), rateLimiterBurst),
	}
}

// getClient lazily initializes the genai client; construction needs a context
// and may fail, so it cannot happen in newGemini.
func (c *geminiClient) getClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: c.cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	c.client = client

	return client, nil
}

func (c *geminiClient) GenerateSummary(ctx context.Context, req SummaryRequest) (string, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return "", err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	model := c.cfg.LLMModel
	if model == "" {
		model = geminiDefaultModel
	}

	result, err := client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(buildSummaryPrompt(req)),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: summarySystemInstruction}}},
		},
	)
	if err != nil {
		if isGeminiQuotaError(err) {
			return "", fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}

		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("gemini returned empty summary")
	}

	return text, nil
}

func isGeminiQuotaError(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
}
