// Package llm provides the summary-generation backend. A Client turns a
// video transcript into structured summary text; implementations exist for
// OpenAI and Gemini, chosen by configuration, plus a mock for keyless runs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/platform/config"
)

// ErrQuotaExhausted indicates the generation backend rejected the request
// because its API quota is spent. Distinct from the per-user daily ceiling.
var ErrQuotaExhausted = errors.New("llm quota exhausted")

const (
	providerOpenAI = "openai"
	providerGemini = "gemini"
	apiKeyMock     = "mock"
)

// SummaryRequest carries everything needed to generate one summary.
type SummaryRequest struct {
	Transcript string
	Title      string
	Language   string
}

// Client generates summary text from a transcript.
type Client interface {
	GenerateSummary(ctx context.Context, req SummaryRequest) (string, error)
}

// New selects a provider implementation based on configuration. Without a
// usable API key a deterministic mock is returned, mirroring keyless
// development setups.
func New(cfg *config.Config, logger *zerolog.Logger) Client {
	switch cfg.LLMProvider {
	case providerGemini:
		if cfg.GeminiAPIKey != "" && cfg.GeminiAPIKey != apiKeyMock {
			return newGemini(cfg, logger)
		}
	case providerOpenAI:
		if cfg.LLMAPIKey != "" && cfg.LLMAPIKey != apiKeyMock {
			return newOpenAI(cfg, logger)
		}
	}

	logger.Warn().Str("provider", cfg.LLMProvider).Msg("no usable LLM API key, using mock client")

	return &mockClient{}
}

type mockClient struct{}

func (c *mockClient) GenerateSummary(_ context.Context, req SummaryRequest) (string, error) {
	words := len(strings.Fields(req.Transcript))

	return fmt.Sprintf("Mock summary of %q (%d transcript words, language %s).", req.Title, words, req.Language), nil
}
