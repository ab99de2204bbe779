// Package app provides the application bootstrap: it wires the storage
// layer, the video and summary backends, the orchestration core and the
// Telegram bot, and runs the startup recovery sweep before any traffic is
// handled.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/core/llm"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/core/youtube"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/platform/config"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/platform/observability"
	db "github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/storage"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/summarize"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/telegrambot"
)

const errBotInit = "bot initialization failed: %w"

// App holds the application dependencies and runs the bot.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.database, a.cfg.HealthPort, a.logger).Start(ctx)
}

// RunBot recovers orphaned jobs, wires the processing pipeline and runs the
// Telegram bot until the context is canceled.
func (a *App) RunBot(ctx context.Context) error {
	a.logger.Info().Msg("Starting bot mode")

	// Rows left in processing by a previous crash would block retries
	// forever; sweep them before accepting any request.
	swept, err := a.database.FailStaleJobs(ctx)
	if err != nil {
		return fmt.Errorf("startup job sweep: %w", err)
	}

	if swept > 0 {
		a.logger.Warn().Int64("count", swept).Msg("marked orphaned processing jobs as failed")
	}

	youtubeClient := youtube.NewClient(youtube.Config{
		APIKey:  a.cfg.YouTubeAPIKey,
		RPS:     a.cfg.YouTubeRPS,
		Timeout: a.cfg.YouTubeTimeout,
	}, a.logger)

	llmClient := llm.New(a.cfg, a.logger)

	quota := summarize.NewQuotaEvaluator(a.database, a.cfg.UserDailyLimit)

	orchestrator := summarize.NewOrchestrator(summarize.Config{
		Store:          a.database,
		Quota:          quota,
		Metadata:       youtubeClient,
		Transcripts:    youtubeClient,
		Summarizer:     llmClient,
		BackendTimeout: a.cfg.BackendTimeout,
		Logger:         a.logger,
	})

	b, err := telegrambot.New(a.cfg, orchestrator, youtubeClient, quota, a.logger)
	if err != nil {
		return fmt.Errorf(errBotInit, err)
	}

	if err := b.Run(ctx); err != nil {
		return fmt.Errorf("bot run: %w", err)
	}

	return nil
}
