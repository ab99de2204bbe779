package telegrambot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/core/youtube"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/platform/config"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/summarize"
)

// PlaylistLister resolves a playlist ID to the ordered, canonical watch
// URLs of its videos, ready to process as-is.
type PlaylistLister interface {
	ListPlaylistItems(ctx context.Context, playlistID string) ([]string, error)
}

type Bot struct {
	cfg       *config.Config
	processor summarize.Processor
	playlists PlaylistLister
	quota     *summarize.QuotaEvaluator
	api       *tgbotapi.BotAPI
	logger    *zerolog.Logger
}

func New(cfg *config.Config, processor summarize.Processor, playlists PlaylistLister, quota *summarize.QuotaEvaluator, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		cfg:       cfg,
		processor: processor,
		playlists: playlists,
		quota:     quota,
		api:       api,
		logger:    logger,
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		// A bare message that contains a video URL is treated as /summarize.
		if _, ok := youtube.ExtractVideoID(msg.Text); ok {
			b.summarizeRefs(ctx, msg, []string{msg.Text}, false)
		}

		return
	}

	b.logger.Info().Str("command", msg.Command()).Int64("user_id", msg.From.ID).Msg("Handling command")

	switch msg.Command() {
	case "start", "help":
		b.handleHelp(msg)
	case "summarize":
		b.handleSummarize(ctx, msg)
	case "playlist":
		b.handlePlaylist(ctx, msg)
	case "quota":
		b.handleQuota(ctx, msg)
	default:
		b.reply(msg, "Unknown command. Try /help.")
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	b.sendHTML(msg.Chat.ID, text)
}

func (b *Bot) sendHTML(chatID int64, text string) {
	parts := SplitHTML(text, messagePartLimit)
	for _, part := range parts {
		reply := tgbotapi.NewMessage(chatID, part)
		reply.ParseMode = tgbotapi.ModeHTML
		reply.DisableWebPagePreview = true

		if _, err := b.api.Send(reply); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send reply")
		}
	}
}
