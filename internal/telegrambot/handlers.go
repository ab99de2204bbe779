package telegrambot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/core/youtube"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/summarize"
)

const helpText = `🎬 <b>YouTube Summarizer</b>

Send me a YouTube link and I will summarize the video for you.

<b>Commands</b>
/summarize &lt;url...&gt; [force] - summarize one or more videos. Append <code>force</code> to regenerate a cached summary.
/playlist &lt;url&gt; - summarize every video in a playlist.
/quota - show how many summaries you have left today.
/help - this message.`

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.reply(msg, helpText)
}

func (b *Bot) handleSummarize(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.reply(msg, "Usage: <code>/summarize &lt;url...&gt; [force]</code>")

		return
	}

	force := false
	if strings.EqualFold(args[len(args)-1], "force") {
		force = true
		args = args[:len(args)-1]
	}

	if len(args) == 0 {
		b.reply(msg, "Usage: <code>/summarize &lt;url...&gt; [force]</code>")

		return
	}

	b.summarizeRefs(ctx, msg, args, force)
}

func (b *Bot) handlePlaylist(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		b.reply(msg, "Usage: <code>/playlist &lt;playlist url&gt;</code>")

		return
	}

	refs, err := resolvePlaylist(ctx, b.playlists, arg)
	if errors.Is(err, errNotAPlaylist) {
		b.reply(msg, fmt.Sprintf("❌ %s is not a valid playlist URL.", html.EscapeString(arg)))

		return
	}

	if err != nil {
		b.replyPlaylistError(msg, arg, err)

		return
	}

	b.reply(msg, fmt.Sprintf("📜 Found <b>%d</b> video(s) in the playlist. Starting.", len(refs)))
	b.summarizeRefs(ctx, msg, refs, false)
}

var errNotAPlaylist = errors.New("not a playlist url")

// resolvePlaylist expands a playlist URL into the video references to
// process. The lister already returns canonical watch URLs; they are handed
// to the batch unchanged so a playlist item shares its job row, and cached
// summary, with the same video sent via /summarize.
func resolvePlaylist(ctx context.Context, lister PlaylistLister, arg string) ([]string, error) {
	playlistID, ok := youtube.ExtractPlaylistID(arg)
	if !ok {
		return nil, errNotAPlaylist
	}

	return lister.ListPlaylistItems(ctx, playlistID)
}

func (b *Bot) replyPlaylistError(msg *tgbotapi.Message, arg string, err error) {
	switch {
	case errors.Is(err, youtube.ErrPlaylistNotFound):
		b.reply(msg, fmt.Sprintf("❌ Playlist %s was not found or is private.", html.EscapeString(arg)))
	case errors.Is(err, youtube.ErrAPIQuotaExhausted):
		b.reply(msg, "🛑 The video service quota is exhausted. Please try again tomorrow.")
	default:
		b.logger.Error().Err(err).Str("playlist", arg).Msg("playlist listing failed")
		b.reply(msg, "❌ Could not read the playlist. Please try again.")
	}
}

func (b *Bot) handleQuota(ctx context.Context, msg *tgbotapi.Message) {
	used, err := b.quota.UsageToday(ctx, msg.From.ID, time.Now())
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", msg.From.ID).Msg("quota lookup failed")
		b.reply(msg, "❌ Could not look up your usage. Please try again.")

		return
	}

	remaining := b.quota.Ceiling() - used
	if remaining < 0 {
		remaining = 0
	}

	b.reply(msg, fmt.Sprintf("📊 You have used <b>%d</b> of <b>%d</b> summaries today. <b>%d</b> remaining. The counter resets at midnight UTC.", used, b.quota.Ceiling(), remaining))
}

// summarizeRefs runs the batch driver over refs, streaming summaries as
// items finish. The roll-up report is only worth a message for multi-item
// requests.
func (b *Bot) summarizeRefs(ctx context.Context, msg *tgbotapi.Message, refs []string, force bool) {
	multi := len(refs) > 1

	notifier := &progressNotifier{bot: b, chatID: msg.Chat.ID, showProgress: multi}
	batch := summarize.NewBatch(b.processor, notifier, b.logger)

	report := batch.Run(ctx, refs, msg.From.ID, force)

	notifier.finish()

	if multi {
		b.sendHTML(msg.Chat.ID, html.EscapeString(report.Render(b.cfg.ReportMaxChars)))
	}
}

// progressNotifier keeps one progress message per batch, edited in place as
// items complete, and sends each finished summary as its own message.
type progressNotifier struct {
	bot          *Bot
	chatID       int64
	showProgress bool
	messageID    int
}

func (p *progressNotifier) ItemStarted(_ context.Context, index, total int, rawRef string) {
	if !p.showProgress {
		return
	}

	text := fmt.Sprintf("⏳ Processing %d/%d: %s", index+1, total, rawRef)
	p.updateProgress(text)
}

func (p *progressNotifier) ItemDone(_ context.Context, _, _ int, outcome summarize.Outcome) {
	// Skipped items are covered by the latch notice and the final report.
	if outcome.Status == summarize.StatusSkipped {
		return
	}

	p.bot.sendHTML(p.chatID, renderOutcome(outcome))
}

func (p *progressNotifier) Latched(_ context.Context, status summarize.Status) {
	switch status {
	case summarize.StatusLimitExceeded:
		p.bot.sendHTML(p.chatID, "🛑 Daily limit reached. The remaining videos were skipped.")
	case summarize.StatusQuotaExhausted:
		p.bot.sendHTML(p.chatID, "🛑 The summary service quota is exhausted. The remaining videos were skipped.")
	}
}

func (p *progressNotifier) finish() {
	if !p.showProgress || p.messageID == 0 {
		return
	}

	edit := tgbotapi.NewEditMessageText(p.chatID, p.messageID, "✅ Batch finished.")
	if _, err := p.bot.api.Send(edit); err != nil {
		p.bot.logger.Warn().Err(err).Msg("failed to finalize progress message")
	}
}

func (p *progressNotifier) updateProgress(text string) {
	if p.messageID == 0 {
		sent, err := p.bot.api.Send(tgbotapi.NewMessage(p.chatID, text))
		if err != nil {
			p.bot.logger.Warn().Err(err).Msg("failed to send progress message")

			return
		}

		p.messageID = sent.MessageID

		return
	}

	if _, err := p.bot.api.Send(tgbotapi.NewEditMessageText(p.chatID, p.messageID, text)); err != nil {
		p.bot.logger.Warn().Err(err).Msg("failed to edit progress message")
	}
}
