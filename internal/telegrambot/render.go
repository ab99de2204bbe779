package telegrambot

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/core/youtube"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/htmlutils"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/summarize"
)

// renderOutcome turns one processing outcome into Telegram HTML: a
// blockquote header with the video facts, then the sanitized summary body.
// Non-summary outcomes render as a single status line.
func renderOutcome(o summarize.Outcome) string {
	if !o.OK() {
		return statusIcon(o.Status) + " " + html.EscapeString(o.Message)
	}

	title := o.Title
	if title == "" {
		title = o.VideoURL
	}

	var sb strings.Builder

	sb.WriteString("<blockquote>")
	sb.WriteString(fmt.Sprintf("🎬 <b>%s</b>\n", html.EscapeString(title)))

	if o.ChannelTitle != "" {
		sb.WriteString(fmt.Sprintf("📺 %s\n", html.EscapeString(o.ChannelTitle)))
	}

	facts := make([]string, 0, 3)
	if o.Duration > 0 {
		facts = append(facts, "⏱ "+youtube.FormatDuration(o.Duration))
	}

	if !o.PublishedAt.IsZero() {
		facts = append(facts, "📅 "+o.PublishedAt.Format("2 Jan 2006"))
	}

	if o.ReadingTime != "" {
		facts = append(facts, "📖 "+o.ReadingTime)
	}

	if len(facts) > 0 {
		sb.WriteString(strings.Join(facts, " | "))
		sb.WriteString("\n")
	}

	if o.Cached {
		sb.WriteString(fmt.Sprintf("♻️ Cached summary from %s\n", o.GeneratedAt.Format("2 Jan 2006 15:04 MST")))
	}

	sb.WriteString(fmt.Sprintf(`<a href="%s">Watch on YouTube</a>`, html.EscapeString(o.VideoURL)))
	sb.WriteString("</blockquote>\n")

	sb.WriteString(htmlutils.SanitizeHTML(o.Summary))

	return sb.String()
}

func statusIcon(status summarize.Status) string {
	switch status {
	case summarize.StatusLimitExceeded, summarize.StatusQuotaExhausted:
		return "🛑"
	case summarize.StatusInProgress:
		return "⏳"
	default:
		return "❌"
	}
}
