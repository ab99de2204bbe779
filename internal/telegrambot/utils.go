package telegrambot

import (
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/htmlutils"
)

// Telegram caps messages at 4096 chars of parsed text; leave headroom for
// closing tags added at split boundaries.
const messagePartLimit = 4000

// SplitHTML splits an HTML string into Telegram-sized parts. The limit
// applies to the text after HTML entities are parsed, consistent with the
// Bot API, and tags are closed and reopened across parts.
func SplitHTML(text string, limit int) []string {
	return htmlutils.SplitHTML(text, limit)
}
