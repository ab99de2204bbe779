package telegrambot

import (
	"strings"
	"testing"
	"time"

	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/summarize"
)

func TestRenderOutcomeComplete(t *testing.T) {
	outcome := summarize.Outcome{
		Status:       summarize.StatusComplete,
		VideoURL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Title:        "Go Concurrency Patterns <live>",
		ChannelTitle: "GopherCon",
		Summary:      "<b>Who:</b> Rob Pike explains channels.",
		Duration:     31 * time.Minute,
		ReadingTime:  "~2 mins read",
		PublishedAt:  time.Date(2012, 6, 26, 0, 0, 0, 0, time.UTC),
	}

	out := renderOutcome(outcome)

	for _, want := range []string{
		"<blockquote>",
		"Go Concurrency Patterns &lt;live&gt;", // title is escaped
		"GopherCon",
		"31:00",
		"26 Jun 2012",
		"~2 mins read",
		`<a href="https://www.youtube.com/watch?v=dQw4w9WgXcQ">Watch on YouTube</a>`,
		"<b>Who:</b> Rob Pike explains channels.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered outcome missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "Cached summary") {
		t.Error("fresh outcome must not carry the cached marker")
	}
}

func TestRenderOutcomeCached(t *testing.T) {
	outcome := summarize.Outcome{
		Status:      summarize.StatusCached,
		VideoURL:    "https://youtu.be/dQw4w9WgXcQ",
		Title:       "Some Video",
		Summary:     "Summary text.",
		ReadingTime: "~1 min read",
		Cached:      true,
		GeneratedAt: time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	out := renderOutcome(outcome)

	if !strings.Contains(out, "Cached summary from 30 Aug 2025") {
		t.Errorf("cached marker missing:\n%s", out)
	}
}

func TestRenderOutcomeStripsUnsupportedSummaryMarkup(t *testing.T) {
	outcome := summarize.Outcome{
		Status:   summarize.StatusComplete,
		VideoURL: "https://youtu.be/dQw4w9WgXcQ",
		Title:    "T",
		Summary:  `<h1>Header</h1><script>alert(1)</script><b>bold</b>`,
	}

	out := renderOutcome(outcome)

	if strings.Contains(out, "<h1>") || strings.Contains(out, "<script>") {
		t.Errorf("unsupported markup survived:\n%s", out)
	}

	if !strings.Contains(out, "<b>bold</b>") {
		t.Errorf("supported markup stripped:\n%s", out)
	}
}

func TestRenderOutcomeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  summarize.Status
		message string
		icon    string
	}{
		{name: "invalid", status: summarize.StatusInvalid, message: `"abc" is not a valid YouTube URL.`, icon: "❌"},
		{name: "in progress", status: summarize.StatusInProgress, message: "Already processing this video: x", icon: "⏳"},
		{name: "limit", status: summarize.StatusLimitExceeded, message: "You have reached your daily summary limit of 20. Please try again tomorrow.", icon: "🛑"},
		{name: "backend quota", status: summarize.StatusQuotaExhausted, message: "The summary service has run out of quota. Please try again tomorrow.", icon: "🛑"},
		{name: "error", status: summarize.StatusError, message: "An error occurred while summarizing x.", icon: "❌"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderOutcome(summarize.Outcome{Status: tt.status, Message: tt.message})

			if !strings.HasPrefix(out, tt.icon) {
				t.Errorf("expected prefix %q, got %q", tt.icon, out)
			}

			if strings.Contains(out, "<blockquote>") {
				t.Errorf("failure outcome must not render a header: %q", out)
			}
		})
	}
}

func TestRenderOutcomeFallsBackToURLTitle(t *testing.T) {
	outcome := summarize.Outcome{
		Status:   summarize.StatusComplete,
		VideoURL: "https://youtu.be/dQw4w9WgXcQ",
		Summary:  "s",
	}

	out := renderOutcome(outcome)

	if !strings.Contains(out, "https://youtu.be/dQw4w9WgXcQ</b>") {
		t.Errorf("expected URL used as title:\n%s", out)
	}
}
