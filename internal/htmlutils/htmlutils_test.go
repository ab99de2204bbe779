package htmlutils

import (
	"strings"
	"testing"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no tags",
			input:    "Hello World",
			expected: "Hello World",
		},
		{
			name:     "valid tags",
			input:    "<b>Who</b> <i>What</i>",
			expected: "<b>Who</b> <i>What</i>",
		},
		{
			name:     "unsupported tags dropped content kept",
			input:    "<h2>Key Points</h2><p>The video covers</p>",
			expected: "Key PointsThe video covers",
		},
		{
			name:     "script stripped",
			input:    "<b>Summary</b> and <script>alert(1)</script>",
			expected: "<b>Summary</b> and alert(1)",
		},
		{
			name:     "escapes special characters",
			input:    "Q&A session: 5 > 3 and 2 < 4",
			expected: "Q&amp;A session: 5 &gt; 3 and 2 &lt; 4",
		},
		{
			name:     "anchor with safe href",
			input:    `<a href="https://youtube.com/watch?v=abc">watch</a>`,
			expected: `<a href="https://youtube.com/watch?v=abc">watch</a>`,
		},
		{
			name:     "anchor with javascript href stripped",
			input:    `<a href="javascript:alert(1)">click</a>`,
			expected: `<a>click</a>`,
		},
		{
			name:     "anchor without href",
			input:    `<a onclick="evil()">click</a>`,
			expected: `<a>click</a>`,
		},
		{
			name:     "blockquote kept",
			input:    "<blockquote><b>Title</b></blockquote>body",
			expected: "<blockquote><b>Title</b></blockquote>body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeHTML(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeHTML() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSplitHTMLShortTextSinglePart(t *testing.T) {
	text := "<b>Title</b>\nA short summary."

	parts := SplitHTML(text, 4096)
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0] != text {
		t.Errorf("short text must pass through unchanged, got %q", parts[0])
	}
}

func TestSplitHTMLClosesAndReopensTags(t *testing.T) {
	text := "<b>" + strings.Repeat("word ", 100) + "</b>"

	parts := SplitHTML(text, 120)
	if len(parts) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(parts))
	}

	for i, part := range parts {
		opens := strings.Count(part, "<b>")
		closes := strings.Count(part, "</b>")
		if opens != closes {
			t.Errorf("part %d has unbalanced tags: %d opens, %d closes: %q", i, opens, closes, part)
		}
	}
}

func TestSplitHTMLPrefersParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("alpha ", 20)
	text := para + "\n\n" + para + "\n\n" + para

	parts := SplitHTML(text, 150)
	if len(parts) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(parts))
	}

	if strings.HasSuffix(strings.TrimRight(parts[0], "\n"), "alph") {
		t.Errorf("split cut a word: %q", parts[0])
	}
}

func TestSplitHTMLDoesNotReopenBlockquote(t *testing.T) {
	text := "<blockquote>" + strings.Repeat("header text ", 30) + "</blockquote>" + strings.Repeat("body ", 50)

	parts := SplitHTML(text, 120)
	for i, part := range parts {
		if i == 0 {
			continue
		}
		if strings.Contains(part, "<blockquote>") && !strings.Contains(text[:len("<blockquote>")], part) {
			// Only the part that genuinely starts inside the original
			// blockquote content may reopen it; later body parts must not.
			if strings.Contains(part, "body") {
				t.Errorf("blockquote reopened in body part %d: %q", i, part)
			}
		}
	}
}

func TestSplitHTMLRuneLimit(t *testing.T) {
	// Multibyte text: the limit counts runes, so byte length may exceed it
	// but rune length must not (tag bytes aside).
	text := strings.Repeat("日本語テキスト ", 40)

	parts := SplitHTML(text, 50)
	for i, part := range parts {
		runes := len([]rune(part))
		if runes > 60 {
			t.Errorf("part %d exceeds rune budget: %d runes", i, runes)
		}
	}
}
