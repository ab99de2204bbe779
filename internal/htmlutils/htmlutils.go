// Package htmlutils prepares model-generated summary text for Telegram's
// HTML parse mode: stripping unsupported markup and splitting long messages
// at semantic boundaries without breaking tag nesting.
package htmlutils

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var tagRegex = regexp.MustCompile(`<(/?)([a-zA-Z0-9-]+)([^>]*)>`)
var hrefRegex = regexp.MustCompile(`(?i)\s*href\s*=\s*["']([^"']*)["']`)

// Telegram's supported HTML tag set.
var allowedTags = map[string]bool{
	"b":          true,
	"i":          true,
	"u":          true,
	"s":          true,
	"code":       true,
	"pre":        true,
	"a":          true,
	"blockquote": true,
	"tg-spoiler": true,
}

var dangerousProtocols = []string{
	"javascript:",
	"vbscript:",
	"data:",
}

// SanitizeHTML keeps only Telegram-supported tags and escapes everything
// else. Model output occasionally contains stray markup; unsupported tags
// are dropped while their content survives. For <a>, only a safe href is
// preserved.
func SanitizeHTML(text string) string {
	var sb strings.Builder
	indices := tagRegex.FindAllStringIndex(text, -1)
	lastPos := 0
	for _, idx := range indices {
		if idx[0] > lastPos {
			sb.WriteString(html.EscapeString(text[lastPos:idx[0]]))
		}

		tag := text[idx[0]:idx[1]]
		matches := tagRegex.FindStringSubmatch(tag)
		if len(matches) >= 3 {
			tagName := strings.ToLower(matches[2])
			if allowedTags[tagName] {
				if tagName == "a" && matches[1] != "/" {
					sb.WriteString(sanitizeAnchorTag(tag))
				} else {
					sb.WriteString(tag)
				}
			}
		}

		lastPos = idx[1]
	}
	if lastPos < len(text) {
		sb.WriteString(html.EscapeString(text[lastPos:]))
	}
	return sb.String()
}

func sanitizeAnchorTag(tag string) string {
	hrefMatch := hrefRegex.FindStringSubmatch(tag)
	if hrefMatch == nil {
		return "<a>"
	}

	href := hrefMatch[1]
	hrefLower := strings.ToLower(strings.TrimSpace(href))

	for _, proto := range dangerousProtocols {
		if strings.HasPrefix(hrefLower, proto) {
			return "<a>"
		}
	}

	return `<a href="` + html.EscapeString(href) + `">`
}

// Preferred split points for summary text, best first. Summaries are
// structured as a bold heading block followed by bullet sections, so section
// and paragraph boundaries beat raw line breaks.
var splitPriorities = []string{
	"</blockquote>\n",
	"\n\n",
	"\n• ",
	"\n- ",
}

// SplitHTML splits sanitized HTML into parts each at most limit runes of
// text content, closing open tags at every boundary and reopening them in
// the next part. The limit counts runes, not bytes.
func SplitHTML(text string, limit int) []string {
	var parts []string
	var current strings.Builder
	var openTags []string
	currentRuneLen := 0

	type token struct {
		val   string
		isTag bool
	}
	var tokens []token

	indices := tagRegex.FindAllStringIndex(text, -1)
	lastPos := 0
	for _, idx := range indices {
		if idx[0] > lastPos {
			tokens = append(tokens, token{val: text[lastPos:idx[0]], isTag: false})
		}
		tokens = append(tokens, token{val: text[idx[0]:idx[1]], isTag: true})
		lastPos = idx[1]
	}
	if lastPos < len(text) {
		tokens = append(tokens, token{val: text[lastPos:], isTag: false})
	}

	totalRuneLen := 0
	for _, t := range tokens {
		if !t.isTag {
			totalRuneLen += utf8.RuneCountInString(t.val)
		}
	}
	if totalRuneLen <= limit {
		return []string{text}
	}

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tagsLen := 0
		for _, tag := range openTags {
			tagsLen += len(tag)
		}
		if current.Len() <= tagsLen {
			return
		}

		content := current.String()
		content = strings.TrimRight(content, " \t")
		for i := len(openTags) - 1; i >= 0; i-- {
			content += "</" + GetTagName(openTags[i]) + ">"
		}
		parts = append(parts, content)

		current.Reset()
		currentRuneLen = 0
		for _, tag := range openTags {
			tagName := strings.ToLower(GetTagName(tag))
			if !noReopenTags[tagName] {
				current.WriteString(tag)
			}
		}
	}

	// Rune-safe slicing, never cuts a code point in half.
	runeSlice := func(s string, start, end int) string {
		runes := []rune(s)
		if start > len(runes) {
			start = len(runes)
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start > end {
			start = end
		}
		return string(runes[start:end])
	}

	findBestSplit := func(text string, maxRunes int) int {
		runeCount := utf8.RuneCountInString(text)
		if runeCount <= maxRunes {
			return runeCount
		}

		searchText := runeSlice(text, 0, maxRunes)

		for _, sep := range splitPriorities {
			pos := strings.LastIndex(searchText, sep)
			if pos > 0 {
				runePos := utf8.RuneCountInString(searchText[:pos])
				return runePos + utf8.RuneCountInString(sep)
			}
		}

		pos := strings.LastIndex(searchText, "\n")
		if pos > 0 {
			runePos := utf8.RuneCountInString(searchText[:pos])
			return runePos + 1
		}

		pos = strings.LastIndex(searchText, " ")
		if pos > 0 {
			runePos := utf8.RuneCountInString(searchText[:pos])
			return runePos + 1
		}

		return maxRunes
	}

	for _, t := range tokens {
		if t.isTag {
			current.WriteString(t.val)
			openTags = updateOpenTags(t.val, openTags)
		} else {
			remaining := t.val
			for len(remaining) > 0 {
				canTake := limit - currentRuneLen
				if canTake <= 0 {
					flush()
					canTake = limit
				}

				remainingRunes := utf8.RuneCountInString(remaining)
				if remainingRunes <= canTake {
					current.WriteString(remaining)
					currentRuneLen += remainingRunes
					remaining = ""
				} else {
					splitPos := findBestSplit(remaining, canTake)

					if splitPos > 0 {
						toWrite := runeSlice(remaining, 0, splitPos)
						current.WriteString(toWrite)
						currentRuneLen += splitPos
						remaining = runeSlice(remaining, splitPos, remainingRunes)
						remaining = strings.TrimLeft(remaining, " \t\n\r")
					}

					if len(remaining) > 0 {
						flush()
					}
				}
			}
		}
	}
	flush()
	return parts
}

func GetTagName(fullTag string) string {
	tag := strings.Trim(fullTag, "<>")
	parts := strings.Fields(tag)
	if len(parts) > 0 {
		return strings.TrimPrefix(parts[0], "/")
	}
	return ""
}

// The blockquote holds the video header; continuing it into the next part
// would repeat a heading mid-summary. It is still closed when flushing.
var noReopenTags = map[string]bool{
	"blockquote": true,
}

func updateOpenTags(line string, openTags []string) []string {
	matches := tagRegex.FindAllStringSubmatch(line, -1)
	for _, match := range matches {
		isClosing := match[1] == "/"
		tagName := strings.ToLower(match[2])

		if isClosing {
			if len(openTags) > 0 {
				for i := len(openTags) - 1; i >= 0; i-- {
					if strings.ToLower(GetTagName(openTags[i])) == tagName {
						openTags = openTags[:i]
						break
					}
				}
			}
		} else {
			openTags = append(openTags, match[0])
		}
	}
	return openTags
}
