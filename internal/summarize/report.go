package summarize

import (
	"fmt"
	"strings"
)

const truncationMarker = "… and %d more item(s) omitted."

// Report is the aggregate result of a batch run.
type Report struct {
	Items  []Outcome
	Counts Counts
}

// Render formats the report as plain text within maxChars. Entries are never
// cut mid-line: when the budget is too small for all of them, whole trailing
// entries are replaced by a single truncation marker, and the marker itself
// is dropped rather than overflow the cap. The header line is always
// emitted, so the cap holds only when it exceeds the header length.
// maxChars <= 0 means unlimited.
func (r *Report) Render(maxChars int) string {
	header := fmt.Sprintf("Processed %d video(s): %d new, %d cached, %d failed, %d skipped.",
		r.Counts.Total(), r.Counts.New, r.Counts.Cached, r.Counts.Failed, r.Counts.Skipped)

	lines := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, renderLine(item))
	}

	if maxChars <= 0 {
		return strings.Join(append([]string{header}, lines...), "\n")
	}

	var sb strings.Builder

	sb.WriteString(header)

	for i, line := range lines {
		marker := fmt.Sprintf("\n"+truncationMarker, len(lines)-i)
		if sb.Len()+len("\n")+len(line) > maxChars-reservedFor(i, len(lines), marker) {
			if sb.Len()+len(marker) <= maxChars {
				sb.WriteString(marker)
			}

			return sb.String()
		}

		sb.WriteString("\n")
		sb.WriteString(line)
	}

	return sb.String()
}

// reservedFor returns how many chars to hold back for the truncation marker.
// The last entry needs no reserve: if it fits, nothing is omitted.
func reservedFor(index, total int, marker string) int {
	if index == total-1 {
		return 0
	}

	return len(marker)
}

func renderLine(item Outcome) string {
	label := item.Title
	if label == "" {
		label = item.VideoURL
	}

	switch item.Status {
	case StatusComplete:
		return fmt.Sprintf("✅ %s (%s)", label, item.ReadingTime)
	case StatusCached:
		return fmt.Sprintf("♻️ %s (cached, %s)", label, item.ReadingTime)
	case StatusSkipped:
		return fmt.Sprintf("⏭ %s (skipped)", label)
	case StatusInProgress:
		return fmt.Sprintf("⏳ %s (already in progress)", label)
	case StatusLimitExceeded:
		return fmt.Sprintf("🛑 %s (daily limit reached)", label)
	case StatusQuotaExhausted:
		return fmt.Sprintf("🛑 %s (backend quota exhausted)", label)
	case StatusNoTranscript:
		return fmt.Sprintf("❌ %s (no transcript)", label)
	case StatusInvalid:
		return fmt.Sprintf("❌ %s (not a valid video reference)", label)
	default:
		return fmt.Sprintf("❌ %s (failed)", label)
	}
}
