package summarize

import (
	"fmt"
	"strings"
)

// Average adult reading speed.
const wordsPerMinute = 200

// EstimateReadingTime estimates how long the summary takes to read, rounding
// up to whole minutes with a floor of one minute.
func EstimateReadingTime(text string) string {
	words := len(strings.Fields(text))

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes <= 1 {
		return "~1 min read"
	}

	return fmt.Sprintf("~%d mins read", minutes)
}
