package youtube

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var errInvalidDuration = errors.New("invalid ISO 8601 duration")

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration parses the ISO 8601 duration strings returned by the Data
// API (e.g. "PT1H2M3S"). Only day, hour, minute and second designators are
// supported; video durations never carry larger units.
func ParseISODuration(s string) (time.Duration, error) {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", errInvalidDuration, s)
	}

	days := atoiOrZero(m[1])
	hours := atoiOrZero(m[2])
	minutes := atoiOrZero(m[3])
	seconds := atoiOrZero(m[4])

	total := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second

	return total, nil
}

// FormatDuration renders a duration as HH:MM:SS, or MM:SS when under an hour.
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}

	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return n
}
