package summarize

import (
	"context"
	"fmt"
	"time"
)

// UsageCounter counts a user's successful generations since an instant.
type UsageCounter interface {
	CountUsageSince(ctx context.Context, userID int64, since time.Time) (int, error)
}

// QuotaEvaluator enforces the per-user daily generation ceiling. Only
// successful new generations count; cache hits never consume quota. The
// window is the current UTC calendar day.
type QuotaEvaluator struct {
	usage   UsageCounter
	ceiling int
}

func NewQuotaEvaluator(usage UsageCounter, ceiling int) *QuotaEvaluator {
	return &QuotaEvaluator{usage: usage, ceiling: ceiling}
}

// Ceiling returns the configured daily maximum.
func (q *QuotaEvaluator) Ceiling() int {
	return q.ceiling
}

// UsageToday counts the user's generations since UTC midnight relative to now.
func (q *QuotaEvaluator) UsageToday(ctx context.Context, userID int64, now time.Time) (int, error) {
	count, err := q.usage.CountUsageSince(ctx, userID, startOfUTCDay(now))
	if err != nil {
		return 0, fmt.Errorf("usage today: %w", err)
	}

	return count, nil
}

// Allow reports whether the user may start one more generation. A user at
// exactly the ceiling is rejected.
func (q *QuotaEvaluator) Allow(ctx context.Context, userID int64, now time.Time) (bool, error) {
	count, err := q.UsageToday(ctx, userID, now)
	if err != nil {
		return false, err
	}

	return count < q.ceiling, nil
}

func startOfUTCDay(now time.Time) time.Time {
	utc := now.UTC()

	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
