package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LogUsage appends one usage event for a successful new generation. The log
// is append-only; events are never updated or deleted.
func (db *DB) LogUsage(ctx context.Context, userID int64, videoURL string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO usage_events (id, user_id, video_url)
		VALUES ($1, $2, $3)
	`, uuid.NewString(), userID, videoURL)
	if err != nil {
		return fmt.Errorf("log usage: %w", err)
	}

	return nil
}

// CountUsageSince counts a user's usage events at or after the given instant.
func (db *DB) CountUsageSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var count int

	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM usage_events WHERE user_id = $1 AND summarized_at >= $2
	`, userID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count usage: %w", err)
	}

	return count, nil
}
