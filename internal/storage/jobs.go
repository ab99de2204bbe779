package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Job lifecycle statuses. A job is created in processing by the first caller
// to win the uniqueness race, then moves to complete or failed exactly once.
const (
	JobStatusProcessing = "processing"
	JobStatusComplete   = "complete"
	JobStatusFailed     = "failed"
)

const pgUniqueViolationCode = "23505"

var (
	// ErrJobNotFound is returned when no job exists for a video reference.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobExists is returned by InsertProcessingJob when another caller
	// already holds the row for this reference. This unique-constraint
	// rejection is the mutual-exclusion primitive for concurrent requests.
	ErrJobExists = errors.New("job already exists")
)

// Job is the persisted record tracking one video's summary lifecycle.
// VideoURL is the raw user-supplied reference and the uniqueness key.
type Job struct {
	ID           string
	VideoURL     string
	VideoTitle   string
	ChannelTitle string
	SummaryText  string
	Status       string
	RequestedAt  time.Time
}

// GetJob fetches the job for a video reference, or ErrJobNotFound.
func (db *DB) GetJob(ctx context.Context, videoURL string) (*Job, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, video_url, video_title, channel_title, summary_text, status, requested_at
		FROM jobs
		WHERE video_url = $1
	`, videoURL)

	var (
		id          string
		url         string
		title       pgtype.Text
		channel     pgtype.Text
		summary     pgtype.Text
		status      string
		requestedAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &url, &title, &channel, &summary, &status, &requestedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}

		return nil, fmt.Errorf("get job: %w", err)
	}

	return &Job{
		ID:           id,
		VideoURL:     url,
		VideoTitle:   title.String,
		ChannelTitle: channel.String,
		SummaryText:  summary.String,
		Status:       status,
		RequestedAt:  requestedAt.Time,
	}, nil
}

// InsertProcessingJob inserts a new job row in processing state. The row is
// visible to concurrent callers the instant it is committed, before any
// generation work begins; a unique violation means another caller won the
// race and is reported as ErrJobExists.
func (db *DB) InsertProcessingJob(ctx context.Context, videoURL string) (string, error) {
	id := uuid.NewString()

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO jobs (id, video_url, status)
		VALUES ($1, $2, $3)
	`, id, videoURL, JobStatusProcessing)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return "", ErrJobExists
		}

		return "", fmt.Errorf("insert processing job: %w", err)
	}

	return id, nil
}

// CompleteJob writes the generated summary and display metadata and marks
// the job complete.
func (db *DB) CompleteJob(ctx context.Context, videoURL, videoTitle, channelTitle, summaryText string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE jobs
		SET video_title = $2,
		    channel_title = $3,
		    summary_text = $4,
		    status = $5,
		    updated_at = now()
		WHERE video_url = $1
	`, videoURL, videoTitle, channelTitle, summaryText, JobStatusComplete)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}

	return nil
}

// FailJob marks the job failed; the next request for this reference will
// delete and retry it.
func (db *DB) FailJob(ctx context.Context, videoURL string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE jobs SET status = $2, updated_at = now() WHERE video_url = $1
	`, videoURL, JobStatusFailed)
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}

	return nil
}

// DeleteJob removes the job row for a reference, clearing cached, failed and
// processing state alike. Deleting a missing row is not an error.
func (db *DB) DeleteJob(ctx context.Context, videoURL string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM jobs WHERE video_url = $1`, videoURL)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	return nil
}

// FailStaleJobs forces every lingering processing row to failed. Processing
// rows surviving a restart are crash orphans, not real concurrency; the sweep
// must run to completion before any request handling begins, so an orphan can
// never permanently block retries.
func (db *DB) FailStaleJobs(ctx context.Context) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE jobs SET status = $2, updated_at = now() WHERE status = $1
	`, JobStatusProcessing, JobStatusFailed)
	if err != nil {
		return 0, fmt.Errorf("fail stale jobs: %w", err)
	}

	return tag.RowsAffected(), nil
}
