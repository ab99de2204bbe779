// Package summarize contains the job orchestration core: the per-video state
// machine that decides between cached results, quota rejections and fresh
// generation, the daily quota evaluator, and the batch driver that sequences
// the orchestrator over playlists and URL lists.
package summarize

import "time"

// Status classifies the result of processing one video reference. The set is
// closed: presentation code handles every member and nothing else ever
// crosses the orchestrator boundary.
type Status string

const (
	// StatusComplete: a fresh summary was generated and persisted.
	StatusComplete Status = "complete"

	// StatusCached: a previously generated summary was returned; no quota
	// was consumed and no generation call was made.
	StatusCached Status = "cached"

	// StatusInvalid: the reference is not a recognizable video URL.
	StatusInvalid Status = "invalid_reference"

	// StatusInProgress: another request is generating this video right now.
	StatusInProgress Status = "in_progress"

	// StatusLimitExceeded: the user hit the daily ceiling; no state changed.
	StatusLimitExceeded Status = "limit_exceeded"

	// StatusQuotaExhausted: the generation backend ran out of API quota.
	// The job is marked failed and is safe to retry later.
	StatusQuotaExhausted Status = "quota_exhausted"

	// StatusNoTranscript: the video has no transcript to summarize.
	StatusNoTranscript Status = "no_transcript"

	// StatusError: any other failure; the job is marked failed and the next
	// request retries it.
	StatusError Status = "error"

	// StatusSkipped is used only in batch reports for items never attempted
	// after a hard-stop condition latched.
	StatusSkipped Status = "skipped"
)

// Outcome is the structured result of one process invocation. It carries
// everything the presentation layer needs to render without further lookups.
type Outcome struct {
	Status       Status
	VideoID      string
	VideoURL     string
	Title        string
	ChannelTitle string
	Summary      string
	Duration     time.Duration
	ReadingTime  string
	PublishedAt  time.Time
	Cached       bool
	GeneratedAt  time.Time
	Message      string
}

// OK reports whether the outcome carries a usable summary.
func (o Outcome) OK() bool {
	return o.Status == StatusComplete || o.Status == StatusCached
}
