package summarize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/core/llm"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/core/youtube"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/platform/observability"
	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/platform/worker"
	db "github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/storage"
)

const (
	opMetadata   = "metadata"
	opTranscript = "transcript"
	opSummary    = "summary"
)

// JobStore is the persistence surface the orchestrator mutates. All job and
// usage mutations in the system go through it; the unique constraint behind
// InsertProcessingJob is the sole cross-process synchronization primitive.
type JobStore interface {
	GetJob(ctx context.Context, videoURL string) (*db.Job, error)
	InsertProcessingJob(ctx context.Context, videoURL string) (string, error)
	CompleteJob(ctx context.Context, videoURL, videoTitle, channelTitle, summaryText string) error
	FailJob(ctx context.Context, videoURL string) error
	DeleteJob(ctx context.Context, videoURL string) error
	LogUsage(ctx context.Context, userID int64, videoURL string) error
}

// MetadataFetcher fetches display metadata for a video.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, videoID string) (*youtube.Video, error)
}

// TranscriptFetcher fetches the caption track of a video.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) (*youtube.Transcript, error)
}

// Summarizer generates summary text from a transcript.
type Summarizer interface {
	GenerateSummary(ctx context.Context, req llm.SummaryRequest) (string, error)
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Store          JobStore
	Quota          *QuotaEvaluator
	Metadata       MetadataFetcher
	Transcripts    TranscriptFetcher
	Summarizer     Summarizer
	BackendTimeout time.Duration
	Logger         *zerolog.Logger
}

// Orchestrator drives a single video-processing job end to end: cached
// result, limit rejection, in-flight conflict, or fresh generation.
type Orchestrator struct {
	store          JobStore
	quota          *QuotaEvaluator
	metadata       MetadataFetcher
	transcripts    TranscriptFetcher
	summarizer     Summarizer
	backendTimeout time.Duration
	logger         *zerolog.Logger
	now            func() time.Time
}

func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{
		store:          cfg.Store,
		quota:          cfg.Quota,
		metadata:       cfg.Metadata,
		transcripts:    cfg.Transcripts,
		summarizer:     cfg.Summarizer,
		backendTimeout: cfg.BackendTimeout,
		logger:         cfg.Logger,
		now:            time.Now,
	}
}

// Process runs the per-video state machine. Steps execute strictly in order:
// reference extraction, force-refresh delete, cache check, quota check,
// retryable-row delete, processing insert, generation, completion. No
// reordering is permitted: the cache check must precede the quota check, and
// the quota check must precede any mutation.
func (o *Orchestrator) Process(ctx context.Context, rawRef string, userID int64, forceNew bool) Outcome {
	outcome := o.process(ctx, rawRef, userID, forceNew)

	observability.JobsProcessed.WithLabelValues(string(outcome.Status)).Inc()

	return outcome
}

func (o *Orchestrator) process(ctx context.Context, rawRef string, userID int64, forceNew bool) Outcome {
	videoID, ok := youtube.ExtractVideoID(rawRef)
	if !ok {
		return Outcome{
			Status:   StatusInvalid,
			VideoURL: rawRef,
			Message:  fmt.Sprintf("%q is not a valid YouTube URL.", rawRef),
		}
	}

	if forceNew {
		if err := o.store.DeleteJob(ctx, rawRef); err != nil {
			return o.storageError(videoID, rawRef, err)
		}
	}

	job, err := o.store.GetJob(ctx, rawRef)
	if err != nil && !errors.Is(err, db.ErrJobNotFound) {
		return o.storageError(videoID, rawRef, err)
	}

	// A complete cache hit is the only path that bypasses the quota check.
	if !forceNew && job != nil && job.Status == db.JobStatusComplete {
		return o.cachedOutcome(ctx, videoID, rawRef, job)
	}

	allowed, err := o.quota.Allow(ctx, userID, o.now())
	if err != nil {
		return o.storageError(videoID, rawRef, err)
	}

	if !allowed {
		observability.QuotaRejections.Inc()

		return Outcome{
			Status:   StatusLimitExceeded,
			VideoID:  videoID,
			VideoURL: rawRef,
			Message:  fmt.Sprintf("You have reached your daily summary limit of %d. Please try again tomorrow.", o.quota.Ceiling()),
		}
	}

	// Failed rows and crash-orphaned processing rows are retryable: delete
	// and race for a fresh insert.
	if job != nil && (job.Status == db.JobStatusFailed || job.Status == db.JobStatusProcessing) {
		o.logger.Info().Str("video_url", rawRef).Str("status", job.Status).Msg("retrying stale job")

		if err := o.store.DeleteJob(ctx, rawRef); err != nil {
			return o.storageError(videoID, rawRef, err)
		}
	}

	if _, err := o.store.InsertProcessingJob(ctx, rawRef); err != nil {
		if errors.Is(err, db.ErrJobExists) {
			return Outcome{
				Status:   StatusInProgress,
				VideoID:  videoID,
				VideoURL: rawRef,
				Message:  "Already processing this video: " + rawRef,
			}
		}

		return o.storageError(videoID, rawRef, err)
	}

	return o.generate(ctx, videoID, rawRef, userID)
}

// generate runs the fresh-generation path. The processing row for rawRef is
// already held; every failure from here on marks it failed.
func (o *Orchestrator) generate(ctx context.Context, videoID, rawRef string, userID int64) Outcome {
	video, err := o.fetchMetadata(ctx, videoID)
	if err != nil {
		return o.failJob(ctx, videoID, rawRef, "", err)
	}

	var transcript *youtube.Transcript

	err = o.timedBackendCall(ctx, opTranscript, func(ctx context.Context) error {
		transcript, err = o.transcripts.FetchTranscript(ctx, videoID)
		return err
	})
	if err != nil {
		return o.failJob(ctx, videoID, rawRef, video.Title, err)
	}

	var summary string

	err = o.timedBackendCall(ctx, opSummary, func(ctx context.Context) error {
		summary, err = o.summarizer.GenerateSummary(ctx, llm.SummaryRequest{
			Transcript: transcript.Text,
			Title:      video.Title,
			Language:   transcript.Language,
		})
		return err
	})
	if err != nil {
		return o.failJob(ctx, videoID, rawRef, video.Title, err)
	}

	if err := o.store.CompleteJob(ctx, rawRef, video.Title, video.ChannelTitle, summary); err != nil {
		return o.failJob(ctx, videoID, rawRef, video.Title, err)
	}

	if err := o.store.LogUsage(ctx, userID, rawRef); err != nil {
		// The summary is already persisted; a lost usage event under-counts
		// the ceiling rather than losing user-visible data.
		o.logger.Error().Err(err).Int64("user_id", userID).Str("video_url", rawRef).Msg("failed to log usage event")
	}

	o.logger.Info().Int64("user_id", userID).Str("video_url", rawRef).Str("title", video.Title).Msg("summary generated")

	return Outcome{
		Status:       StatusComplete,
		VideoID:      videoID,
		VideoURL:     rawRef,
		Title:        video.Title,
		ChannelTitle: video.ChannelTitle,
		Summary:      summary,
		Duration:     video.Duration,
		ReadingTime:  EstimateReadingTime(summary),
		PublishedAt:  video.PublishedAt,
	}
}

// cachedOutcome reuses the stored summary but refreshes display metadata
// best-effort; a metadata failure degrades the display, never the result.
func (o *Orchestrator) cachedOutcome(ctx context.Context, videoID, rawRef string, job *db.Job) Outcome {
	outcome := Outcome{
		Status:       StatusCached,
		VideoID:      videoID,
		VideoURL:     rawRef,
		Title:        job.VideoTitle,
		ChannelTitle: job.ChannelTitle,
		Summary:      job.SummaryText,
		ReadingTime:  EstimateReadingTime(job.SummaryText),
		Cached:       true,
		GeneratedAt:  job.RequestedAt,
	}

	video, err := o.fetchMetadata(ctx, videoID)
	if err != nil {
		o.logger.Warn().Err(err).Str("video_id", videoID).Msg("metadata refresh for cached summary failed")

		return outcome
	}

	outcome.Duration = video.Duration
	outcome.PublishedAt = video.PublishedAt

	if outcome.ChannelTitle == "" {
		outcome.ChannelTitle = video.ChannelTitle
	}

	return outcome
}

func (o *Orchestrator) fetchMetadata(ctx context.Context, videoID string) (*youtube.Video, error) {
	var video *youtube.Video

	err := o.timedBackendCall(ctx, opMetadata, func(ctx context.Context) error {
		v, err := o.metadata.FetchMetadata(ctx, videoID)
		if err != nil {
			return err
		}

		video = v

		return nil
	})
	if err != nil {
		return nil, err
	}

	return video, nil
}

func (o *Orchestrator) timedBackendCall(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	start := time.Now()

	err := worker.RunWithTimeout(ctx, o.backendTimeout, fn)

	observability.BackendRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	return err
}

// failJob marks the job failed and translates the error into the closed
// outcome set. partialTitle lets error messages name the video when metadata
// was recovered before the failure.
func (o *Orchestrator) failJob(ctx context.Context, videoID, rawRef, partialTitle string, cause error) Outcome {
	if err := o.store.FailJob(ctx, rawRef); err != nil {
		o.logger.Error().Err(err).Str("video_url", rawRef).Msg("failed to mark job failed")
	}

	o.logger.Warn().Err(cause).Str("video_url", rawRef).Msg("summary job failed")

	display := rawRef
	if partialTitle != "" {
		display = partialTitle
	}

	outcome := Outcome{
		VideoID:  videoID,
		VideoURL: rawRef,
		Title:    partialTitle,
	}

	switch {
	case errors.Is(cause, llm.ErrQuotaExhausted):
		outcome.Status = StatusQuotaExhausted
		outcome.Message = "The summary service has run out of quota. Please try again tomorrow."
	case errors.Is(cause, youtube.ErrNoTranscript):
		outcome.Status = StatusNoTranscript
		outcome.Message = fmt.Sprintf("Transcripts are disabled or unavailable for %s.", display)
	default:
		outcome.Status = StatusError
		outcome.Message = fmt.Sprintf("An error occurred while summarizing %s.", display)
	}

	return outcome
}

// storageError covers failures before a processing row is held: nothing to
// mark failed, the request simply did not happen.
func (o *Orchestrator) storageError(videoID, rawRef string, err error) Outcome {
	o.logger.Error().Err(err).Str("video_url", rawRef).Msg("storage error")

	return Outcome{
		Status:   StatusError,
		VideoID:  videoID,
		VideoURL: rawRef,
		Message:  "A storage error occurred. Please try again.",
	}
}
