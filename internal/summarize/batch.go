package summarize

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jeholymoly/Bulk-Youtube-Summarizer/internal/platform/observability"
)

// Processor is the per-item entry point the batch driver delegates to.
type Processor interface {
	Process(ctx context.Context, rawRef string, userID int64, forceNew bool) Outcome
}

// Notifier receives incremental batch progress. Implementations must tolerate
// being called once per item; a nil Notifier disables notifications.
type Notifier interface {
	ItemStarted(ctx context.Context, index, total int, rawRef string)
	ItemDone(ctx context.Context, index, total int, outcome Outcome)
	Latched(ctx context.Context, status Status)
}

// Counts aggregates batch results by category.
type Counts struct {
	New     int
	Cached  int
	Failed  int
	Skipped int
}

func (c Counts) Total() int {
	return c.New + c.Cached + c.Failed + c.Skipped
}

// Batch processes a list of video references sequentially. Once any item hits
// the user ceiling or the backend quota the batch latches: remaining items are
// recorded as skipped and the processor is never invoked for them.
type Batch struct {
	processor Processor
	notifier  Notifier
	logger    *zerolog.Logger
}

func NewBatch(processor Processor, notifier Notifier, logger *zerolog.Logger) *Batch {
	return &Batch{processor: processor, notifier: notifier, logger: logger}
}

// Run processes refs in order after string-level deduplication and returns
// the final report. Deduplication is on the raw strings only; two different
// spellings of the same video are two items.
func (b *Batch) Run(ctx context.Context, refs []string, userID int64, forceNew bool) *Report {
	deduped := dedupeRefs(refs)

	report := &Report{}

	latched := false
	total := len(deduped)

	for i, ref := range deduped {
		if latched {
			outcome := Outcome{
				Status:   StatusSkipped,
				VideoURL: ref,
				Message:  "Skipped: a previous item hit a limit.",
			}
			b.record(report, outcome)
			b.notifyDone(ctx, i, total, outcome)

			continue
		}

		if b.notifier != nil {
			b.notifier.ItemStarted(ctx, i, total, ref)
		}

		outcome := b.processor.Process(ctx, ref, userID, forceNew)
		b.record(report, outcome)
		b.notifyDone(ctx, i, total, outcome)

		if outcome.Status == StatusLimitExceeded || outcome.Status == StatusQuotaExhausted {
			latched = true

			b.logger.Info().Str("status", string(outcome.Status)).Int("remaining", total-i-1).Msg("batch latched")

			if b.notifier != nil {
				b.notifier.Latched(ctx, outcome.Status)
			}
		}
	}

	return report
}

func (b *Batch) record(report *Report, outcome Outcome) {
	report.Items = append(report.Items, outcome)

	switch outcome.Status {
	case StatusComplete:
		report.Counts.New++
	case StatusCached:
		report.Counts.Cached++
	case StatusSkipped:
		report.Counts.Skipped++
	default:
		report.Counts.Failed++
	}

	observability.BatchItems.WithLabelValues(string(outcome.Status)).Inc()
}

func (b *Batch) notifyDone(ctx context.Context, index, total int, outcome Outcome) {
	if b.notifier == nil {
		return
	}

	b.notifier.ItemDone(ctx, index, total, outcome)
}

func dedupeRefs(refs []string) []string {
	seen := make(map[string]struct{}, len(refs))
	out := make([]string, 0, len(refs))

	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}

		seen[ref] = struct{}{}
		out = append(out, ref)
	}

	return out
}
