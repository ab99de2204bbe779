package summarize

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProcessor returns a canned outcome per ref and records call order.
type scriptedProcessor struct {
	outcomes map[string]Outcome
	calls    []string
}

func (s *scriptedProcessor) Process(_ context.Context, rawRef string, _ int64, _ bool) Outcome {
	s.calls = append(s.calls, rawRef)

	outcome, ok := s.outcomes[rawRef]
	if !ok {
		outcome = Outcome{Status: StatusComplete, VideoURL: rawRef, Title: rawRef}
	}

	outcome.VideoURL = rawRef

	return outcome
}

type recordingNotifier struct {
	started []string
	done    []Status
	latched []Status
}

func (r *recordingNotifier) ItemStarted(_ context.Context, _, _ int, rawRef string) {
	r.started = append(r.started, rawRef)
}

func (r *recordingNotifier) ItemDone(_ context.Context, _, _ int, outcome Outcome) {
	r.done = append(r.done, outcome.Status)
}

func (r *recordingNotifier) Latched(_ context.Context, status Status) {
	r.latched = append(r.latched, status)
}

func newTestBatch(p Processor, n Notifier) *Batch {
	logger := zerolog.Nop()

	return NewBatch(p, n, &logger)
}

func TestBatchRunCountsAndOrder(t *testing.T) {
	processor := &scriptedProcessor{outcomes: map[string]Outcome{
		"a": {Status: StatusComplete},
		"b": {Status: StatusCached},
		"c": {Status: StatusError},
	}}
	batch := newTestBatch(processor, nil)

	report := batch.Run(context.Background(), []string{"a", "b", "c"}, 1, false)

	assert.Equal(t, []string{"a", "b", "c"}, processor.calls)
	assert.Equal(t, Counts{New: 1, Cached: 1, Failed: 1}, report.Counts)
	require.Len(t, report.Items, 3)
}

func TestBatchRunDeduplicatesRefs(t *testing.T) {
	processor := &scriptedProcessor{}
	batch := newTestBatch(processor, nil)

	report := batch.Run(context.Background(), []string{"a", "b", "a", "a", "b"}, 1, false)

	assert.Equal(t, []string{"a", "b"}, processor.calls)
	assert.Equal(t, 2, report.Counts.Total())
}

func TestBatchRunLatchesOnLimitExceeded(t *testing.T) {
	processor := &scriptedProcessor{outcomes: map[string]Outcome{
		"b": {Status: StatusLimitExceeded},
	}}
	notifier := &recordingNotifier{}
	batch := newTestBatch(processor, notifier)

	report := batch.Run(context.Background(), []string{"a", "b", "c", "d"}, 1, false)

	assert.Equal(t, []string{"a", "b"}, processor.calls, "items after the latch never reach the processor")
	assert.Equal(t, Counts{New: 1, Failed: 1, Skipped: 2}, report.Counts)

	require.Len(t, report.Items, 4)
	assert.Equal(t, StatusSkipped, report.Items[2].Status)
	assert.Equal(t, StatusSkipped, report.Items[3].Status)

	assert.Equal(t, []Status{StatusLimitExceeded}, notifier.latched)
	assert.Equal(t, []string{"a", "b"}, notifier.started)
	assert.Len(t, notifier.done, 4, "skipped items still produce done notifications")
}

func TestBatchRunLatchesOnQuotaExhausted(t *testing.T) {
	processor := &scriptedProcessor{outcomes: map[string]Outcome{
		"a": {Status: StatusQuotaExhausted},
	}}
	batch := newTestBatch(processor, nil)

	report := batch.Run(context.Background(), []string{"a", "b", "c"}, 1, false)

	assert.Equal(t, []string{"a"}, processor.calls)
	assert.Equal(t, Counts{Failed: 1, Skipped: 2}, report.Counts)
}

func TestBatchRunFailureDoesNotLatch(t *testing.T) {
	processor := &scriptedProcessor{outcomes: map[string]Outcome{
		"a": {Status: StatusError},
		"b": {Status: StatusNoTranscript},
	}}
	batch := newTestBatch(processor, nil)

	report := batch.Run(context.Background(), []string{"a", "b", "c"}, 1, false)

	assert.Equal(t, []string{"a", "b", "c"}, processor.calls)
	assert.Equal(t, Counts{New: 1, Failed: 2}, report.Counts)
}

func TestReportRenderUnlimited(t *testing.T) {
	report := &Report{
		Items: []Outcome{
			{Status: StatusComplete, Title: "First", ReadingTime: "~1 min read"},
			{Status: StatusCached, Title: "Second", ReadingTime: "~2 mins read"},
			{Status: StatusSkipped, VideoURL: "https://youtu.be/ccccccccccc"},
		},
		Counts: Counts{New: 1, Cached: 1, Skipped: 1},
	}

	out := report.Render(0)

	assert.Contains(t, out, "Processed 3 video(s): 1 new, 1 cached, 0 failed, 1 skipped.")
	assert.Contains(t, out, "First (~1 min read)")
	assert.Contains(t, out, "Second (cached, ~2 mins read)")
	assert.Contains(t, out, "https://youtu.be/ccccccccccc (skipped)")
	assert.NotContains(t, out, "omitted")
}

func TestReportRenderTruncatesAtEntryBoundary(t *testing.T) {
	report := &Report{Counts: Counts{New: 10}}
	for i := 0; i < 10; i++ {
		report.Items = append(report.Items, Outcome{
			Status:      StatusComplete,
			Title:       strings.Repeat("x", 40),
			ReadingTime: "~1 min read",
		})
	}

	full := report.Render(0)
	capped := report.Render(200)

	require.Less(t, len(capped), len(full))
	assert.LessOrEqual(t, len(capped), 200)
	assert.Contains(t, capped, "omitted")

	// Every line before the marker is a whole entry.
	lines := strings.Split(capped, "\n")
	for _, line := range lines[1 : len(lines)-1] {
		assert.True(t, strings.HasSuffix(line, "(~1 min read)"), "line cut mid-entry: %q", line)
	}
}

func TestReportRenderTinyCapKeepsHeaderOnly(t *testing.T) {
	report := &Report{Counts: Counts{New: 3}}
	for i := 0; i < 3; i++ {
		report.Items = append(report.Items, Outcome{
			Status:      StatusComplete,
			Title:       strings.Repeat("y", 30),
			ReadingTime: "~1 min read",
		})
	}

	header := strings.Split(report.Render(0), "\n")[0]

	// A cap with no room past the header yields the bare header: no entry
	// lines and no marker squeezed in over budget.
	out := report.Render(len(header) + 1)

	assert.Equal(t, header, out)
	assert.LessOrEqual(t, len(out), len(header)+1)
}

func TestReportRenderFitsWithoutMarker(t *testing.T) {
	report := &Report{
		Items:  []Outcome{{Status: StatusComplete, Title: "Only", ReadingTime: "~1 min read"}},
		Counts: Counts{New: 1},
	}

	out := report.Render(4096)

	assert.NotContains(t, out, "omitted")
	assert.Contains(t, out, "Only")
}
