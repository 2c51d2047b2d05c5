package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedStatus replays a fixed sequence of status responses, repeating the
// last one once the script runs out, and records every call.
type scriptedStatus struct {
	responses []*JobStatus
	err       error
	events    *[]string
	calls     int
}

func (s *scriptedStatus) Status(ctx context.Context, jobID string) (*JobStatus, error) {
	s.calls++
	if s.events != nil {
		*s.events = append(*s.events, "poll")
	}
	if s.err != nil {
		return nil, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func newTestPoller(attempts int, events *[]string) *Poller {
	p := NewPoller(attempts, time.Millisecond, zap.NewNop())
	p.sleep = func(ctx context.Context, d time.Duration) error {
		if events != nil {
			*events = append(*events, "sleep")
		}
		return nil
	}
	return p
}

func TestAwait_Completed(t *testing.T) {
	q := &scriptedStatus{responses: []*JobStatus{
		{Status: StatusRunning},
		{Status: StatusRunning},
		{Status: StatusCompleted, Analysis: "done"},
	}}
	st, err := newTestPoller(30, nil).Await(context.Background(), q, "job-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, "done", st.Analysis)
	assert.Equal(t, 3, q.calls)
}

func TestAwait_Failed(t *testing.T) {
	q := &scriptedStatus{responses: []*JobStatus{
		{Status: StatusFailed, Notice: "model exploded"},
	}}
	_, err := newTestPoller(30, nil).Await(context.Background(), q, "job-1")

	var analysisErr *AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, "model exploded", analysisErr.Notice)
	assert.Equal(t, 1, q.calls, "failed is terminal; no further polls")
}

func TestAwait_TimesOutAfterExactBudget(t *testing.T) {
	q := &scriptedStatus{responses: []*JobStatus{{Status: StatusRunning}}}
	_, err := newTestPoller(30, nil).Await(context.Background(), q, "job-1")

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 30, timeoutErr.Attempts)
	assert.Equal(t, 30, q.calls, "must poll exactly the attempt budget, never more")
}

func TestAwait_SleepsBeforeEveryQuery(t *testing.T) {
	var events []string
	q := &scriptedStatus{
		responses: []*JobStatus{{Status: StatusRunning}, {Status: StatusCompleted}},
		events:    &events,
	}
	_, err := newTestPoller(30, &events).Await(context.Background(), q, "job-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sleep", "poll", "sleep", "poll"}, events)
}

func TestAwait_UnknownStatusKeepsPolling(t *testing.T) {
	q := &scriptedStatus{responses: []*JobStatus{
		{Status: StatusSubmitted},
		{Status: "queued"},
		{Status: StatusCompleted},
	}}
	st, err := newTestPoller(30, nil).Await(context.Background(), q, "job-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, 3, q.calls)
}

func TestAwait_QueryErrorIsFatal(t *testing.T) {
	boom := errors.New("connection refused")
	q := &scriptedStatus{err: boom}
	_, err := newTestPoller(30, nil).Await(context.Background(), q, "job-1")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, q.calls)
}

func TestAwait_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := &scriptedStatus{responses: []*JobStatus{{Status: StatusRunning}}}
	p := NewPoller(3, time.Hour, zap.NewNop())
	_, err := p.Await(ctx, q, "job-1")
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, q.calls, "cancellation during the wait must skip the query")
}

func TestNewPoller_Defaults(t *testing.T) {
	p := NewPoller(0, 0, zap.NewNop())
	assert.Equal(t, DefaultPollAttempts, p.Attempts)
	assert.Equal(t, DefaultPollInterval, p.Interval)
}
