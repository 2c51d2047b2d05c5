package backend

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Default polling cadence: up to 30 status queries, 10 seconds apart.
const (
	DefaultPollAttempts = 30
	DefaultPollInterval = 10 * time.Second
)

// StatusQuerier is the single call Await needs; *Client satisfies it.
type StatusQuerier interface {
	Status(ctx context.Context, jobID string) (*JobStatus, error)
}

// Poller drives a submitted job to a terminal state with a bounded number of
// status queries at a fixed interval.
type Poller struct {
	Attempts int
	Interval time.Duration

	log   *zap.Logger
	sleep func(context.Context, time.Duration) error
}

// NewPoller returns a poller with the given budget. Non-positive values fall
// back to the defaults.
func NewPoller(attempts int, interval time.Duration, log *zap.Logger) *Poller {
	if attempts <= 0 {
		attempts = DefaultPollAttempts
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		Attempts: attempts,
		Interval: interval,
		log:      log,
		sleep:    sleepContext,
	}
}

// Await polls the job until it completes, fails, or the attempt budget runs
// out. Every attempt waits the full interval before querying. A "failed"
// status becomes an *AnalysisError carrying the service's notice; an
// exhausted budget becomes a *TimeoutError.
func (p *Poller) Await(ctx context.Context, q StatusQuerier, jobID string) (*JobStatus, error) {
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := p.sleep(ctx, p.Interval); err != nil {
			return nil, err
		}

		p.log.Debug("polling job",
			zap.String("job_id", jobID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.Attempts))

		st, err := q.Status(ctx, jobID)
		if err != nil {
			return nil, err
		}
		switch st.Status {
		case StatusCompleted:
			return st, nil
		case StatusFailed:
			return nil, &AnalysisError{Notice: st.Notice}
		}
	}
	return nil, &TimeoutError{Attempts: p.Attempts, Interval: p.Interval}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
