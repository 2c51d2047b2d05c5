package backend

import (
	"fmt"
	"time"
)

// RequestError is a non-success HTTP response from the redaction or analysis
// service. Op names the call that failed.
type RequestError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s failed: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// AnalysisError is a job that reached the terminal "failed" status. Notice is
// the reason reported by the service.
type AnalysisError struct {
	Notice string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %s", e.Notice)
}

// TimeoutError means the poll budget was exhausted without the job reaching a
// terminal status.
type TimeoutError struct {
	Attempts int
	Interval time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for analysis results after %d polls", e.Attempts)
}
