package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/cloak/internal/udiff"
)

// TaskCodeReview is the analysis task this action submits.
const TaskCodeReview = "code_review"

// actionTokenHeader authenticates the action with the analysis service.
const actionTokenHeader = "X-Cloak-Action-Token"

// Job status values reported by the service.
const (
	StatusSubmitted = "submitted"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const (
	opRedact = "redaction request"
	opSubmit = "job submission"
	opStatus = "status query"
)

// Client talks to the Cloak redaction and analysis services.
type Client struct {
	baseURL     string
	actionToken string
	requestID   string
	httpCli     *http.Client
	log         *zap.Logger
}

// NewClient returns a client for the service rooted at baseURL. Every request
// carries requestID in an X-Request-ID header for log correlation.
func NewClient(baseURL, actionToken, requestID string, log *zap.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		actionToken: actionToken,
		requestID:   requestID,
		httpCli:     &http.Client{Timeout: 120 * time.Second},
		log:         log,
	}
}

// Redaction is the redaction service's response: the abstracted files plus
// the per-file maps needed to restore them.
type Redaction struct {
	AbstractedFiles udiff.FileSet                `json:"abstracted_files"`
	SecretMaps      map[string]map[string]string `json:"secret_maps"`
	AbstractionMaps map[string]map[string]string `json:"abstraction_maps"`
}

// Redact submits the files and optional allow list for abstraction. The
// redaction endpoint is unauthenticated; only job endpoints take the action
// token.
func (c *Client) Redact(ctx context.Context, files udiff.FileSet, allowList []string) (*Redaction, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if len(allowList) > 0 {
		allowJSON, err := json.Marshal(allowList)
		if err != nil {
			return nil, fmt.Errorf("marshaling allow list: %w", err)
		}
		if err := form.WriteField("allow_list_json", string(allowJSON)); err != nil {
			return nil, fmt.Errorf("writing allow list field: %w", err)
		}
	}
	if err := writeFileParts(form, files); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/redact", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("X-Request-ID", c.requestID)

	status, body, err := c.do(req, opRedact)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &RequestError{Op: opRedact, StatusCode: status, Body: truncateForLog(string(body))}
	}

	var red Redaction
	if err := json.Unmarshal(body, &red); err != nil {
		return nil, fmt.Errorf("parsing redaction response: %w", err)
	}
	return &red, nil
}

// SubmitRequest carries everything the analysis service needs to start a job.
type SubmitRequest struct {
	Task       string
	Provider   string
	Model      string
	APIKeyName string
	Files      udiff.FileSet
	Digest     string
}

// Submit starts an analysis job over the abstracted files and returns the
// service's job identifier.
func (c *Client) Submit(ctx context.Context, sub SubmitRequest) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"task", sub.Task},
		{"provider", sub.Provider},
		{"model", sub.Model},
		{"api_key_name", sub.APIKeyName},
		{"token_saver_enabled", "True"},
		{"tamper_evident_hash", sub.Digest},
	}
	for _, f := range fields {
		if err := form.WriteField(f.name, f.value); err != nil {
			return "", fmt.Errorf("writing %s field: %w", f.name, err)
		}
	}
	if err := writeFileParts(form, sub.Files); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/process_code", &buf)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set(actionTokenHeader, c.actionToken)
	req.Header.Set("X-Request-ID", c.requestID)

	status, body, err := c.do(req, opSubmit)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", &RequestError{Op: opSubmit, StatusCode: status, Body: truncateForLog(string(body))}
	}

	var out struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parsing submission response: %w", err)
	}
	if out.JobID == "" {
		return "", fmt.Errorf("submission response carried no job_id")
	}
	return out.JobID, nil
}

// JobStatus is one status-endpoint response. Analysis and Result are only
// populated once Status is "completed"; Notice carries a failure reason.
type JobStatus struct {
	Status   string        `json:"status"`
	Analysis string        `json:"analysis"`
	Result   udiff.FileSet `json:"result"`
	Notice   string        `json:"notice"`
}

// Status queries the state of a submitted job. Job state lives in the
// response body, not the HTTP status: any response that parses as JSON is
// reported as-is, and the poller decides what to do with its status field.
func (c *Client) Status(ctx context.Context, jobID string) (*JobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(actionTokenHeader, c.actionToken)
	req.Header.Set("X-Request-ID", c.requestID)

	status, body, err := c.do(req, opStatus)
	if err != nil {
		return nil, err
	}

	var st JobStatus
	if err := json.Unmarshal(body, &st); err != nil {
		if status < 200 || status >= 300 {
			return nil, &RequestError{Op: opStatus, StatusCode: status, Body: truncateForLog(string(body))}
		}
		return nil, fmt.Errorf("parsing status response: %w", err)
	}
	return &st, nil
}

// do executes the request and returns the HTTP status and body. Only
// transport and read failures are errors; status-code policy belongs to the
// caller.
func (c *Client) do(req *http.Request, op string) (int, []byte, error) {
	c.log.Debug("backend request",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()))

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: reading response: %w", op, err)
	}

	c.log.Debug("backend response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.String("body", truncateForLog(string(body))))
	return resp.StatusCode, body, nil
}

var filenameEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeFileParts adds one "files" part per file, in sorted-path order, with
// the text/plain content type the service expects.
func writeFileParts(form *multipart.Writer, files udiff.FileSet) error {
	for _, path := range files.Paths() {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files"; filename="%s"`, filenameEscaper.Replace(path)))
		header.Set("Content-Type", "text/plain")
		part, err := form.CreatePart(header)
		if err != nil {
			return fmt.Errorf("creating part for %s: %w", path, err)
		}
		if _, err := part.Write([]byte(files[path])); err != nil {
			return fmt.Errorf("writing part for %s: %w", path, err)
		}
	}
	return nil
}

const logBodyLimit = 512

func truncateForLog(s string) string {
	if len(s) <= logBodyLimit {
		return s
	}
	return s[:logBodyLimit] + "..."
}
