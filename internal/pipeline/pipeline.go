package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/cloak/internal/backend"
	"github.com/dshills/cloak/internal/budget"
	"github.com/dshills/cloak/internal/comment"
	"github.com/dshills/cloak/internal/config"
	"github.com/dshills/cloak/internal/github"
	"github.com/dshills/cloak/internal/restore"
	"github.com/dshills/cloak/internal/udiff"
)

// GitHub is the slice of the GitHub API the pipeline needs.
type GitHub interface {
	FetchDiff(ctx context.Context, prURL string) (string, error)
	PostComment(ctx context.Context, prURL, body string) error
}

// Backend is the slice of the analysis service API the pipeline needs. Its
// Status method also satisfies [backend.StatusQuerier], so the poller drives
// the same value.
type Backend interface {
	Redact(ctx context.Context, files udiff.FileSet, allowList []string) (*backend.Redaction, error)
	Submit(ctx context.Context, sub backend.SubmitRequest) (string, error)
	Status(ctx context.Context, jobID string) (*backend.JobStatus, error)
}

// Pipeline executes a review pass using already-validated configuration.
type Pipeline struct {
	cfg    config.Config
	gh     GitHub
	be     Backend
	poller *backend.Poller
	log    *zap.Logger

	// DryRun renders the review comment to Out instead of posting it and
	// suppresses all other PR writes.
	DryRun bool
	// Out receives dry-run output and workflow command annotations.
	Out io.Writer
}

// New assembles a pipeline. The poll cadence comes from cfg.
func New(cfg config.Config, gh GitHub, be Backend, log *zap.Logger) *Pipeline {
	interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	return &Pipeline{
		cfg:    cfg,
		gh:     gh,
		be:     be,
		poller: backend.NewPoller(cfg.PollAttempts, interval, log),
		log:    log,
		Out:    os.Stdout,
	}
}

// Run executes the full pass and reports the outcome to the PR. A budget
// abort returns *budget.ExceededError after the abort comment has been
// posted; any other failure posts a best-effort failure comment before the
// error is returned.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()

	prURL, err := github.PullRequestURL(p.cfg.EventPath)
	if err != nil {
		// Without a PR URL there is nowhere to report the failure.
		p.annotate("error", err.Error())
		return err
	}
	p.log.Info("resolved pull request", zap.String("pr_url", prURL))

	err = p.review(ctx, prURL)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		p.log.Info("run finished", zap.Duration("elapsed", elapsed))
		return nil
	case isBudgetAbort(err):
		// The budget stage already posted the abort comment.
		p.annotate("error", err.Error())
		p.log.Warn("run aborted", zap.Error(err), zap.Duration("elapsed", elapsed))
		return err
	default:
		p.annotate("error", err.Error())
		p.log.Error("run failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		if !p.DryRun {
			if cerr := p.gh.PostComment(ctx, prURL, comment.Failed(err)); cerr != nil {
				p.log.Error("posting failure comment", zap.Error(cerr))
			}
		}
		return err
	}
}

func (p *Pipeline) review(ctx context.Context, prURL string) error {
	diff, err := p.gh.FetchDiff(ctx, prURL)
	if err != nil {
		return fmt.Errorf("fetching PR diff: %w", err)
	}

	files := udiff.Extract(diff)
	if len(p.cfg.ExcludePaths) > 0 {
		files = files.Filter(p.cfg.ExcludePaths)
	}
	if len(files) == 0 {
		p.log.Info("no added lines to analyze")
		return nil
	}
	p.log.Info("extracted added lines", zap.Int("files", len(files)))

	if err := p.checkBudget(ctx, prURL, files); err != nil {
		return err
	}

	red, err := p.be.Redact(ctx, files, p.cfg.AllowList)
	if err != nil {
		return fmt.Errorf("redacting files: %w", err)
	}
	p.log.Info("redaction complete", zap.Int("files", len(red.AbstractedFiles)))

	jobID, err := p.be.Submit(ctx, backend.SubmitRequest{
		Task:       backend.TaskCodeReview,
		Provider:   p.cfg.Provider,
		Model:      p.cfg.Model,
		APIKeyName: p.cfg.APIKeyName,
		Files:      red.AbstractedFiles,
		Digest:     backend.ContentDigest(red.AbstractedFiles),
	})
	if err != nil {
		return fmt.Errorf("submitting job: %w", err)
	}
	p.log.Info("job submitted", zap.String("job_id", jobID))

	status, err := p.poller.Await(ctx, p.be, jobID)
	if err != nil {
		return err
	}

	restored := restore.Files(status.Result, red.SecretMaps, red.AbstractionMaps)
	diffs, err := presentationDiffs(files, restored)
	if err != nil {
		return err
	}

	body := comment.Review(status.Analysis, diffs)
	if p.DryRun {
		fmt.Fprintln(p.Out, body)
		p.log.Info("dry run, comment not posted")
		return nil
	}
	if err := p.gh.PostComment(ctx, prURL, body); err != nil {
		return fmt.Errorf("posting review comment: %w", err)
	}
	p.log.Info("review comment posted", zap.Int("suggested_changes", len(diffs)))

	p.writeStepSummary(len(files), len(diffs), status.Notice)
	return nil
}

// checkBudget enforces the token budget when one is configured. A malformed
// budget downgrades to a warning; an exceeded budget posts the abort comment
// and returns the exceeded error.
func (p *Pipeline) checkBudget(ctx context.Context, prURL string, files udiff.FileSet) error {
	res, err := budget.Check(files.Combined(), p.cfg.TokenBudget)
	if err != nil {
		var malformed *budget.MalformedError
		if errors.As(err, &malformed) {
			p.annotate("warning", malformed.Error()+", skipping budget check")
			p.log.Warn("skipping budget check", zap.Error(err))
			return nil
		}
		var exceeded *budget.ExceededError
		if errors.As(err, &exceeded) && !p.DryRun {
			if cerr := p.gh.PostComment(ctx, prURL, comment.Aborted(exceeded.Estimated, exceeded.Budget)); cerr != nil {
				p.log.Error("posting abort comment", zap.Error(cerr))
			}
		}
		return err
	}
	if res.Enforced {
		p.log.Info("token budget check passed",
			zap.Int("budget", res.Budget),
			zap.Int("estimated", res.Estimated))
	}
	return nil
}

// presentationDiffs renders a unified diff for each restored file whose
// content differs from what the PR added. Files that came back unchanged
// (ignoring surrounding whitespace) are dropped.
func presentationDiffs(original, restored udiff.FileSet) ([]comment.FileDiff, error) {
	diffs := make([]comment.FileDiff, 0, len(restored))
	for _, path := range restored.Paths() {
		before := original[path]
		after := restored[path]
		if strings.TrimSpace(after) == strings.TrimSpace(before) {
			continue
		}
		d, err := udiff.Render(before, after)
		if err != nil {
			return nil, fmt.Errorf("rendering diff for %s: %w", path, err)
		}
		if d == "" {
			continue
		}
		diffs = append(diffs, comment.FileDiff{Path: path, Diff: d})
	}
	return diffs, nil
}

// annotate emits a GitHub Actions workflow command so the message surfaces
// in the workflow run UI.
func (p *Pipeline) annotate(level, msg string) {
	fmt.Fprintf(p.Out, "::%s::%s\n", level, msg)
}

func isBudgetAbort(err error) bool {
	var exceeded *budget.ExceededError
	return errors.As(err, &exceeded)
}
