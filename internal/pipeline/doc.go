// Package pipeline runs one review pass over a pull request: fetch the PR
// diff, gate on the token budget, redact, submit for analysis, poll the job,
// restore placeholders, and post the rendered result as a PR comment.
//
// The pipeline reports its own failures: any error after the PR URL is known
// produces a best-effort failure comment, and a budget abort posts its own
// comment before stopping. Callers decide the process exit code from the
// returned error.
package pipeline
