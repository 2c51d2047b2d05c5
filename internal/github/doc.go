// Package github is the minimal GitHub REST surface the action needs: fetch
// the triggering pull request's unified diff and post one Markdown comment
// back to it.
//
// Both calls work from the full pull-request API URL carried in the workflow
// event payload, so the client never constructs repository routes itself. The
// comment target is derived by swapping /pulls/ for /issues/, the
// issue-comment route GitHub uses for top-level PR comments.
package github
