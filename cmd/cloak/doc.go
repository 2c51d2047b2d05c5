// Cloak is a GitHub Action step that reviews pull requests without exposing
// their code.
//
// It extracts the added lines from the triggering PR's diff, has the Cloak
// redaction service replace secrets and identifiers with placeholders,
// submits only the abstracted code for AI analysis, restores the placeholders
// in the returned suggestions, and posts the readable result as a PR comment.
//
// Usage:
//
//	cloak run                 # run the review pass (inside a workflow)
//	cloak run --dry-run       # render the comment to stdout instead of posting
//	cloak config init         # write a starter cloak.yaml
//	cloak config show         # print the effective configuration
//
// See https://github.com/dshills/cloak for full documentation.
package main
