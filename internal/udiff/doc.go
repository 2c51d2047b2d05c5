// Package udiff parses unified diffs into per-file added content and renders
// presentation diffs between original and restored file text.
//
// [Extract] keeps only added lines (a leading '+' outside the '+++' file
// header), keyed by the path in the preceding '+++ b/' header; files whose
// hunks add nothing are omitted. [Render] produces a single-file unified diff
// with fixed "original"/"updated" headers for display in a PR comment.
package udiff
