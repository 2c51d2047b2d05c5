// Package comment renders the Markdown bodies the action posts to a pull
// request: the review comment with collapsible per-file diff blocks, the
// cost-control abort notice, and the failure notice.
package comment
