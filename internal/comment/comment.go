package comment

import (
	"fmt"
	"strings"
)

const (
	reviewHeader  = "### 🛡️ Cloak Security & Code Review"
	abortedHeader = "### 🛡️ Cloak Action Aborted"
	failedHeader  = "### 🛡️ Cloak Action Failed"
)

// defaultAnalysis fills in when the service returns no summary text.
const defaultAnalysis = "No analysis provided by the AI."

// FileDiff is one restored file's presentation diff.
type FileDiff struct {
	Path string
	Diff string
}

// Review builds the PR comment for a completed run: the analysis summary
// followed by one collapsible diff block per changed file, or a no-changes
// line when nothing was suggested.
func Review(analysis string, diffs []FileDiff) string {
	if analysis == "" {
		analysis = defaultAnalysis
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", reviewHeader)
	fmt.Fprintf(&b, "**AI Analysis:**\n\n> %s\n\n---", analysis)

	if len(diffs) == 0 {
		b.WriteString("\n\n**✅ No code changes were suggested.**\n")
		return b.String()
	}

	b.WriteString("\n\n**Suggested Changes:**\n")
	for _, fd := range diffs {
		fmt.Fprintf(&b, "\n<details><summary><code>%s</code></summary>\n\n```diff\n%s\n```\n\n</details>\n",
			fd.Path, fd.Diff)
	}
	return b.String()
}

// Aborted builds the PR comment posted before a budget abort terminates the
// run.
func Aborted(estimated, budget int) string {
	return fmt.Sprintf("%s\n\n**Cost Control**: Analysis aborted. Estimated token count (~%d) exceeds budget of %d.",
		abortedHeader, estimated, budget)
}

// Failed builds the best-effort PR comment for a pipeline failure.
func Failed(err error) string {
	return fmt.Sprintf("%s\n\nAn unexpected error occurred: `%v`", failedHeader, err)
}
