package pipeline

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// writeStepSummary appends a short run report to the file named by
// GITHUB_STEP_SUMMARY when the runner provides one. Failures are logged,
// never fatal.
func (p *Pipeline) writeStepSummary(analyzed, suggested int, notice string) {
	if p.cfg.StepSummaryPath == "" {
		return
	}

	var b strings.Builder
	b.WriteString("## 🛡️ Cloak Review\n\n")
	fmt.Fprintf(&b, "- Files analyzed: %d\n", analyzed)
	fmt.Fprintf(&b, "- Files with suggested changes: %d\n", suggested)
	if notice != "" {
		fmt.Fprintf(&b, "- Notice: %s\n", notice)
	}
	b.WriteString("\n")

	f, err := os.OpenFile(p.cfg.StepSummaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		p.log.Warn("opening step summary", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		p.log.Warn("writing step summary", zap.Error(err))
	}
}
