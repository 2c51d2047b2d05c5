package udiff

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Render produces a unified diff between the original and restored content of
// one file, with three lines of context and fixed "original"/"updated"
// headers. Identical inputs yield an empty string.
func Render(original, updated string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(updated),
		FromFile: "original",
		ToFile:   "updated",
		Context:  3,
	})
}
