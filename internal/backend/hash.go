package backend

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/dshills/cloak/internal/udiff"
)

// ContentDigest computes the tamper-evident digest included with a
// submission: SHA-256 over the concatenation of all non-empty file contents,
// sorted before concatenation so the digest does not depend on FileSet
// iteration order.
func ContentDigest(files udiff.FileSet) string {
	contents := make([]string, 0, len(files))
	for _, content := range files {
		if content != "" {
			contents = append(contents, content)
		}
	}
	sort.Strings(contents)

	sum := sha256.Sum256([]byte(strings.Join(contents, "")))
	return hex.EncodeToString(sum[:])
}
