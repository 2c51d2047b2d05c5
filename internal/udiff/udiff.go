package udiff

import (
	"path/filepath"
	"sort"
	"strings"
)

// FileSet maps a file path to the text content associated with it for one
// pipeline run. Stages treat a received FileSet as read-only; every
// transformation produces a new one.
type FileSet map[string]string

// Paths returns the file paths in sorted order so that iteration over a
// FileSet is deterministic.
func (fs FileSet) Paths() []string {
	paths := make([]string, 0, len(fs))
	for p := range fs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Combined returns the concatenation of all contents in sorted-path order.
func (fs FileSet) Combined() string {
	var b strings.Builder
	for _, p := range fs.Paths() {
		b.WriteString(fs[p])
	}
	return b.String()
}

// Extract parses the unified diff of a pull request into a FileSet holding,
// for each file with at least one added line, the newline-joined content of
// only its added lines. Removed and context lines are discarded. A diff with
// no "+++ b/" headers yields an empty FileSet.
func Extract(diff string) FileSet {
	files := FileSet{}
	var current string
	var added []string

	flush := func() {
		if current != "" && len(added) > 0 {
			files[current] = strings.Join(added, "\n")
		}
	}

	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++ b/"):
			flush()
			current = strings.TrimPrefix(line, "+++ b/")
			added = nil
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			added = append(added, line[1:])
		}
	}
	flush()

	return files
}

// Filter returns a FileSet without the entries whose path matches any of the
// given glob patterns. An empty pattern list returns fs unchanged.
func (fs FileSet) Filter(excludes []string) FileSet {
	if len(excludes) == 0 {
		return fs
	}
	kept := FileSet{}
	for path, content := range fs {
		if !MatchesAny(path, excludes) {
			kept[path] = content
		}
	}
	return kept
}

// MatchesAny returns true if the path matches any of the given glob patterns.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}
