package restore

import (
	"sort"
	"strings"

	"github.com/dshills/cloak/internal/udiff"
)

// ReverseMap builds the placeholder -> original mapping for one file by
// inverting its abstraction map (original -> placeholder) and overlaying its
// secret map (already placeholder -> original). A placeholder present in both
// takes the secret map's value.
func ReverseMap(abstraction, secrets map[string]string) map[string]string {
	reverse := make(map[string]string, len(abstraction)+len(secrets))
	for original, placeholder := range abstraction {
		reverse[placeholder] = original
	}
	for placeholder, original := range secrets {
		reverse[placeholder] = original
	}
	return reverse
}

// Apply replaces every occurrence of each placeholder in content with its
// original value, longest placeholder first. Placeholders are not guaranteed
// prefix-free, so the longer of two overlapping placeholders must be restored
// before the shorter. Content with no known placeholders comes back
// unchanged.
func Apply(content string, reverse map[string]string) string {
	placeholders := make([]string, 0, len(reverse))
	for p := range reverse {
		placeholders = append(placeholders, p)
	}
	sort.Slice(placeholders, func(i, j int) bool {
		if len(placeholders[i]) != len(placeholders[j]) {
			return len(placeholders[i]) > len(placeholders[j])
		}
		return placeholders[i] < placeholders[j]
	})
	for _, p := range placeholders {
		content = strings.ReplaceAll(content, p, reverse[p])
	}
	return content
}

// Files restores every file in abstracted using its per-file maps. A file
// absent from both map sets passes through unchanged.
func Files(abstracted udiff.FileSet, secretMaps, abstractionMaps map[string]map[string]string) udiff.FileSet {
	restored := make(udiff.FileSet, len(abstracted))
	for path, content := range abstracted {
		restored[path] = Apply(content, ReverseMap(abstractionMaps[path], secretMaps[path]))
	}
	return restored
}
