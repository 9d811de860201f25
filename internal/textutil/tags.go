package textutil

import "strings"

// CollapseSpace trims value and folds every internal whitespace run into a
// single space.
func CollapseSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeTags collapses whitespace in each tag, drops empty entries and
// removes case-insensitive duplicates. The first spelling and the original
// order are kept. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = CollapseSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}
