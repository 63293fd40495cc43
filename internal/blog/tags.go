package blog

import "strings"

// tagSeparator joins tags for the editor's single text input.
const tagSeparator = ", "

// JoinTags renders tags as the comma-joined string shown in the editor.
func JoinTags(tags []string) string {
	return strings.Join(tags, tagSeparator)
}

// SplitTags parses the editor's tag string: split on commas, trim each part,
// drop empties, keep order.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
