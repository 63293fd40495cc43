package blog

import "strings"

// Filter returns the posts of the given category whose title or any tag
// contains query, case-insensitively. An empty query matches every post of the
// category. The input slice is not modified.
func Filter(posts []Post, category Category, query string) []Post {
	q := strings.ToLower(query)
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Category != category {
			continue
		}
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether the post's title or any tag contains query,
// case-insensitively. Category is not considered.
func Matches(p Post, query string) bool {
	return matches(p, strings.ToLower(query))
}

func matches(p Post, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(p.Title), lowerQuery) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}
