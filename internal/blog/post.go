// Package blog holds the post model and the editing, filtering and
// management logic behind the blog pages.
package blog

import (
	"math"
	"strings"
)

// Category is the fixed set of blog sections.
type Category string

const (
	CategoryTech     Category = "Tech"
	CategoryPersonal Category = "Personal"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryTech, CategoryPersonal}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Post is a blog entry as exchanged with the backend.
type Post struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	Category  Category `json:"category"`
	Tags      []string `json:"tags"`
	Author    string   `json:"author"`
	Date      string   `json:"date"`
	IsVisible *bool    `json:"isVisible,omitempty"`
}

// Visible reports the post's visibility; an absent flag means visible.
func (p Post) Visible() bool {
	return p.IsVisible == nil || *p.IsVisible
}

// wordsPerMinute is the reading speed used for ReadingMinutes.
const wordsPerMinute = 200

// ReadingMinutes estimates reading time for content, never less than one minute.
func ReadingMinutes(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }
