package blog

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPost_VisibleDefault(t *testing.T) {
	if !(Post{}).Visible() {
		t.Error("post without isVisible should be visible")
	}
	if (Post{IsVisible: BoolPtr(false)}).Visible() {
		t.Error("isVisible=false should be hidden")
	}
	if !(Post{IsVisible: BoolPtr(true)}).Visible() {
		t.Error("isVisible=true should be visible")
	}
}

func TestPost_DecodeAbsentVisibility(t *testing.T) {
	var p Post
	if err := json.Unmarshal([]byte(`{"id":"1","title":"t","category":"Tech","tags":["a"]}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.IsVisible != nil {
		t.Errorf("IsVisible = %v, want nil", *p.IsVisible)
	}
	if !p.Visible() {
		t.Error("absent isVisible should decode as visible")
	}
}

func TestPost_CreateOmitsID(t *testing.T) {
	data, err := json.Marshal(Post{Title: "new"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), `"id"`) {
		t.Errorf("new post JSON should not carry an id: %s", data)
	}
}

func TestCategory_Valid(t *testing.T) {
	if !CategoryTech.Valid() || !CategoryPersonal.Valid() {
		t.Error("known categories should be valid")
	}
	if Category("Travel").Valid() {
		t.Error("unknown category should be invalid")
	}
}

func TestReadingMinutes(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 1},
		{50, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		content := strings.Repeat("word ", tt.words)
		if got := ReadingMinutes(content); got != tt.want {
			t.Errorf("ReadingMinutes(%d words) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	posts := []Post{
		{Category: CategoryTech},
		{Category: CategoryTech, IsVisible: BoolPtr(false)},
		{Category: CategoryPersonal},
	}
	got := ComputeStats(posts)
	want := Stats{Total: 3, Tech: 2, Personal: 1, Hidden: 1}
	if got != want {
		t.Errorf("ComputeStats = %+v, want %+v", got, want)
	}
	if (ComputeStats(nil) != Stats{}) {
		t.Error("ComputeStats(nil) should be zero")
	}
}
