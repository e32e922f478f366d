package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindMatches(t *testing.T) {
	lines := []string{
		"# Bacon Lollys",
		"photo on Flickr",
		"| width | 500 |",
		"bacon is great",
	}

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{name: "lowercase ignores case", query: "bacon", want: []int{0, 3}},
		{name: "uppercase is exact", query: "Bacon", want: []int{0}},
		{name: "metacharacters are literal", query: "| 500", want: []int{2}},
		{name: "no match", query: "vimeo", want: nil},
		{name: "empty query", query: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findMatches(lines, searchPattern(tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("findMatches() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPagerStepWraps(t *testing.T) {
	m := NewPager("a\nb\na\nc\na")
	m.runSearch("a")
	if diff := cmp.Diff([]int{0, 2, 4}, m.search.matches); diff != "" {
		t.Fatalf("matches mismatch (-want +got):\n%s", diff)
	}

	m.step(-1)
	if m.search.current != 2 {
		t.Errorf("step(-1) from first match = %d, want 2", m.search.current)
	}
	m.step(1)
	if m.search.current != 0 {
		t.Errorf("step(1) from last match = %d, want 0", m.search.current)
	}

	m.clearSearch()
	if len(m.search.matches) != 0 {
		t.Errorf("clearSearch() left %d matches", len(m.search.matches))
	}
}
