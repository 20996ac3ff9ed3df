package markdown

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		wantTitle   string
		wantAuthors []string
		wantInBody  string
	}{
		{
			name:       "no front matter",
			raw:        "# My Heading\n\nBody paragraph.",
			wantTitle:  "My Heading",
			wantInBody: "Body paragraph.",
		},
		{
			name:        "inline authors",
			raw:         "---\ntitle: A Study\nauthors: Alice, Bob\n---\ntext here",
			wantTitle:   "A Study",
			wantAuthors: []string{"Alice", "Bob"},
			wantInBody:  "text here",
		},
		{
			name:        "author dash list",
			raw:         "---\ntitle: 'Quoted Title'\nauthors:\n  - Alice\n  - Bob\n---\nbody",
			wantTitle:   "Quoted Title",
			wantAuthors: []string{"Alice", "Bob"},
			wantInBody:  "body",
		},
		{
			name:       "unterminated front matter treated as body",
			raw:        "---\ntitle: broken\nno closing fence",
			wantTitle:  "",
			wantInBody: "no closing fence",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			meta, body := ExtractText([]byte(tc.raw))
			if meta.Title != tc.wantTitle {
				t.Fatalf("title = %q, want %q", meta.Title, tc.wantTitle)
			}
			if tc.wantAuthors != nil && !reflect.DeepEqual(meta.Authors, tc.wantAuthors) {
				t.Fatalf("authors = %v, want %v", meta.Authors, tc.wantAuthors)
			}
			if !strings.Contains(body, tc.wantInBody) {
				t.Fatalf("body %q missing %q", body, tc.wantInBody)
			}
		})
	}
}
