package loader

import (
	"testing"
)

func TestDocID(t *testing.T) {
	t.Parallel()

	a := DocID([]byte("some document content"))
	b := DocID([]byte("some document content"))
	c := DocID([]byte("different content"))

	if len(a) != 12 {
		t.Fatalf("doc id length = %d, want 12", len(a))
	}
	if a != b {
		t.Fatalf("doc id not stable: %s vs %s", a, b)
	}
	if a == c {
		t.Fatalf("distinct contents produced the same doc id")
	}
}

func TestSplitIntoSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		sections []string
	}{
		{
			name:     "no headings",
			text:     "Just a paragraph of text with no structure at all.",
			sections: []string{"main"},
		},
		{
			name:     "plain headings",
			text:     "Abstract\nWe study things.\nIntroduction\nThings are interesting.",
			sections: []string{"abstract", "introduction"},
		},
		{
			name:     "markdown and numbered headings",
			text:     "## Abstract\nShort summary.\n1. Introduction\nSetup text.\n4. Results\nNumbers.",
			sections: []string{"abstract", "introduction", "results"},
		},
		{
			name:     "preamble before first heading",
			text:     "Title line before anything.\nMethods\nWe did the thing.",
			sections: []string{"main", "methods"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			sections := SplitIntoSections(tc.text)
			if len(sections) != len(tc.sections) {
				t.Fatalf("sections = %d, want %d (%+v)", len(sections), len(tc.sections), sections)
			}
			for i, want := range tc.sections {
				if sections[i].Section != want {
					t.Fatalf("sections[%d] = %q, want %q", i, sections[i].Section, want)
				}
			}
		})
	}
}

func TestLoadMarkdown(t *testing.T) {
	t.Parallel()

	raw := []byte(`---
title: "Attention Experiments"
authors: Alice Smith, Bob Jones
---

# Abstract

We hypothesize that attention helps. Results confirm the effect.

# Results

Accuracy improved by five points. The baseline stayed flat.
`)

	doc, sentences, err := LoadMarkdown(raw, "attention.md")
	if err != nil {
		t.Fatalf("LoadMarkdown: %v", err)
	}
	if doc.Title != "Attention Experiments" {
		t.Fatalf("title = %q", doc.Title)
	}
	if len(doc.Authors) != 2 || doc.Authors[0] != "Alice Smith" {
		t.Fatalf("authors = %v", doc.Authors)
	}
	if doc.Abstract == "" {
		t.Fatalf("abstract not picked up")
	}
	if len(sentences) != 4 {
		t.Fatalf("sentences = %d, want 4", len(sentences))
	}
	if doc.Metadata["source_type"] != "markdown" {
		t.Fatalf("metadata = %v", doc.Metadata)
	}
}
