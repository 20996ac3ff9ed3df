package loader

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "two plain sentences",
			text: "The model converged quickly. Training was stable.",
			want: []string{"The model converged quickly.", "Training was stable."},
		},
		{
			name: "citations stripped",
			text: "Prior work [12] showed gains. Later studies (3, 4) agreed.",
			want: []string{"Prior work showed gains.", "Later studies agreed."},
		},
		{
			name: "no split before lowercase",
			text: "Results at p < 0.05 were significant. the end",
			want: []string{"Results at p < 0.05 were significant. the end"},
		},
		{
			name: "fragments dropped",
			text: "A real sentence follows here. Ab",
			want: []string{"A real sentence follows here."},
		},
		{
			name: "newlines collapse to spaces",
			text: "First part\ncontinues here. Second sentence\nwraps too.",
			want: []string{"First part continues here.", "Second sentence wraps too."},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := SplitSentences(tc.text)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitSentences(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestSentenceRecords(t *testing.T) {
	t.Parallel()

	sections, records := sentenceRecords("abc123", SplitIntoSections(
		"Introduction\nFirst sentence here. Second sentence here.\nMethods\nThird sentence here.",
	))

	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, record := range records {
		if record.Position != i {
			t.Fatalf("position = %d, want %d", record.Position, i)
		}
		if record.DocID != "abc123" {
			t.Fatalf("doc id = %q", record.DocID)
		}
	}
	if records[0].SentenceID != "abc123_sent_0" || records[2].SentenceID != "abc123_sent_2" {
		t.Fatalf("sentence ids wrong: %s, %s", records[0].SentenceID, records[2].SentenceID)
	}
	if records[2].Section != "methods" {
		t.Fatalf("section = %q, want methods", records[2].Section)
	}
	if len(sections) != 2 || len(sections[0].Sentences) != 2 || len(sections[1].Sentences) != 1 {
		t.Fatalf("section sentence ids wrong: %+v", sections)
	}
}
