package loader

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"scireasoner/pkg/common"
)

var (
	citationPattern = regexp.MustCompile(`\[\d+(?:\s*,\s*\d+)*\]|\(\d+(?:\s*,\s*\d+)*\)`)
	boundaryPattern = regexp.MustCompile(`([.!?])\s+([A-Z])`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// SplitSentences splits running text into sentences. Numeric citation
// markers are stripped first so they neither break sentences nor survive
// as fragments, and boundaries are only taken before an uppercase letter
// to keep abbreviations intact.
func SplitSentences(text string) []string {
	text = spacePattern.ReplaceAllString(text, " ")
	text = citationPattern.ReplaceAllString(text, " ")
	marked := boundaryPattern.ReplaceAllString(text, "$1\x00$2")

	sentences := make([]string, 0)
	for _, part := range strings.Split(marked, "\x00") {
		sentence := strings.TrimSpace(spacePattern.ReplaceAllString(part, " "))
		if len(sentence) < 3 || !containsLetter(sentence) {
			continue
		}
		sentences = append(sentences, sentence)
	}
	return sentences
}

// sentenceRecords assigns document-wide sentence ids and positions across
// the sections, filling in each section's sentence id list.
func sentenceRecords(docID string, sections []common.Section) ([]common.Section, []common.Sentence) {
	records := make([]common.Sentence, 0)
	position := 0
	for i := range sections {
		texts := SplitSentences(sections[i].RawText)
		ids := make([]string, 0, len(texts))
		for _, text := range texts {
			id := fmt.Sprintf("%s_sent_%d", docID, position)
			records = append(records, common.Sentence{
				SentenceID: id,
				Text:       text,
				Section:    sections[i].Section,
				DocID:      docID,
				Position:   position,
			})
			ids = append(ids, id)
			position++
		}
		sections[i].Sentences = ids
	}
	return sections, records
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
