// Package loader turns source files into Document records with sectioned
// text and sentence records ready for extraction. Format-specific text
// extraction lives in the pdf, web and markdown subpackages.
package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"scireasoner/pkg/common"
	"scireasoner/pkg/loader/markdown"
	"scireasoner/pkg/loader/pdf"
	"scireasoner/pkg/loader/web"
	"scireasoner/pkg/logger"
)

// sectionKeywords are the canonical section names recognized as headings.
var sectionKeywords = []string{
	"abstract",
	"introduction",
	"background",
	"related work",
	"methods",
	"methodology",
	"experiments",
	"results",
	"discussion",
	"conclusion",
	"acknowledgments",
	"references",
}

// DocID derives the stable document id from the raw content.
func DocID(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])[:12]
}

// LoadPDF ingests a PDF file.
func LoadPDF(path string) (*common.Document, []common.Sentence, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	text, err := pdf.ExtractText(path)
	if err != nil {
		return nil, nil, err
	}
	title := firstLineTitle(text)
	if title == "" {
		title = baseName(path)
	}
	doc, sentences := buildDocument(content, title, nil, text, map[string]string{
		"source_type": "pdf",
		"source":      path,
	})
	return doc, sentences, nil
}

// LoadHTML ingests raw HTML. The source URL may be empty.
func LoadHTML(raw []byte, source string) (*common.Document, []common.Sentence, error) {
	title, text, err := web.ExtractText(raw, source)
	if err != nil {
		return nil, nil, err
	}
	if title == "" {
		title = baseName(source)
	}
	doc, sentences := buildDocument(raw, title, nil, text, map[string]string{
		"source_type": "html",
		"source":      source,
	})
	return doc, sentences, nil
}

// LoadMarkdown ingests raw Markdown. The name is used as a title fallback
// when neither front matter nor a heading provides one.
func LoadMarkdown(raw []byte, name string) (*common.Document, []common.Sentence, error) {
	meta, body := markdown.ExtractText(raw)
	title := meta.Title
	if title == "" {
		title = baseName(name)
	}
	doc, sentences := buildDocument(raw, title, meta.Authors, body, map[string]string{
		"source_type": "markdown",
		"source":      name,
	})
	return doc, sentences, nil
}

// buildDocument assembles the document record: content-derived id, section
// split, sentence records and the abstract picked from the section whose
// name mentions it.
func buildDocument(content []byte, title string, authors []string, text string, metadata map[string]string) (*common.Document, []common.Sentence) {
	docID := DocID(content)
	sections := SplitIntoSections(text)
	sections, sentences := sentenceRecords(docID, sections)

	abstract := ""
	for _, section := range sections {
		if strings.Contains(strings.ToLower(section.Section), "abstract") {
			abstract = strings.TrimSpace(section.RawText)
			break
		}
	}

	doc := &common.Document{
		DocID:    docID,
		Title:    title,
		Authors:  authors,
		Abstract: abstract,
		Sections: sections,
		Metadata: metadata,
	}
	logger.Debug("document loaded",
		"doc_id", docID,
		"sections", len(sections),
		"sentences", len(sentences),
	)
	return doc, sentences
}

// SplitIntoSections breaks running text at lines matching the canonical
// section headings. Text before the first heading lands in a "main"
// section.
func SplitIntoSections(text string) []common.Section {
	sections := make([]common.Section, 0)
	current := common.Section{Section: "main"}
	var sb strings.Builder

	flush := func() {
		raw := strings.TrimSpace(sb.String())
		if raw != "" {
			current.RawText = raw
			sections = append(sections, current)
		}
		sb.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if name, ok := matchSectionHeading(line); ok {
			flush()
			current = common.Section{Section: name}
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	flush()
	return sections
}

// matchSectionHeading reports whether a line is a recognized section
// heading. Markdown hashes and leading numbering are tolerated.
func matchSectionHeading(line string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	trimmed = strings.TrimLeft(trimmed, "# ")
	trimmed = strings.TrimLeft(trimmed, "0123456789. ")
	trimmed = strings.TrimSuffix(trimmed, ":")
	if trimmed == "" || len(trimmed) > 40 {
		return "", false
	}
	for _, keyword := range sectionKeywords {
		if trimmed == keyword || strings.HasPrefix(trimmed, keyword+" ") {
			return keyword, true
		}
	}
	return "", false
}

// firstLineTitle takes the first short non-empty line as a title guess.
func firstLineTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if len(trimmed) <= 150 {
			return trimmed
		}
		return ""
	}
	return ""
}

func baseName(path string) string {
	if path == "" {
		return "untitled"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
