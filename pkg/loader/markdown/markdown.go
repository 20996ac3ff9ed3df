// Package markdown extracts metadata and body text from Markdown
// documents.
package markdown

import (
	"strings"
)

// Metadata is the document front matter relevant to ingestion.
type Metadata struct {
	Title   string
	Authors []string
}

// ExtractText splits optional YAML front matter from the body and returns
// the recognized metadata together with the body text. Headings remain in
// the body so section detection can key off them.
func ExtractText(raw []byte) (Metadata, string) {
	content := string(raw)
	meta := Metadata{}

	body := content
	if strings.HasPrefix(content, "---\n") {
		rest := content[len("---\n"):]
		if end := strings.Index(rest, "\n---"); end >= 0 {
			meta = parseFrontMatter(rest[:end])
			body = rest[end+len("\n---"):]
			body = strings.TrimPrefix(body, "\n")
		}
	}

	if meta.Title == "" {
		for _, line := range strings.Split(body, "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "# ") {
				meta.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
				break
			}
		}
	}
	return meta, body
}

// parseFrontMatter understands the flat title/authors keys, with authors
// either inline comma-separated or as a dash list.
func parseFrontMatter(block string) Metadata {
	meta := Metadata{}
	inAuthors := false
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "title:"):
			meta.Title = unquote(strings.TrimSpace(strings.TrimPrefix(trimmed, "title:")))
			inAuthors = false
		case strings.HasPrefix(trimmed, "authors:"):
			value := strings.TrimSpace(strings.TrimPrefix(trimmed, "authors:"))
			inAuthors = value == ""
			for _, author := range strings.Split(value, ",") {
				if author = unquote(strings.TrimSpace(author)); author != "" {
					meta.Authors = append(meta.Authors, author)
				}
			}
		case inAuthors && strings.HasPrefix(trimmed, "- "):
			if author := unquote(strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))); author != "" {
				meta.Authors = append(meta.Authors, author)
			}
		case trimmed == "":
		default:
			inAuthors = false
		}
	}
	return meta
}

func unquote(value string) string {
	value = strings.Trim(value, `"`)
	return strings.Trim(value, "'")
}
