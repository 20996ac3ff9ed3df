// Package web extracts readable text from HTML documents.
package web

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
)

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// ExtractText runs readability extraction over raw HTML and returns the
// document title and the rendered article text. The source URL helps
// readability resolve relative references and may be empty.
func ExtractText(raw []byte, source string) (string, string, error) {
	parsedURL, err := url.Parse(source)
	if err != nil {
		parsedURL = &url.URL{}
	}

	article, err := readability.FromReader(bytes.NewReader(raw), parsedURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse html: %w", err)
	}
	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return "", "", fmt.Errorf("failed to render article text: %w", err)
	}

	title := ""
	if match := titlePattern.FindSubmatch(raw); match != nil {
		title = strings.TrimSpace(string(match[1]))
	}
	return title, builder.String(), nil
}
