package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scireasoner/pkg/common"
	"scireasoner/pkg/loader"
	"scireasoner/pkg/logger"
)

var ingestFormat string

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Parse documents and store them for processing",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		for _, path := range args {
			doc, sentences, err := loadFile(path)
			if err != nil {
				return fmt.Errorf("failed to ingest %s: %w", path, err)
			}
			if err := store.SaveDocument(doc); err != nil {
				return err
			}
			if err := store.SaveSentences(doc.DocID, sentences); err != nil {
				return err
			}
			logger.Info("Document ingested",
				"doc_id", doc.DocID,
				"title", doc.Title,
				"sentences", len(sentences),
			)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFormat, "format", "auto", "document format: pdf, html, markdown or auto")
}

func loadFile(path string) (*common.Document, []common.Sentence, error) {
	format := ingestFormat
	if format == "auto" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf":
			format = "pdf"
		case ".html", ".htm":
			format = "html"
		case ".md", ".markdown":
			format = "markdown"
		default:
			return nil, nil, fmt.Errorf("cannot infer format of %s, pass --format", path)
		}
	}

	switch format {
	case "pdf":
		return loader.LoadPDF(path)
	case "html":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		return loader.LoadHTML(raw, path)
	case "markdown":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		return loader.LoadMarkdown(raw, path)
	default:
		return nil, nil, fmt.Errorf("unknown format %q", format)
	}
}
