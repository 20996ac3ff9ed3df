package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scireasoner/internal/server/middleware"
	"scireasoner/pkg/logger"
)

// GetDocumentsHandler lists the ingested documents.
func GetDocumentsHandler(c echo.Context) error {
	type documentSummary struct {
		DocID       string   `json:"doc_id"`
		Title       string   `json:"title"`
		Authors     []string `json:"authors"`
		NumSections int      `json:"num_sections"`
		SourceType  string   `json:"source_type,omitempty"`
	}

	type documentsResponse struct {
		Message   string            `json:"message"`
		Documents []documentSummary `json:"documents"`
	}

	app := c.(*middleware.AppContext).App
	documents, err := app.Store.ListDocuments()
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, documentsResponse{
			Message: "Internal server error",
		})
	}

	summaries := make([]documentSummary, 0, len(documents))
	for _, doc := range documents {
		summaries = append(summaries, documentSummary{
			DocID:       doc.DocID,
			Title:       doc.Title,
			Authors:     doc.Authors,
			NumSections: len(doc.Sections),
			SourceType:  doc.Metadata["source_type"],
		})
	}
	return c.JSON(http.StatusOK, documentsResponse{
		Message:   "OK",
		Documents: summaries,
	})
}
