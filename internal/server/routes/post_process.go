package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scireasoner/internal/server/middleware"
	"scireasoner/pkg/logger"
)

// ProcessDocumentHandler runs the extraction stages over an uploaded
// document and persists the results.
func ProcessDocumentHandler(c echo.Context) error {
	type processResponse struct {
		Message       string `json:"message"`
		DocID         string `json:"doc_id,omitempty"`
		NumEntities   int    `json:"num_entities"`
		NumClaims     int    `json:"num_claims"`
		NumHypotheses int    `json:"num_hypotheses"`
	}

	docID := c.Param("doc_id")
	app := c.(*middleware.AppContext).App

	doc, err := app.Store.LoadDocument(docID)
	if err != nil {
		logger.Error("Failed to load document", "err", err)
		return c.JSON(http.StatusInternalServerError, processResponse{
			Message: "Internal server error",
		})
	}
	if doc == nil {
		return c.JSON(http.StatusNotFound, processResponse{
			Message: "Document not found",
		})
	}
	sentences, err := app.Store.LoadSentences(docID)
	if err != nil {
		logger.Error("Failed to load sentences", "err", err)
		return c.JSON(http.StatusInternalServerError, processResponse{
			Message: "Internal server error",
		})
	}

	ctx := c.Request().Context()
	entities, err := app.Extractor.ExtractEntities(ctx, sentences)
	if err != nil {
		logger.Error("Entity extraction aborted", "doc_id", docID, "err", err)
		return c.JSON(http.StatusInternalServerError, processResponse{
			Message: "Extraction failed",
		})
	}
	claims, err := app.Extractor.ExtractClaims(ctx, sentences, entities)
	if err != nil {
		logger.Error("Claim extraction aborted", "doc_id", docID, "err", err)
		return c.JSON(http.StatusInternalServerError, processResponse{
			Message: "Extraction failed",
		})
	}
	hypotheses, err := app.Extractor.DetectHypotheses(ctx, sentences, claims)
	if err != nil {
		logger.Error("Hypothesis detection aborted", "doc_id", docID, "err", err)
		return c.JSON(http.StatusInternalServerError, processResponse{
			Message: "Extraction failed",
		})
	}

	if err := app.Store.SaveEntities(docID, entities); err != nil {
		logger.Error("Failed to save entities", "err", err)
		return c.JSON(http.StatusInternalServerError, processResponse{
			Message: "Internal server error",
		})
	}
	if err := app.Store.SaveClaims(docID, claims); err != nil {
		logger.Error("Failed to save claims", "err", err)
		return c.JSON(http.StatusInternalServerError, processResponse{
			Message: "Internal server error",
		})
	}
	if err := app.Store.SaveHypotheses(docID, hypotheses); err != nil {
		logger.Error("Failed to save hypotheses", "err", err)
		return c.JSON(http.StatusInternalServerError, processResponse{
			Message: "Internal server error",
		})
	}

	logger.Info("Document processed",
		"doc_id", docID,
		"entities", len(entities),
		"claims", len(claims),
		"hypotheses", len(hypotheses),
	)
	return c.JSON(http.StatusOK, processResponse{
		Message:       "Document processed successfully",
		DocID:         docID,
		NumEntities:   len(entities),
		NumClaims:     len(claims),
		NumHypotheses: len(hypotheses),
	})
}
