package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scireasoner/internal/server/middleware"
	"scireasoner/pkg/common"
	"scireasoner/pkg/logger"
)

// BuildGraphHandler rebuilds the reasoning graph from the requested
// documents, or from every processed document when doc_ids is empty,
// optionally runs hypothesis inference, persists a snapshot and makes the
// new graph current.
func BuildGraphHandler(c echo.Context) error {
	type buildGraphBody struct {
		DocIDs              []string `json:"doc_ids"`
		Infer               bool     `json:"infer"`
		MinSupportingClaims int      `json:"min_supporting_claims"`
		MaxHypotheses       int      `json:"max_hypotheses"`
	}

	type buildGraphResponse struct {
		Message            string `json:"message"`
		NumDocuments       int    `json:"num_documents"`
		NumNodes           int    `json:"num_nodes"`
		NumEdges           int    `json:"num_edges"`
		InferredHypotheses int    `json:"inferred_hypotheses"`
		SnapshotPath       string `json:"snapshot_path,omitempty"`
	}

	data := new(buildGraphBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, buildGraphResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	documents, err := app.Store.ListDocuments()
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, buildGraphResponse{
			Message: "Internal server error",
		})
	}
	if len(data.DocIDs) > 0 {
		wanted := make(map[string]bool, len(data.DocIDs))
		for _, id := range data.DocIDs {
			wanted[id] = true
		}
		filtered := documents[:0]
		for _, doc := range documents {
			if wanted[doc.DocID] {
				filtered = append(filtered, doc)
			}
		}
		documents = filtered
	}
	if len(documents) == 0 {
		return c.JSON(http.StatusBadRequest, buildGraphResponse{
			Message: "No documents ingested",
		})
	}

	entities := make([]common.Entity, 0)
	claims := make([]common.Claim, 0)
	hypotheses := make([]common.Hypothesis, 0)
	for _, doc := range documents {
		docEntities, err := app.Store.LoadEntities(doc.DocID)
		if err != nil {
			logger.Error("Failed to load entities", "doc_id", doc.DocID, "err", err)
			return c.JSON(http.StatusInternalServerError, buildGraphResponse{
				Message: "Internal server error",
			})
		}
		docClaims, err := app.Store.LoadClaims(doc.DocID)
		if err != nil {
			logger.Error("Failed to load claims", "doc_id", doc.DocID, "err", err)
			return c.JSON(http.StatusInternalServerError, buildGraphResponse{
				Message: "Internal server error",
			})
		}
		docHypotheses, err := app.Store.LoadHypotheses(doc.DocID)
		if err != nil {
			logger.Error("Failed to load hypotheses", "doc_id", doc.DocID, "err", err)
			return c.JSON(http.StatusInternalServerError, buildGraphResponse{
				Message: "Internal server error",
			})
		}
		entities = append(entities, docEntities...)
		claims = append(claims, docClaims...)
		hypotheses = append(hypotheses, docHypotheses...)
	}

	ctx := c.Request().Context()
	entityLinks, err := app.Linker.LinkEntities(ctx, entities)
	if err != nil {
		logger.Error("Entity linking failed", "err", err)
		return c.JSON(http.StatusInternalServerError, buildGraphResponse{
			Message: "Entity linking failed",
		})
	}

	g := app.Builder.Build(documents, entities, claims, hypotheses, entityLinks)

	inferred := 0
	if data.Infer {
		newHypotheses := app.Inferencer.Infer(ctx, g, data.MinSupportingClaims, data.MaxHypotheses)
		app.Inferencer.Apply(g, newHypotheses)
		inferred = len(newHypotheses)
	}

	snap, err := g.Snapshot()
	if err != nil {
		logger.Error("Failed to snapshot graph", "err", err)
		return c.JSON(http.StatusInternalServerError, buildGraphResponse{
			Message: "Internal server error",
		})
	}
	path, err := app.Store.SaveGraph("reasoning", snap)
	if err != nil {
		logger.Error("Failed to save graph snapshot", "err", err)
		return c.JSON(http.StatusInternalServerError, buildGraphResponse{
			Message: "Internal server error",
		})
	}

	app.Graph.Set(g)
	logger.Info("Graph rebuilt",
		"documents", len(documents),
		"nodes", g.NumNodes(),
		"edges", g.NumEdges(),
		"inferred", inferred,
	)
	return c.JSON(http.StatusOK, buildGraphResponse{
		Message:            "Graph built successfully",
		NumDocuments:       len(documents),
		NumNodes:           g.NumNodes(),
		NumEdges:           g.NumEdges(),
		InferredHypotheses: inferred,
		SnapshotPath:       path,
	})
}
