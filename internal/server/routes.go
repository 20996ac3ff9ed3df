package server

import (
	"github.com/labstack/echo/v4"

	"scireasoner/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	// Ingestion routes
	e.POST("/upload/pdf", routes.UploadPDFHandler)
	e.POST("/upload/html", routes.UploadHTMLHandler)
	e.POST("/upload/markdown", routes.UploadMarkdownHandler)
	e.GET("/documents", routes.GetDocumentsHandler)

	// Extraction route
	e.POST("/process/:doc_id", routes.ProcessDocumentHandler)

	// Graph routes
	e.POST("/graph/build", routes.BuildGraphHandler)
	e.GET("/graph/stats", routes.GetGraphStatsHandler)

	// Query route
	e.POST("/query", routes.QueryHandler)
}
