package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scireasoner/internal/server/middleware"
)

// GetGraphStatsHandler reports node and edge counts for the current graph.
func GetGraphStatsHandler(c echo.Context) error {
	type graphStatsResponse struct {
		Message    string         `json:"message"`
		NumNodes   int            `json:"num_nodes"`
		NumEdges   int            `json:"num_edges"`
		NodeCounts map[string]int `json:"node_types,omitempty"`
		EdgeCounts map[string]int `json:"edge_types,omitempty"`
	}

	app := c.(*middleware.AppContext).App
	g := app.Graph.Get()
	if g == nil {
		return c.JSON(http.StatusBadRequest, graphStatsResponse{
			Message: "Graph not built",
		})
	}

	nodeCounts := make(map[string]int)
	for _, node := range g.Nodes() {
		nodeCounts[string(node.Type)]++
	}
	edgeCounts := make(map[string]int)
	for _, edge := range g.Edges() {
		edgeCounts[string(edge.Type)]++
	}

	return c.JSON(http.StatusOK, graphStatsResponse{
		Message:    "OK",
		NumNodes:   g.NumNodes(),
		NumEdges:   g.NumEdges(),
		NodeCounts: nodeCounts,
		EdgeCounts: edgeCounts,
	})
}
