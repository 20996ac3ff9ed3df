package middleware

import (
	"sync"

	"github.com/labstack/echo/v4"

	"scireasoner/internal/storage"
	"scireasoner/pkg/ai"
	"scireasoner/pkg/extract"
	"scireasoner/pkg/graph"
	"scireasoner/pkg/linking"
	"scireasoner/pkg/reasoning"
)

// GraphState holds the graph currently served by the query routes. Builds
// replace it wholesale; queries only read.
type GraphState struct {
	mu    sync.RWMutex
	graph *graph.Graph
}

func (s *GraphState) Get() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

func (s *GraphState) Set(g *graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = g
}

type App struct {
	Store      *storage.Store
	AiClient   ai.Client
	Extractor  *extract.Extractor
	Linker     *linking.EntityLinker
	Builder    *graph.Builder
	Inferencer *reasoning.Inferencer
	Graph      *GraphState
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
