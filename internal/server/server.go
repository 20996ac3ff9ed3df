package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	mid "scireasoner/internal/server/middleware"
	"scireasoner/internal/storage"
	"scireasoner/internal/util"
	"scireasoner/pkg/ai"
	oai "scireasoner/pkg/ai/ollama"
	gai "scireasoner/pkg/ai/openai"
	"scireasoner/pkg/extract"
	"scireasoner/pkg/graph"
	"scireasoner/pkg/linking"
	"scireasoner/pkg/logger"
	"scireasoner/pkg/reasoning"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(util.GetEnvString("STORAGE_DIR", storage.DefaultBaseDir))
	if err != nil {
		logger.Fatal("Failed to open storage", "err", err)
	}

	aiClient := NewAIClient()
	extractor, err := extract.NewExtractor(aiClient, int(util.GetEnvNumeric("AI_MAX_RETRIES", 3)))
	if err != nil {
		logger.Fatal("Failed to create extractor", "err", err)
	}

	app := &mid.App{
		Store:      store,
		AiClient:   aiClient,
		Extractor:  extractor,
		Linker:     linking.NewEntityLinker(aiClient, util.GetEnvNumeric("LINK_SIM_THRESHOLD", 0)),
		Builder:    graph.NewBuilder(),
		Inferencer: reasoning.NewInferencer(aiClient),
		Graph:      &mid.GraphState{},
	}

	if snap, err := store.LoadLatestGraph("reasoning"); err != nil {
		logger.Warn("Failed to load latest graph snapshot", "err", err)
	} else if snap != nil {
		g, err := graph.Load(snap)
		if err != nil {
			logger.Warn("Failed to restore graph snapshot", "err", err)
		} else {
			app.Graph.Set(g)
			logger.Info("Restored graph snapshot", "nodes", g.NumNodes(), "edges", g.NumEdges())
		}
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("256M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// NewAIClient builds the oracle client selected by AI_ADAPTER.
func NewAIClient() ai.Client {
	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := oai.NewOracleOllamaClient(oai.NewOracleOllamaClientParams{
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			ReasoningModel:  util.GetEnv("AI_REASON_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 1)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewOracleOpenAIClient(gai.NewOracleOpenAIClientParams{
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			ReasoningModel:  util.GetEnv("AI_REASON_MODEL"),

			EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey: util.GetEnv("AI_EMBED_KEY"),
			ChatURL:      util.GetEnv("AI_CHAT_URL"),
			ChatKey:      util.GetEnv("AI_CHAT_KEY"),
		})
	}
}
