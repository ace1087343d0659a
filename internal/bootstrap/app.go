package bootstrap

import (
	"github.com/gin-gonic/gin"

	"careercoach-backend/internal/coach"
	"careercoach-backend/internal/extract"
	"careercoach-backend/internal/llm"
	"careercoach-backend/internal/llm/gemini"
	"careercoach-backend/internal/shared/config"
	"careercoach-backend/internal/shared/server"
)

// App holds the wired dependencies for one server process.
type App struct {
	Config config.Config
	Router *gin.Engine
	Coach  *coach.Service
}

// Build wires the Gemini client, ingestor, and orchestrator into a router.
// The LLM client may be overridden afterwards for tests; nothing here opens
// a network connection.
func Build(cfg config.Config) *App {
	client := gemini.NewClient(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.LLMTimeout,
	}, nil)

	svc := &coach.Service{
		LLM:          client,
		Extract:      extract.Extractor{},
		Params:       llm.Params{MaxOutputTokens: cfg.MaxOutputTokens},
		RetryCeiling: cfg.RetryCeiling,
	}

	router := server.NewRouter(server.RouterDeps{
		Config:       cfg,
		CoachHandler: coach.NewHandler(svc),
	})

	return &App{Config: cfg, Router: router, Coach: svc}
}
