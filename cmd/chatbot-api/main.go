package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/ai"
	"music-chat-pipeline/internal/api"
	"music-chat-pipeline/internal/api/handler"
	"music-chat-pipeline/internal/model"
	"music-chat-pipeline/internal/pipeline"
	"music-chat-pipeline/internal/store"
	"music-chat-pipeline/pkg/router"
)

// @title Music Chat Pipeline API
// @version 1.0
// @description Conversational question pipeline over a music catalog
// @host localhost:8080
// @BasePath /api/v1
func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := model.LoadPipelineConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "chatbot.db"
	}
	db, err := store.Open(dbPath, log)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	client, err := buildClient(context.Background())
	if err != nil {
		log.Fatal("build AI client", zap.Error(err))
	}
	log.Info("AI provider ready", zap.String("provider", client.Name()))

	pipe := pipeline.New(client, db, db, db, cfg, log)
	h := handler.New(pipe, db, cfg, log)

	r := router.New(log)
	api.RegisterRoutes(r, h)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func buildClient(ctx context.Context) (ai.Client, error) {
	switch provider := os.Getenv("AI_PROVIDER"); provider {
	case "", "gemini":
		return ai.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
	case "anthropic":
		return ai.NewAnthropicClient(os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("ANTHROPIC_MODEL"))
	default:
		return nil, fmt.Errorf("unknown AI provider %q", provider)
	}
}
