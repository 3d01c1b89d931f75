// Command chatbot runs a single question through the pipeline and prints
// the result as JSON. Useful for trying prompts without standing up the API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/ai"
	"music-chat-pipeline/internal/model"
	"music-chat-pipeline/internal/pipeline"
	"music-chat-pipeline/internal/store"
)

func main() {
	var (
		dbPath     = flag.String("db", "chatbot.db", "sqlite database path")
		configPath = flag.String("config", "", "YAML config file, defaults apply when empty")
		sessionID  = flag.String("session", "", "session ID for conversation history")
		userID     = flag.String("user", "", "user ID for excluded-terms filtering")
		provider   = flag.String("provider", "gemini", "AI provider: gemini, anthropic or mock")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: chatbot [flags] <question>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	log := zap.NewNop()
	if *verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			panic(err)
		}
		defer log.Sync()
	}

	cfg, err := model.LoadPipelineConfig(*configPath)
	if err != nil {
		fatal(err)
	}

	db, err := store.Open(*dbPath, log)
	if err != nil {
		fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	client, err := buildClient(ctx, *provider)
	if err != nil {
		fatal(err)
	}

	pipe := pipeline.New(client, db, db, db, cfg, log)
	result := pipe.Process(ctx, *sessionID, *userID, question)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))

	if !result.Success {
		os.Exit(1)
	}
}

func buildClient(ctx context.Context, provider string) (ai.Client, error) {
	switch provider {
	case "gemini":
		return ai.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
	case "anthropic":
		return ai.NewAnthropicClient(os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("ANTHROPIC_MODEL"))
	case "mock":
		return ai.NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", provider)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "chatbot:", err)
	os.Exit(1)
}
