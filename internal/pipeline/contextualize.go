package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/ai"
	"music-chat-pipeline/internal/model"
	"music-chat-pipeline/internal/prompts"
)

// Contextualizer rewrites a question so references to prior turns are
// explicit. With no history it never calls the model.
type Contextualizer struct {
	client ai.Client
	tuning model.StageTuning
	log    *zap.Logger
}

// NewContextualizer builds the contextualization stage.
func NewContextualizer(client ai.Client, tuning model.StageTuning, log *zap.Logger) *Contextualizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Contextualizer{client: client, tuning: tuning, log: log}
}

// Contextualize resolves question against history. On model failure the
// outcome still carries the original question so the pipeline can continue
// with degraded context.
func (c *Contextualizer) Contextualize(ctx context.Context, question string, history []model.ConversationTurn) model.StageResult[model.ContextualizationOutcome] {
	start := time.Now()
	fallback := model.ContextualizationOutcome{
		ResolvedQuestion: question,
		WasRewritten:     false,
		AnalysisTag:      model.AnalysisIndependent,
	}

	if len(history) == 0 {
		return model.StageResult[model.ContextualizationOutcome]{
			Success:   true,
			Value:     fallback,
			Message:   "no history, contextualization skipped",
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	prompt, err := prompts.Contextualize(prompts.FormatHistory(history), question)
	if err != nil {
		return model.StageResult[model.ContextualizationOutcome]{
			Success:   false,
			Value:     fallback,
			Message:   err.Error(),
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	resp, err := c.client.Execute(ctx, prompt, c.tuning.Temperature, c.tuning.MaxTokens)
	if err != nil {
		c.log.Warn("contextualization model call failed, keeping original question", zap.Error(err))
		return model.StageResult[model.ContextualizationOutcome]{
			Success:   false,
			Value:     fallback,
			Message:   "contextualization failed: " + err.Error(),
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	outcome := fallback
	switch reply := prompts.ParseContextualization(resp.Content); reply.Kind {
	case prompts.ReplyIndependent:
		// Keep the caller's question, never the model's echo.
	case prompts.ReplyContextualized:
		outcome = model.ContextualizationOutcome{
			ResolvedQuestion: reply.Text,
			WasRewritten:     true,
			AnalysisTag:      model.AnalysisContextualized,
		}
	default:
		// Lenient fallback: an unprefixed reply is treated as the already
		// resolved question.
		outcome = model.ContextualizationOutcome{
			ResolvedQuestion: reply.Text,
			WasRewritten:     true,
			AnalysisTag:      model.AnalysisContextualized,
		}
	}

	return model.StageResult[model.ContextualizationOutcome]{
		Success:   true,
		Value:     outcome,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
}
