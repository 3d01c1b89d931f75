package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/ai"
	"music-chat-pipeline/internal/model"
)

// Pipeline sequences the conversational stages for one question:
// contextualize, validate, generate SQL, execute, synthesize, filter.
// Stages are strictly sequential; each consumes the previous stage's output.
type Pipeline struct {
	contextualizer *Contextualizer
	validator      *Validator
	generator      *SQLGenerator
	synthesizer    *Synthesizer
	filter         *TermsFilter

	history   HistoryStore
	executor  SQLExecutor
	execRetry *ai.Retryer
	modelName string

	cfg model.PipelineConfig
	log *zap.Logger
}

// New wires the stages around the supplied ports. The model client and the
// SQL executor are wrapped with the configured retry policies here, at the
// orchestrator boundary; stage contracts are unchanged.
func New(client ai.Client, history HistoryStore, executor SQLExecutor, terms TermsStore, cfg model.PipelineConfig, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	retried := ai.WithRetry(client, cfg.ModelRetry, log)
	return &Pipeline{
		contextualizer: NewContextualizer(retried, cfg.Contextualize, log),
		validator:      NewValidator(retried, cfg.Validate, cfg.Vocabulary, log),
		generator:      NewSQLGenerator(retried, cfg.GenerateSQL, log),
		synthesizer:    NewSynthesizer(log),
		filter:         NewTermsFilter(retried, terms, cfg.Filter, log),
		history:        history,
		executor:       executor,
		execRetry:      ai.NewRetryer(cfg.ExecutionRetry, log),
		modelName:      client.Name(),
		cfg:            cfg,
		log:            log,
	}
}

// Filter exposes the redaction stage for callers that only need filtering.
func (p *Pipeline) Filter() *TermsFilter { return p.filter }

// Contextualizer exposes the contextualization stage.
func (p *Pipeline) Contextualizer() *Contextualizer { return p.contextualizer }

// Validator exposes the validation stage.
func (p *Pipeline) Validator() *Validator { return p.validator }

// Generator exposes the SQL-generation stage.
func (p *Pipeline) Generator() *SQLGenerator { return p.generator }

// Synthesizer exposes the answer-synthesis stage.
func (p *Pipeline) Synthesizer() *Synthesizer { return p.synthesizer }

// Process runs the full pipeline for one question. The returned result is
// complete in every terminal state: per-stage timings are always present,
// stages never reached stay at zero.
func (p *Pipeline) Process(ctx context.Context, sessionID, ownerID, question string) model.PipelineResult {
	start := time.Now()
	result := model.PipelineResult{OriginalQuestion: question, ModelUsed: p.modelName}

	defer func() {
		result.TotalMs = time.Since(start).Milliseconds()
	}()

	// Stage 1: contextualization. A failure here degrades, it does not
	// abort: the original question still flows forward.
	history := p.recentTurns(ctx, sessionID)
	ctxRes := p.contextualizer.Contextualize(ctx, question, history)
	result.Steps.ContextualizationMs = ctxRes.ElapsedMs
	result.ResolvedQuestion = ctxRes.Value.ResolvedQuestion
	result.WasRewritten = ctxRes.Value.WasRewritten
	if !ctxRes.Success {
		p.log.Warn("continuing with original question", zap.String("session", sessionID))
	}
	if err := ctx.Err(); err != nil {
		return p.fail(result, "procesamiento cancelado")
	}

	// Stage 2: validation. A non-VALID classification is a terminal branch,
	// not a failure.
	valRes := p.validator.Validate(ctx, result.ResolvedQuestion)
	result.Steps.ValidationMs = valRes.ElapsedMs
	result.ValidationStatus = valRes.Value.Status
	if !valRes.Success {
		return p.fail(result, "Error al validar la pregunta")
	}
	if valRes.Value.Status != model.StatusValid {
		result.Clarification = valRes.Value.Reason
		switch valRes.Value.Status {
		case model.StatusOutOfDomain:
			result.Message = "La pregunta está fuera del contexto del asistente musical."
		default:
			result.Message = "La pregunta requiere aclaración."
		}
		return result
	}

	// Stage 3: SQL generation. Model failure or refusal is a hard stop.
	sqlRes := p.generator.Generate(ctx, result.ResolvedQuestion, p.cfg.ResultLimit)
	result.Steps.SQLGenerationMs = sqlRes.ElapsedMs
	if !sqlRes.Success {
		return p.fail(result, sqlRes.Message)
	}
	result.GeneratedSQL = sqlRes.Value.SQL
	result.OptimizedSQL = sqlRes.Value.OptimizedSQL

	// Stage 4: execution through the external collaborator. Errors are
	// surfaced in executionError, never synthesized as if they were data.
	execStart := time.Now()
	var databaseResults string
	execErr := p.execRetry.Do(ctx, "sql.execute", func(ctx context.Context) error {
		var err error
		databaseResults, err = p.executor.Execute(ctx, result.GeneratedSQL)
		return err
	})
	result.Steps.SQLExecutionMs = time.Since(execStart).Milliseconds()
	if execErr != nil {
		p.log.Error("sql execution failed", zap.String("session", sessionID), zap.Error(execErr))
		result.ExecutionError = execErr.Error()
		databaseResults = ""
	}
	result.DatabaseResults = databaseResults

	// Stage 5: synthesis.
	synthRes := p.synthesizer.Synthesize(result.ResolvedQuestion, databaseResults, p.cfg.Tone, p.cfg.Length)
	result.Steps.SynthesisMs = synthRes.ElapsedMs
	if !synthRes.Success {
		return p.fail(result, synthRes.Message)
	}
	result.NaturalResponse = synthRes.Value.Text

	// Stage 6: redaction, only when the owner has exclusions. Fails open.
	if ownerID != "" && p.filter.HasActiveTerms(ctx, ownerID) {
		filterStart := time.Now()
		filtered := p.filter.Filter(ctx, result.NaturalResponse, ownerID)
		result.Steps.FilteringMs = time.Since(filterStart).Milliseconds()
		result.WasFiltered = filtered != result.NaturalResponse
		result.NaturalResponse = filtered
	}

	result.Success = true
	result.Message = "Pregunta procesada exitosamente"
	p.log.Info("question processed",
		zap.String("session", sessionID),
		zap.Bool("rewritten", result.WasRewritten),
		zap.Bool("filtered", result.WasFiltered),
		zap.Int64("totalMs", time.Since(start).Milliseconds()))
	return result
}

func (p *Pipeline) fail(result model.PipelineResult, message string) model.PipelineResult {
	result.Success = false
	result.Message = message
	return result
}

// recentTurns fetches the bounded history window. Lookup failures degrade to
// an empty window instead of aborting the question.
func (p *Pipeline) recentTurns(ctx context.Context, sessionID string) []model.ConversationTurn {
	if sessionID == "" || p.history == nil {
		return nil
	}
	turns, err := p.history.GetRecentTurns(ctx, sessionID, p.cfg.HistoryLimit)
	if err != nil {
		p.log.Warn("history lookup failed, contextualizing without history",
			zap.String("session", sessionID), zap.Error(err))
		return nil
	}
	return turns
}
