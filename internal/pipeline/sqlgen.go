package pipeline

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/ai"
	"music-chat-pipeline/internal/model"
	"music-chat-pipeline/internal/prompts"
)

// SQLGenerator asks the model for a statement answering the question, cleans
// it, and annotates it. The analysis is regex-based best effort, not a SQL
// validator: tables referenced only in subqueries or strings can be missed.
type SQLGenerator struct {
	client ai.Client
	tuning model.StageTuning
	log    *zap.Logger
}

// NewSQLGenerator builds the SQL-generation stage.
func NewSQLGenerator(client ai.Client, tuning model.StageTuning, log *zap.Logger) *SQLGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLGenerator{client: client, tuning: tuning, log: log}
}

var (
	tableRe  = regexp.MustCompile(`(?i)(?:FROM|JOIN)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	fieldsRe = regexp.MustCompile(`(?is)SELECT\s+(.+?)\s+FROM`)
	whereRe  = regexp.MustCompile(`(?is)WHERE\s+(.+?)(?:\s+ORDER\s+BY|\s+GROUP\s+BY|$)`)
	joinRe   = regexp.MustCompile(`(?i)JOIN`)
	nestedRe = regexp.MustCompile(`(?i)\(\s*SELECT`)
	groupRe  = regexp.MustCompile(`(?i)GROUP\s+BY`)
)

func emptyOutcome() model.SQLGenerationOutcome {
	return model.SQLGenerationOutcome{
		TablesUsed:      []string{},
		FieldsSelected:  []string{},
		WhereConditions: []string{},
		Complexity:      model.ComplexitySimple,
		Warnings:        []string{},
	}
}

// Generate produces and annotates SQL for question. A model failure or the
// model's refusal sentence aborts the stage.
func (g *SQLGenerator) Generate(ctx context.Context, question string, resultLimit int) model.StageResult[model.SQLGenerationOutcome] {
	start := time.Now()

	prompt, err := prompts.GenerateSQL(question, resultLimit)
	if err != nil {
		return model.StageResult[model.SQLGenerationOutcome]{
			Success:   false,
			Value:     emptyOutcome(),
			Message:   err.Error(),
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	resp, err := g.client.Execute(ctx, prompt, g.tuning.Temperature, g.tuning.MaxTokens)
	if err != nil {
		return model.StageResult[model.SQLGenerationOutcome]{
			Success:   false,
			Value:     emptyOutcome(),
			Message:   "SQL generation failed: " + err.Error(),
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	reply := prompts.ParseSQL(resp.Content)
	if reply.Kind == prompts.ReplyRefusal {
		return model.StageResult[model.SQLGenerationOutcome]{
			Success:   false,
			Value:     emptyOutcome(),
			Message:   reply.Text,
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	sql := reply.Text
	outcome := buildOutcome(sql)
	g.log.Debug("sql generated",
		zap.String("complexity", outcome.Complexity),
		zap.Strings("tables", outcome.TablesUsed),
		zap.Int("warnings", len(outcome.Warnings)))

	return model.StageResult[model.SQLGenerationOutcome]{
		Success:   true,
		Value:     outcome,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
}

// buildOutcome annotates any cleaned SQL text: analysis, safety warnings and
// the optional top-N rewrite.
func buildOutcome(sql string) model.SQLGenerationOutcome {
	analysis := AnalyzeSQL(sql)
	warnings, canOptimize := validateSQL(sql)
	outcome := model.SQLGenerationOutcome{
		SQL:             sql,
		TablesUsed:      analysis.Tables,
		FieldsSelected:  analysis.Fields,
		WhereConditions: analysis.WhereConditions,
		Complexity:      analysis.Complexity,
		Warnings:        warnings,
	}
	if canOptimize {
		outcome.OptimizedSQL = optimizeSQL(sql)
	}
	return outcome
}

// AnalyzeSQL extracts a best-effort annotation from any SQL text. It is
// independent of generation and usable on statements from any source.
func AnalyzeSQL(sql string) model.SQLAnalysis {
	analysis := model.SQLAnalysis{
		OperationType:   model.OperationOther,
		Tables:          []string{},
		Fields:          []string{},
		WhereConditions: []string{},
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sql)), "SELECT") {
		analysis.OperationType = model.OperationSelect
	}

	seen := make(map[string]bool)
	for _, m := range tableRe.FindAllStringSubmatch(sql, -1) {
		table := m[1]
		if !seen[table] {
			seen[table] = true
			analysis.Tables = append(analysis.Tables, table)
		}
	}

	if m := fieldsRe.FindStringSubmatch(sql); m != nil {
		for _, field := range strings.Split(m[1], ",") {
			analysis.Fields = append(analysis.Fields, strings.TrimSpace(field))
		}
	}

	if m := whereRe.FindStringSubmatch(sql); m != nil {
		analysis.WhereConditions = append(analysis.WhereConditions, strings.TrimSpace(m[1]))
	}

	joins := len(joinRe.FindAllString(sql, -1))
	switch {
	case nestedRe.MatchString(sql) || joins > 2 || groupRe.MatchString(sql):
		analysis.Complexity = model.ComplexityComplex
	case joins > 0:
		analysis.Complexity = model.ComplexityMedium
	default:
		analysis.Complexity = model.ComplexitySimple
	}
	return analysis
}

// validateSQL runs the heuristic safety checks. Warnings are informational;
// nothing here blocks execution.
func validateSQL(sql string) (warnings []string, canOptimize bool) {
	warnings = []string{}
	upper := strings.ToUpper(sql)

	if strings.Contains(upper, "DELETE") || strings.Contains(upper, "DROP") || strings.Contains(upper, "TRUNCATE") {
		warnings = append(warnings, "Consulta contiene operaciones potencialmente peligrosas")
	}
	if strings.Contains(upper, "SELECT") && !strings.Contains(upper, "TOP") {
		warnings = append(warnings, "Consulta sin límite de resultados - puede retornar muchos datos")
		canOptimize = true
	}
	if len(joinRe.FindAllString(sql, -1)) > 3 {
		warnings = append(warnings, "Consulta compleja con múltiples JOINs - podría ser lenta")
	}
	return warnings, canOptimize
}

// optimizeSQL inserts a fixed top-N clause after the first SELECT keyword.
// Textual rewrite only; the original statement is kept alongside.
func optimizeSQL(sql string) string {
	return strings.Replace(sql, "SELECT", "SELECT TOP 100", 1)
}
