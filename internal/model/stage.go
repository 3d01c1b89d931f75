package model

// StageResult wraps the output of a single pipeline stage.
// Invariant: when Success is false, Value holds the stage's safe default,
// never a zero pointer that downstream stages would have to guard against.
type StageResult[T any] struct {
	Success   bool   `json:"success"`
	Value     T      `json:"value"`
	Message   string `json:"message,omitempty"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Analysis tags produced by the contextualizer.
const (
	AnalysisIndependent    = "INDEPENDENT"
	AnalysisContextualized = "CONTEXTUALIZED"
)

// ContextualizationOutcome is the result of resolving a question against
// conversation history.
type ContextualizationOutcome struct {
	ResolvedQuestion string `json:"resolvedQuestion"`
	WasRewritten     bool   `json:"wasRewritten"`
	AnalysisTag      string `json:"analysisTag"`
}

// Validation statuses.
const (
	StatusValid              = "VALID"
	StatusNeedsClarification = "NEEDS_CLARIFICATION"
	StatusOutOfDomain        = "OUT_OF_DOMAIN"
	StatusError              = "ERROR"
)

// ValidationOutcome classifies a question as answerable, ambiguous or
// outside the music domain.
type ValidationOutcome struct {
	Status      string   `json:"status"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Category    string   `json:"category,omitempty"`
	Confidence  int      `json:"confidence"`
}

// SQL complexity levels.
const (
	ComplexitySimple  = "SIMPLE"
	ComplexityMedium  = "MEDIUM"
	ComplexityComplex = "COMPLEX"
)

// SQL operation types recognized by the analyzer.
const (
	OperationSelect = "SELECT"
	OperationOther  = "OTHER"
)

// SQLAnalysis is a best-effort annotation of a SQL statement extracted with
// pattern matching. It is descriptive, not a validator: tables referenced only
// inside subqueries or strings can be missed.
type SQLAnalysis struct {
	OperationType   string   `json:"operationType"`
	Tables          []string `json:"tables"`
	Fields          []string `json:"fields"`
	WhereConditions []string `json:"whereConditions"`
	Complexity      string   `json:"complexity"`
}

// SQLGenerationOutcome is the result of turning a question into SQL.
// SQL is always free of fence markers and language tags by the time the
// stage returns it.
type SQLGenerationOutcome struct {
	SQL             string   `json:"sql"`
	Explanation     string   `json:"explanation,omitempty"`
	TablesUsed      []string `json:"tablesUsed"`
	FieldsSelected  []string `json:"fieldsSelected"`
	WhereConditions []string `json:"whereConditions"`
	Complexity      string   `json:"complexity"`
	Warnings        []string `json:"warnings"`
	OptimizedSQL    string   `json:"optimizedSql,omitempty"`
}

// NaturalResponseOutcome is the synthesized natural-language answer.
type NaturalResponseOutcome struct {
	Text             string   `json:"text"`
	DataSummary      string   `json:"dataSummary"`
	Highlights       []string `json:"highlights"`
	RelatedQuestions []string `json:"relatedQuestions"`
	Tone             string   `json:"tone"`
	Confidence       int      `json:"confidence"`
}

// StepTimings carries per-stage wall-clock elapsed milliseconds. Stages that
// were never reached stay at zero.
type StepTimings struct {
	ContextualizationMs int64 `json:"contextualizationMs"`
	ValidationMs        int64 `json:"validationMs"`
	SQLGenerationMs     int64 `json:"sqlGenerationMs"`
	SQLExecutionMs      int64 `json:"sqlExecutionMs"`
	SynthesisMs         int64 `json:"synthesisMs"`
	FilteringMs         int64 `json:"filteringMs"`
}

// PipelineResult aggregates every stage outcome for one question. It is built
// once by the orchestrator and never mutated afterwards.
type PipelineResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	SessionID        string `json:"sessionId,omitempty"`
	OriginalQuestion string `json:"originalQuestion"`
	ResolvedQuestion string `json:"resolvedQuestion,omitempty"`
	WasRewritten     bool   `json:"wasRewritten"`
	ValidationStatus string `json:"validationStatus,omitempty"`
	Clarification    string `json:"clarification,omitempty"`
	GeneratedSQL     string `json:"generatedSql,omitempty"`
	OptimizedSQL     string `json:"optimizedSql,omitempty"`
	DatabaseResults  string `json:"databaseResults,omitempty"`
	// ExecutionError carries the raw SQL-executor error text. It is kept
	// separate from DatabaseResults so error text is never synthesized into
	// an answer as if it were data.
	ExecutionError  string      `json:"executionError,omitempty"`
	NaturalResponse string      `json:"naturalResponse,omitempty"`
	WasFiltered     bool        `json:"wasFiltered"`
	ModelUsed       string      `json:"modelUsed,omitempty"`
	Steps           StepTimings `json:"steps"`
	TotalMs         int64       `json:"totalMs"`
}
