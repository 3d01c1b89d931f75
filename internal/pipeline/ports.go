// Package pipeline implements the conversational question pipeline: history
// contextualization, domain validation, SQL generation, answer synthesis and
// excluded-term filtering, sequenced by the orchestrator in pipeline.go.
//
// The package never talks to a database or HTTP transport directly; it
// consumes the narrow ports below plus the ai.Client model port.
package pipeline

import (
	"context"

	"music-chat-pipeline/internal/model"
)

// HistoryStore supplies the bounded conversation window used for
// contextualization, in chronological order.
type HistoryStore interface {
	GetRecentTurns(ctx context.Context, sessionID string, limit int) ([]model.ConversationTurn, error)
}

// SQLExecutor runs a generated statement and returns the result set as an
// opaque string (JSON on success). The pipeline never inspects its shape.
type SQLExecutor interface {
	Execute(ctx context.Context, sql string) (string, error)
}

// TermsStore supplies a user's active excluded terms.
type TermsStore interface {
	GetActiveTerms(ctx context.Context, ownerID string) ([]model.ExcludedTerm, error)
}
