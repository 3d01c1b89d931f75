package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/ai"
	"music-chat-pipeline/internal/model"
	"music-chat-pipeline/internal/prompts"
)

// TermsFilter redacts a user's excluded terms from a synthesized answer by
// re-invoking the model with the redaction prompt. Every failure path fails
// open: the caller always gets usable text back, never an error.
type TermsFilter struct {
	client ai.Client
	terms  TermsStore
	tuning model.StageTuning
	log    *zap.Logger
}

// NewTermsFilter builds the redaction stage.
func NewTermsFilter(client ai.Client, terms TermsStore, tuning model.StageTuning, log *zap.Logger) *TermsFilter {
	if log == nil {
		log = zap.NewNop()
	}
	return &TermsFilter{client: client, terms: terms, tuning: tuning, log: log}
}

// Filter returns text with the owner's active excluded terms redacted. With
// no active terms the text passes through without a model call.
func (f *TermsFilter) Filter(ctx context.Context, text, ownerID string) string {
	terms, err := f.terms.GetActiveTerms(ctx, ownerID)
	if err != nil {
		f.log.Warn("excluded terms lookup failed, returning unfiltered text",
			zap.String("owner", ownerID), zap.Error(err))
		return text
	}
	if len(terms) == 0 {
		return text
	}

	prompt, err := prompts.Filter(prompts.FormatExcludedTerms(terms), text)
	if err != nil {
		f.log.Warn("redaction prompt render failed, returning unfiltered text", zap.Error(err))
		return text
	}

	resp, err := f.client.Execute(ctx, prompt, f.tuning.Temperature, f.tuning.MaxTokens)
	if err != nil {
		f.log.Warn("redaction model call failed, returning unfiltered text",
			zap.String("owner", ownerID), zap.Error(err))
		return text
	}

	reply := prompts.ParseFilter(resp.Content)
	switch reply.Kind {
	case prompts.ReplyClean, prompts.ReplyFiltered, prompts.ReplyAlternative:
		if reply.Text == "" {
			return text
		}
		return reply.Text
	default:
		f.log.Warn("redaction reply in unexpected format, using it as-is",
			zap.String("owner", ownerID))
		if reply.Text == "" {
			return text
		}
		return reply.Text
	}
}

// HasActiveTerms reports whether filtering would do anything for this owner.
// Lookup failures report false; the filter itself fails open anyway.
func (f *TermsFilter) HasActiveTerms(ctx context.Context, ownerID string) bool {
	terms, err := f.terms.GetActiveTerms(ctx, ownerID)
	return err == nil && len(terms) > 0
}

// ContainsExcludedTerms scans text for the owner's active terms with a pure
// case-insensitive substring check. No model call.
func (f *TermsFilter) ContainsExcludedTerms(ctx context.Context, text, ownerID string) bool {
	terms, err := f.terms.GetActiveTerms(ctx, ownerID)
	if err != nil {
		f.log.Warn("excluded terms lookup failed", zap.String("owner", ownerID), zap.Error(err))
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range terms {
		if term.Term != "" && strings.Contains(lower, strings.ToLower(term.Term)) {
			return true
		}
	}
	return false
}
