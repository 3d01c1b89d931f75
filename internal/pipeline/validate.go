package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/ai"
	"music-chat-pipeline/internal/model"
	"music-chat-pipeline/internal/prompts"
)

// Question categories derived from keyword matches.
const (
	categoryArtists      = "ARTISTAS"
	categorySongs        = "CANCIONES"
	categoryAlbums       = "ALBUMES"
	categoryGenres       = "GENEROS"
	categoryGeneralMusic = "MUSICA_GENERAL"
	categoryOffTopic     = "FUERA_CONTEXTO"
	categoryUnknown      = "UNKNOWN"
)

// Validator classifies whether a question belongs to the music domain. The
// model's verdict is authoritative; the keyword tier is the fallback when the
// model call fails and the source of category/suggestion enrichment.
type Validator struct {
	client ai.Client
	tuning model.StageTuning
	vocab  model.VocabularyConfig
	log    *zap.Logger
}

// NewValidator builds the validation stage.
func NewValidator(client ai.Client, tuning model.StageTuning, vocab model.VocabularyConfig, log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{client: client, tuning: tuning, vocab: vocab, log: log}
}

type quickAnalysis struct {
	matched    []string
	offTopic   []string
	category   string
	confidence int
}

func (v *Validator) quickAnalysis(question string) quickAnalysis {
	lower := strings.ToLower(question)
	qa := quickAnalysis{category: categoryUnknown, confidence: 50}
	for _, topic := range v.vocab.MusicTopics {
		if strings.Contains(lower, strings.ToLower(topic)) {
			qa.matched = append(qa.matched, topic)
		}
	}
	for _, topic := range v.vocab.OffTopicTopics {
		if strings.Contains(lower, strings.ToLower(topic)) {
			qa.offTopic = append(qa.offTopic, topic)
		}
	}
	switch {
	case len(qa.matched) > 0:
		qa.category = determineCategory(qa.matched)
		qa.confidence = 60 + 10*len(qa.matched)
		if qa.confidence > 95 {
			qa.confidence = 95
		}
	case len(qa.offTopic) > 0:
		qa.category = categoryOffTopic
		qa.confidence = 80
	}
	return qa
}

func determineCategory(keywords []string) string {
	in := func(set ...string) bool {
		for _, k := range keywords {
			for _, s := range set {
				if strings.EqualFold(k, s) {
					return true
				}
			}
		}
		return false
	}
	switch {
	case in("artista", "cantante", "banda", "grupo", "músico"):
		return categoryArtists
	case in("canción", "tema", "track", "single"):
		return categorySongs
	case in("álbum", "disco", "ep", "lp"):
		return categoryAlbums
	case in("género", "estilo"):
		return categoryGenres
	default:
		return categoryGeneralMusic
	}
}

// Validate classifies the question.
func (v *Validator) Validate(ctx context.Context, question string) model.StageResult[model.ValidationOutcome] {
	start := time.Now()
	quick := v.quickAnalysis(question)

	prompt, err := prompts.Validate(question)
	if err != nil {
		return model.StageResult[model.ValidationOutcome]{
			Success:   false,
			Value:     model.ValidationOutcome{Status: model.StatusError, Category: categoryUnknown, Confidence: 0},
			Message:   err.Error(),
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	resp, execErr := v.client.Execute(ctx, prompt, v.tuning.Temperature, v.tuning.MaxTokens)

	var outcome model.ValidationOutcome
	switch {
	case execErr == nil:
		reply := prompts.ParseValidation(resp.Content)
		if reply.Kind == prompts.ReplyUnrecognized {
			// An answer in no known format is not an authoritative verdict.
			v.log.Warn("validation reply in unexpected format, using keyword tier",
				zap.String("reply", reply.Text))
			outcome = v.keywordOutcome(quick)
		} else {
			outcome = modelOutcome(reply, quick)
		}
	default:
		v.log.Warn("validation model call failed, using keyword tier", zap.Error(execErr))
		outcome = v.keywordOutcome(quick)
	}

	if outcome.Status == model.StatusNeedsClarification && len(outcome.Suggestions) == 0 {
		outcome.Suggestions = v.suggestions(question, quick)
	}
	if outcome.Category == "" {
		outcome.Category = quick.category
	}

	result := model.StageResult[model.ValidationOutcome]{
		Success:   outcome.Status != model.StatusError,
		Value:     outcome,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	if outcome.Status == model.StatusError {
		result.Message = "could not classify the question"
	}
	return result
}

func modelOutcome(reply prompts.Reply, quick quickAnalysis) model.ValidationOutcome {
	switch reply.Kind {
	case prompts.ReplyValid:
		return model.ValidationOutcome{
			Status:     model.StatusValid,
			Reason:     "Pregunta válida para el asistente musical",
			Category:   quick.category,
			Confidence: 85,
		}
	case prompts.ReplyClarify:
		reason := reply.Text
		if reason == "" {
			reason = "La pregunta necesita más detalle"
		}
		return model.ValidationOutcome{
			Status:     model.StatusNeedsClarification,
			Reason:     reason,
			Category:   quick.category,
			Confidence: 85,
		}
	default: // ReplyOutOfContext
		return model.ValidationOutcome{
			Status:     model.StatusOutOfDomain,
			Reason:     "La pregunta no está relacionada con música",
			Category:   categoryOffTopic,
			Confidence: 85,
		}
	}
}

// keywordOutcome is the cheap fallback used when the model gave no verdict.
func (v *Validator) keywordOutcome(quick quickAnalysis) model.ValidationOutcome {
	switch {
	case len(quick.matched) > 0:
		return model.ValidationOutcome{
			Status:     model.StatusValid,
			Reason:     "La pregunta contiene vocabulario musical",
			Category:   quick.category,
			Confidence: quick.confidence,
		}
	case len(quick.offTopic) > 0:
		return model.ValidationOutcome{
			Status:     model.StatusOutOfDomain,
			Reason:     "La pregunta no está relacionada con música",
			Category:   categoryOffTopic,
			Confidence: quick.confidence,
		}
	default:
		return model.ValidationOutcome{
			Status:     model.StatusError,
			Reason:     "No se pudo determinar el estado de la pregunta",
			Category:   categoryUnknown,
			Confidence: 50,
		}
	}
}

// suggestions generates clarification hints deterministically, capped at 3.
func (v *Validator) suggestions(question string, quick quickAnalysis) []string {
	var out []string
	if len(question) < 10 {
		out = append(out,
			"Proporciona más detalles en tu pregunta",
			"Especifica sobre qué artista, canción o álbum quieres saber")
	}
	if len(quick.matched) == 0 {
		out = append(out,
			"Incluye términos musicales como 'artista', 'canción', 'álbum'",
			"Pregunta sobre géneros musicales, colaboraciones o características de canciones")
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}
