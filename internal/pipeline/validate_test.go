package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"music-chat-pipeline/internal/ai"
	"music-chat-pipeline/internal/model"
)

func newTestValidator(mock *ai.MockClient) *Validator {
	return NewValidator(mock, testTuning, model.DefaultVocabulary(), nil)
}

func TestValidateModelVerdictValid(t *testing.T) {
	v := newTestValidator(ai.NewMockClient("VALIDA"))

	res := v.Validate(context.Background(), "¿Quién es el artista Bad Bunny?")

	require.True(t, res.Success)
	require.Equal(t, model.StatusValid, res.Value.Status)
	require.Equal(t, 85, res.Value.Confidence)
	require.Equal(t, "ARTISTAS", res.Value.Category)
}

func TestValidateModelVerdictOutOfDomain(t *testing.T) {
	v := newTestValidator(ai.NewMockClient("FUERA_CONTEXTO"))

	res := v.Validate(context.Background(), "¿Cómo preparo una receta de paella?")

	require.True(t, res.Success)
	require.Equal(t, model.StatusOutOfDomain, res.Value.Status)
	require.Equal(t, "FUERA_CONTEXTO", res.Value.Category)
}

func TestValidateClarifyCarriesReasonAndSuggestions(t *testing.T) {
	v := newTestValidator(ai.NewMockClient("ACLARAR: ¿sobre qué artista preguntas?"))

	res := v.Validate(context.Background(), "dime más")

	require.True(t, res.Success)
	require.Equal(t, model.StatusNeedsClarification, res.Value.Status)
	require.Equal(t, "¿sobre qué artista preguntas?", res.Value.Reason)
	require.NotEmpty(t, res.Value.Suggestions)
	require.LessOrEqual(t, len(res.Value.Suggestions), 3)
}

func TestValidateKeywordFallbackOnModelFailure(t *testing.T) {
	mock := ai.NewMockClient().FailWith(errors.New("timeout"))
	v := newTestValidator(mock)

	res := v.Validate(context.Background(), "¿Qué canción es más popular?")

	require.True(t, res.Success)
	require.Equal(t, model.StatusValid, res.Value.Status)
	require.Equal(t, "CANCIONES", res.Value.Category)
	// 60 + 10 per matched keyword, never beyond 95.
	require.GreaterOrEqual(t, res.Value.Confidence, 60)
	require.LessOrEqual(t, res.Value.Confidence, 95)
}

func TestValidateKeywordFallbackOffTopic(t *testing.T) {
	mock := ai.NewMockClient().FailWith(errors.New("timeout"))
	v := newTestValidator(mock)

	res := v.Validate(context.Background(), "necesito ayuda con una receta de cocina")

	require.True(t, res.Success)
	require.Equal(t, model.StatusOutOfDomain, res.Value.Status)
	require.Equal(t, 80, res.Value.Confidence)
}

func TestValidateNoSignalIsError(t *testing.T) {
	mock := ai.NewMockClient().FailWith(errors.New("timeout"))
	v := newTestValidator(mock)

	res := v.Validate(context.Background(), "xyzzy")

	require.False(t, res.Success)
	require.Equal(t, model.StatusError, res.Value.Status)
	require.Equal(t, "UNKNOWN", res.Value.Category)
	require.Equal(t, 50, res.Value.Confidence)
}

func TestValidateUnrecognizedReplyUsesKeywordTier(t *testing.T) {
	v := newTestValidator(ai.NewMockClient("mmm, no estoy seguro"))

	res := v.Validate(context.Background(), "háblame del género reggaeton")

	require.True(t, res.Success)
	require.Equal(t, model.StatusValid, res.Value.Status)
}

func TestQuickAnalysisConfidenceCap(t *testing.T) {
	v := newTestValidator(ai.NewMockClient())

	qa := v.quickAnalysis("artista cantante banda canción álbum género tema disco")
	require.Equal(t, 95, qa.confidence)
}
