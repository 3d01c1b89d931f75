package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"music-chat-pipeline/internal/ai"
	"music-chat-pipeline/internal/model"
)

var testTuning = model.StageTuning{Temperature: 0.7, MaxTokens: 1000}

func TestContextualizeSkipsModelWithoutHistory(t *testing.T) {
	mock := ai.NewMockClient("CONTEXTUALIZADA: no debería llegar aquí")
	c := NewContextualizer(mock, testTuning, nil)

	res := c.Contextualize(context.Background(), "¿Quién es Bad Bunny?", nil)

	require.True(t, res.Success)
	require.Equal(t, "¿Quién es Bad Bunny?", res.Value.ResolvedQuestion)
	require.False(t, res.Value.WasRewritten)
	require.Empty(t, mock.Calls(), "no history must mean no model call")
}

func TestContextualizeIndependentKeepsOriginal(t *testing.T) {
	mock := ai.NewMockClient("INDEPENDIENTE: ¿Quién es Karol G?")
	c := NewContextualizer(mock, testTuning, nil)
	history := []model.ConversationTurn{{Role: model.RoleUser, Text: "hola"}}

	res := c.Contextualize(context.Background(), "¿Quién es Bad Bunny?", history)

	require.True(t, res.Success)
	require.Equal(t, "¿Quién es Bad Bunny?", res.Value.ResolvedQuestion,
		"the model's echo must never replace the original question")
	require.False(t, res.Value.WasRewritten)
	require.Len(t, mock.Calls(), 1)
}

func TestContextualizeRewrite(t *testing.T) {
	mock := ai.NewMockClient("CONTEXTUALIZADA: ¿Cuántas canciones tiene Bad Bunny?")
	c := NewContextualizer(mock, testTuning, nil)
	history := []model.ConversationTurn{
		{Role: model.RoleUser, Text: "¿Quién es Bad Bunny?"},
		{Role: model.RoleAssistant, Text: "Un artista puertorriqueño."},
	}

	res := c.Contextualize(context.Background(), "¿cuántas canciones tiene?", history)

	require.True(t, res.Success)
	require.Equal(t, "¿Cuántas canciones tiene Bad Bunny?", res.Value.ResolvedQuestion)
	require.True(t, res.Value.WasRewritten)
	require.Equal(t, model.AnalysisContextualized, res.Value.AnalysisTag)
}

func TestContextualizeModelFailureDegrades(t *testing.T) {
	mock := ai.NewMockClient().FailWith(errors.New("model down"))
	c := NewContextualizer(mock, testTuning, nil)
	history := []model.ConversationTurn{{Role: model.RoleUser, Text: "hola"}}

	res := c.Contextualize(context.Background(), "¿Quién es Bad Bunny?", history)

	require.False(t, res.Success)
	require.Equal(t, "¿Quién es Bad Bunny?", res.Value.ResolvedQuestion,
		"failure must still hand back the original question")
	require.False(t, res.Value.WasRewritten)
}

func TestContextualizeUnprefixedReplyIsLenient(t *testing.T) {
	mock := ai.NewMockClient("¿Cuántas canciones tiene Bad Bunny?")
	c := NewContextualizer(mock, testTuning, nil)
	history := []model.ConversationTurn{{Role: model.RoleUser, Text: "hola"}}

	res := c.Contextualize(context.Background(), "¿cuántas tiene?", history)

	require.True(t, res.Success)
	require.Equal(t, "¿Cuántas canciones tiene Bad Bunny?", res.Value.ResolvedQuestion)
	require.True(t, res.Value.WasRewritten)
}
