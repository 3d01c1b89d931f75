package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"music-chat-pipeline/internal/model"
)

func TestFormatHistory(t *testing.T) {
	require.Empty(t, FormatHistory(nil))

	turns := []model.ConversationTurn{
		{Role: model.RoleUser, Text: "¿Quién es Bad Bunny?"},
		{Role: model.RoleAssistant, Text: "Bad Bunny es un artista puertorriqueño."},
	}
	got := FormatHistory(turns)
	require.Equal(t, "Usuario: ¿Quién es Bad Bunny?\nAsistente: Bad Bunny es un artista puertorriqueño.", got)
}

func TestContextualizePrompt(t *testing.T) {
	prompt, err := Contextualize("Usuario: hola", "¿cuántas canciones tiene?")
	require.NoError(t, err)
	require.Contains(t, prompt, "Usuario: hola")
	require.Contains(t, prompt, "¿cuántas canciones tiene?")
	require.Contains(t, prompt, "INDEPENDIENTE")
	require.Contains(t, prompt, "CONTEXTUALIZADA")
}

func TestValidatePrompt(t *testing.T) {
	prompt, err := Validate("¿Quién es Bad Bunny?")
	require.NoError(t, err)
	require.Contains(t, prompt, "¿Quién es Bad Bunny?")
	require.Contains(t, prompt, "VALIDA")
	require.Contains(t, prompt, "FUERA_CONTEXTO")
}

func TestGenerateSQLPromptCarriesSchemaAndLimit(t *testing.T) {
	prompt, err := GenerateSQL("canciones más populares", 50)
	require.NoError(t, err)
	require.Contains(t, prompt, "CREATE TABLE artists")
	require.Contains(t, prompt, "CREATE TABLE tracks")
	require.Contains(t, prompt, "50")
	require.Contains(t, prompt, RefusalPrefix)
}

func TestFilterPrompt(t *testing.T) {
	prompt, err := Filter("ARTISTA:\n- Bad Bunny", "Te cuento sobre Bad Bunny")
	require.NoError(t, err)
	require.Contains(t, prompt, "- Bad Bunny")
	require.Contains(t, prompt, "RESPUESTA_LIMPIA")
	require.Contains(t, prompt, "RESPUESTA_FILTRADA")
	require.Contains(t, prompt, "RESPUESTA_ALTERNATIVA")
}

func TestFormatExcludedTerms(t *testing.T) {
	require.Equal(t, "No hay términos excluidos para este usuario.", FormatExcludedTerms(nil))

	terms := []model.ExcludedTerm{
		{Term: "Bad Bunny", Category: "artista"},
		{Term: "reggaeton", Category: "genero"},
		{Term: "Anuel AA", Category: "artista"},
	}
	got := FormatExcludedTerms(terms)
	require.Contains(t, got, "ARTISTA:")
	require.Contains(t, got, "- Bad Bunny")
	require.Contains(t, got, "- Anuel AA")
	require.Contains(t, got, "GENERO:")
	require.Contains(t, got, "- reggaeton")
	// Categories keep insertion order.
	require.Less(t, strings.Index(got, "ARTISTA:"), strings.Index(got, "GENERO:"))
}
