package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSynthesizeJSONArray(t *testing.T) {
	s := NewSynthesizer(nil)
	raw := `[{"artist":"Bad Bunny","tracks":120},{"artist":"Karol G","tracks":85}]`

	res := s.Synthesize("¿qué artista tiene más canciones?", raw, "casual", "normal")

	require.True(t, res.Success)
	require.Equal(t, 85, res.Value.Confidence)
	require.Contains(t, res.Value.DataSummary, "Se encontraron 2 resultados")
	require.Contains(t, res.Value.DataSummary, "artist, tracks")
	require.Contains(t, res.Value.Text, "¡Hola! Te cuento que ")
	require.Contains(t, res.Value.Text, "encontré 2 resultados")
}

func TestSynthesizeJSONObject(t *testing.T) {
	s := NewSynthesizer(nil)
	raw := `{"name":"Tití Me Preguntó","popularity":98}`

	res := s.Synthesize("datos de la canción", raw, "formal", "normal")

	require.Contains(t, res.Value.DataSummary, "Se encontró 1 resultado")
	require.Contains(t, res.Value.DataSummary, "name, popularity")
	require.Contains(t, res.Value.Text, "Según la información disponible")
	require.Contains(t, res.Value.Text, "no dude en consultarme")
}

func TestSynthesizeEmptyResults(t *testing.T) {
	s := NewSynthesizer(nil)

	res := s.Synthesize("artistas de jazz", "", "casual", "normal")

	require.True(t, res.Success)
	require.Equal(t, "No se encontraron resultados", res.Value.DataSummary)
	require.Contains(t, res.Value.Text, "no encontré resultados")
	require.Empty(t, res.Value.Highlights)
}

func TestSynthesizePlainTextCountsLines(t *testing.T) {
	s := NewSynthesizer(nil)
	raw := "name|popularity\nBad Bunny|98\nKarol G|95"

	res := s.Synthesize("artistas populares", raw, "casual", "normal")

	require.Contains(t, res.Value.DataSummary, "Se encontraron 3 resultados")
	require.Contains(t, res.Value.DataSummary, "name, popularity")
}

func TestSynthesizeMalformedJSONFallsBack(t *testing.T) {
	s := NewSynthesizer(nil)
	raw := `[{"artist":"Bad Bunny",` // truncated

	res := s.Synthesize("artistas", raw, "casual", "normal")

	require.True(t, res.Success)
	require.Equal(t, 30, res.Value.Confidence, "recovered analysis reports low confidence")
	require.NotEmpty(t, res.Value.Text)
}

func TestSynthesizeDetailedLengthEnumeratesCategories(t *testing.T) {
	s := NewSynthesizer(nil)
	raw := `[{"artist":"a"},{"artist":"b"}]`

	res := s.Synthesize("artistas", raw, "formal", "detailed")

	require.Contains(t, res.Value.Text, "resumen completo")
	require.Contains(t, res.Value.Text, "información sobre artist")
}

func TestRelatedQuestionBuckets(t *testing.T) {
	s := NewSynthesizer(nil)

	res := s.Synthesize("háblame del artista Bad Bunny", "[]", "casual", "normal")
	require.Len(t, res.Value.RelatedQuestions, 3)
	require.Contains(t, res.Value.RelatedQuestions[0], "canciones más populares de este artista")

	res = s.Synthesize("¿de qué año es esta canción?", "[]", "casual", "normal")
	require.Contains(t, res.Value.RelatedQuestions[0], "lanzada")

	res = s.Synthesize("lo más popular del momento", "[]", "casual", "normal")
	require.Contains(t, res.Value.RelatedQuestions[0], "géneros musicales más populares")

	res = s.Synthesize("recomiéndame algo", "[]", "casual", "normal")
	require.Contains(t, res.Value.RelatedQuestions[0], "saber sobre música")
}

func TestHighlights(t *testing.T) {
	s := NewSynthesizer(nil)
	raw := `[{"artist":"a","tracks":1},{"artist":"b","tracks":2},{"artist":"c","tracks":3}]`

	res := s.Synthesize("artistas", raw, "casual", "normal")

	require.Contains(t, res.Value.Highlights, "3 resultados encontrados")
	require.Contains(t, res.Value.Highlights, "Categorías: artist, tracks")
}
