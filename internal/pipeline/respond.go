package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/model"
)

// Fixed confidence constants. This is a placeholder policy: confidence does
// not measure data quality, it only distinguishes the happy path from a
// recovered malformed-results fallback.
const (
	synthesisConfidence         = 85
	synthesisFallbackConfidence = 30
)

// Synthesizer turns raw query-result text into a natural-language answer,
// summary, highlights and related-question suggestions. It is deterministic
// and makes no model calls.
type Synthesizer struct {
	log *zap.Logger
}

// NewSynthesizer builds the answer-synthesis stage.
func NewSynthesizer(log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{log: log}
}

type resultsAnalysis struct {
	itemCount  int
	categories []string
	malformed  bool
}

var numberRe = regexp.MustCompile(`\d+`)

// Synthesize composes the answer for question from rawResults.
func (s *Synthesizer) Synthesize(question, rawResults, tone, length string) model.StageResult[model.NaturalResponseOutcome] {
	start := time.Now()

	analysis := analyzeResults(rawResults)
	body := composeBody(analysis, tone, length)

	confidence := synthesisConfidence
	if analysis.malformed {
		confidence = synthesisFallbackConfidence
	}

	outcome := model.NaturalResponseOutcome{
		Text:             body,
		DataSummary:      summarize(analysis),
		Highlights:       extractHighlights(body, analysis),
		RelatedQuestions: relatedQuestions(question),
		Tone:             tone,
		Confidence:       confidence,
	}

	return model.StageResult[model.NaturalResponseOutcome]{
		Success:   true,
		Value:     outcome,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
}

// analyzeResults sniffs the first non-whitespace character to decide between
// JSON array, JSON object and plain text.
func analyzeResults(raw string) resultsAnalysis {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return resultsAnalysis{}
	}
	switch trimmed[0] {
	case '[', '{':
		if a, ok := analyzeJSON(trimmed); ok {
			return a
		}
		// Claimed to be JSON but does not parse. Fall back to text counting
		// and mark the analysis degraded.
		a := analyzeText(trimmed)
		a.malformed = true
		return a
	default:
		return analyzeText(trimmed)
	}
}

func analyzeText(raw string) resultsAnalysis {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	a := resultsAnalysis{itemCount: len(lines)}
	if a.itemCount < 1 {
		a.itemCount = 1
	}
	// Header-row heuristic: a delimited first line names the columns.
	if len(lines) > 1 && strings.ContainsAny(lines[0], "|\t,") {
		for _, tok := range strings.FieldsFunc(lines[0], func(r rune) bool {
			return r == '|' || r == '\t' || r == ','
		}) {
			if t := strings.TrimSpace(tok); t != "" {
				a.categories = append(a.categories, t)
			}
		}
	}
	return a
}

func analyzeJSON(raw string) (resultsAnalysis, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return resultsAnalysis{}, false
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return resultsAnalysis{itemCount: 1}, true
	}

	var a resultsAnalysis
	switch delim {
	case '[':
		for dec.More() {
			if a.itemCount == 0 {
				keys, ok := firstElementKeys(dec)
				if !ok {
					return resultsAnalysis{}, false
				}
				a.categories = keys
			} else if skipValue(dec) != nil {
				return resultsAnalysis{}, false
			}
			a.itemCount++
		}
		if _, err := dec.Token(); err != nil {
			return resultsAnalysis{}, false
		}
	case '{':
		a.itemCount = 1
		keys, ok := objectKeys(dec)
		if !ok {
			return resultsAnalysis{}, false
		}
		a.categories = keys
	}
	return a, true
}

// objectKeys collects an object's property names in document order. The
// decoder must have just consumed the '{' delimiter.
func objectKeys(dec *json.Decoder) ([]string, bool) {
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		if key, ok := tok.(string); ok {
			keys = append(keys, key)
		}
		if skipValue(dec) != nil {
			return nil, false
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return keys, true
}

// firstElementKeys consumes the next array element; when it is an object its
// property names are returned in order.
func firstElementKeys(dec *json.Decoder) ([]string, bool) {
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		return nil, true
	}
	if delim == '{' {
		return objectKeys(dec)
	}
	// Nested array element: drain it.
	for dec.More() {
		if skipValue(dec) != nil {
			return nil, false
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return nil, true
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	switch delim {
	case '{':
		for dec.More() {
			if _, err := dec.Token(); err != nil { // key
				return err
			}
			if err := skipValue(dec); err != nil {
				return err
			}
		}
	case '[':
		for dec.More() {
			if err := skipValue(dec); err != nil {
				return err
			}
		}
	}
	_, err = dec.Token() // closing delimiter
	return err
}

func summarize(a resultsAnalysis) string {
	var sb strings.Builder
	switch a.itemCount {
	case 0:
		sb.WriteString("No se encontraron resultados")
	case 1:
		sb.WriteString("Se encontró 1 resultado")
	default:
		fmt.Fprintf(&sb, "Se encontraron %d resultados", a.itemCount)
	}
	if len(a.categories) > 0 {
		cats := a.categories
		if len(cats) > 3 {
			cats = cats[:3]
		}
		fmt.Fprintf(&sb, " con información sobre: %s", strings.Join(cats, ", "))
	}
	return sb.String()
}

func composeBody(a resultsAnalysis, tone, length string) string {
	var sb strings.Builder

	switch tone {
	case "formal":
		sb.WriteString("Según la información disponible, ")
	case "casual":
		sb.WriteString("¡Hola! Te cuento que ")
	default:
		sb.WriteString("Basándome en los datos, ")
	}

	switch {
	case a.itemCount == 0:
		sb.WriteString("no encontré resultados específicos para tu consulta. ")
		sb.WriteString("Podrías intentar reformular la pregunta o ser más específico sobre lo que buscas.")
	case a.itemCount == 1:
		sb.WriteString("encontré exactamente lo que buscabas. ")
		sb.WriteString("Te puedo proporcionar la información detallada sobre este resultado.")
	default:
		fmt.Fprintf(&sb, "encontré %d resultados que coinciden con tu búsqueda. ", a.itemCount)
		if length == "detailed" {
			sb.WriteString("Aquí tienes un resumen completo de la información:")
			if len(a.categories) > 0 {
				fmt.Fprintf(&sb, " Los datos incluyen información sobre %s.", strings.Join(a.categories, ", "))
			}
		} else {
			sb.WriteString("Los datos muestran información relevante para tu consulta.")
		}
	}

	if tone == "casual" && a.itemCount > 0 {
		sb.WriteString(" ¿Te gustaría saber algo más específico?")
	} else if tone == "formal" {
		sb.WriteString(" Si necesita información adicional, no dude en consultarme.")
	}
	return sb.String()
}

func extractHighlights(body string, a resultsAnalysis) []string {
	highlights := []string{}
	if a.itemCount > 0 {
		highlights = append(highlights, fmt.Sprintf("%d resultados encontrados", a.itemCount))
	}
	if len(a.categories) > 0 {
		cats := a.categories
		if len(cats) > 2 {
			cats = cats[:2]
		}
		highlights = append(highlights, "Categorías: "+strings.Join(cats, ", "))
	}
	numbers := numberRe.FindAllString(body, -1)
	if len(numbers) > 2 {
		numbers = numbers[:2]
	}
	for _, n := range numbers {
		highlights = append(highlights, "Valor destacado: "+n)
	}
	return highlights
}

// relatedQuestions picks one of four mutually exclusive keyword buckets on
// the original question; each bucket carries exactly three fixed suggestions.
func relatedQuestions(question string) []string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "artista"):
		return []string{
			"¿Cuáles son las canciones más populares de este artista?",
			"¿En qué año comenzó su carrera musical?",
			"¿Con qué otros artistas ha colaborado?",
		}
	case strings.Contains(lower, "canción") || strings.Contains(lower, "cancion"):
		return []string{
			"¿Cuándo fue lanzada esta canción?",
			"¿Qué características musicales tiene?",
			"¿Hay otras canciones similares?",
		}
	case strings.Contains(lower, "popular"):
		return []string{
			"¿Cuáles son los géneros musicales más populares?",
			"¿Qué artistas están en tendencia actualmente?",
			"¿Cuáles son los éxitos más recientes?",
		}
	default:
		return []string{
			"¿Qué más te gustaría saber sobre música?",
			"¿Te interesa algún género musical en particular?",
			"¿Buscas recomendaciones de artistas o canciones?",
		}
	}
}
