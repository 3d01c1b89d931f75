// Package prompts holds the fixed prompt templates the pipeline sends to the
// language model, plus the parser for the model's prefix-discriminated
// replies. Prompt format changes should only ever touch this package.
package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"music-chat-pipeline/internal/model"
)

// RefusalPrefix is the literal sentence the SQL-generation prompt instructs
// the model to answer with when a question cannot be served by the schema.
const RefusalPrefix = "No es posible responder"

// DatabaseSchema is the fixed music schema embedded in the SQL prompt.
const DatabaseSchema = `-- =======================================
-- TABLA DE ARTISTAS
-- =======================================
CREATE TABLE artists (
    artist_id INTEGER PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE
);

-- =======================================
-- TABLA DE TRACKS
-- =======================================
CREATE TABLE tracks (
    track_id INTEGER PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    artist_id INT NOT NULL,
    duration_ms INT NOT NULL,
    popularity INT CHECK (popularity >= 0 AND popularity <= 100),
    release_date DATE,
    explicit BIT DEFAULT 0,
    FOREIGN KEY (artist_id) REFERENCES artists(artist_id)
);

-- =======================================
-- TABLA DE CARACTERISTICAS DE AUDIO
-- =======================================
CREATE TABLE audio_features (
    feature_id INTEGER PRIMARY KEY,
    track_id INT NOT NULL,
    danceability FLOAT CHECK (danceability >= 0 AND danceability <= 1),
    energy FLOAT CHECK (energy >= 0 AND energy <= 1),
    loudness FLOAT,
    speechiness FLOAT CHECK (speechiness >= 0 AND speechiness <= 1),
    acousticness FLOAT CHECK (acousticness >= 0 AND acousticness <= 1),
    instrumentalness FLOAT CHECK (instrumentalness >= 0 AND instrumentalness <= 1),
    liveness FLOAT CHECK (liveness >= 0 AND liveness <= 1),
    valence FLOAT CHECK (valence >= 0 AND valence <= 1),
    tempo FLOAT CHECK (tempo > 0),
    time_signature INT CHECK (time_signature >= 1 AND time_signature <= 7),
    FOREIGN KEY (track_id) REFERENCES tracks(track_id)
);`

var contextualizeTmpl = template.Must(template.New("contextualize").Parse(`Eres un asistente musical experto que analiza el contexto de una conversación para mejorar la comprensión de las preguntas del usuario.

Historial de la conversación actual:
{{.History}}

Nueva pregunta del usuario:
"{{.Question}}"

Tu tarea es analizar si la nueva pregunta necesita contexto del historial previo para ser completamente comprendida.

Busca referencias implícitas como:
- Pronombres (él, ella, esto, eso, sus, aquello)
- Referencias temporales (después, antes, luego)
- Continuaciones de temas anteriores
- Preguntas que asumen conocimiento previo

REGLAS DE RESPUESTA:
1. Si la pregunta es completamente independiente y no necesita contexto, responde:
"INDEPENDIENTE: [pregunta original]"

2. Si la pregunta necesita ser reformulada con información del contexto, responde:
"CONTEXTUALIZADA: [pregunta reformulada incluyendo la información necesaria del contexto]"

3. Solo usa información explícita del historial proporcionado
4. Mantén el sentido original de la pregunta
5. Sé conciso y directo

Responde ÚNICAMENTE con el formato especificado.`))

var validateTmpl = template.Must(template.New("validate").Parse(`Analiza la siguiente pregunta del usuario y determina si es válida para un asistente musical especializado en música y canciones.

CONTEXTO DISPONIBLE:
El asistente puede responder preguntas sobre:
- Artistas y cantantes (nombres, biografías, estilos)
- Canciones y álbumes (títulos, fechas, características)
- Géneros musicales y estilos
- Colaboraciones y características técnicas de canciones
- Popularidad, rankings y estadísticas musicales
- Letras, duración e información de tracks
- Características de audio (energía, bailabilidad, tempo, etc.)
- Discografías y repertorios

PREGUNTA DEL USUARIO: "{{.Question}}"

CRITERIOS DE VALIDACIÓN:
1. VALIDA: La pregunta está claramente relacionada con música y puede ser respondida
2. ACLARAR: La pregunta es muy ambigua, demasiado general o necesita más información específica
3. FUERA_CONTEXTO: La pregunta no está relacionada con música, artistas o canciones

Responde únicamente con una de estas opciones:
- "VALIDA"
- "ACLARAR: [explicación específica de qué necesita aclarar]"
- "FUERA_CONTEXTO"`))

var generateSQLTmpl = template.Must(template.New("generateSQL").Parse(`Dada la siguiente estructura de tabla:

{{.Schema}}

Y la siguiente consulta en lenguaje natural:
"{{.Question}}"

Genera una consulta SQL que responda la pregunta del usuario.

REGLAS CRÍTICAS:
0. Devuelve **solo** la sentencia SQL en texto plano, sin explicaciones adicionales
1. Usa INNER JOIN para relacionar tablas cuando sea necesario
2. Aplica filtros relevantes en la cláusula WHERE
3. Usa ORDER BY para ordenar resultados de manera lógica
4. Limita los resultados a {{.ResultLimit}} filas
5. Usa nombres de columnas exactos según el esquema proporcionado
6. Para búsquedas de texto usa LIKE con % (ej: LIKE '%texto%')
7. Para rangos numéricos usa operadores apropiados (>, <, BETWEEN)
8. Usa alias descriptivos para las columnas (AS column_name)
9. Para agregaciones usa GROUP BY apropiadamente
10. Evita subconsultas innecesarias

VALIDACIÓN DE CONTEXTO:
11. Si la consulta se sale del contexto de las tablas disponibles, responde exactamente:
    "No es posible responder a esta consulta con las tablas musicales disponibles"
12. Si la pregunta es ambigua sobre qué datos específicos buscar, genera la consulta más probable

Responde ÚNICAMENTE con la sentencia SQL o el mensaje de validación especificado.`))

var filterTmpl = template.Must(template.New("filter").Parse(`Eres un filtro de contenido para un asistente musical. El usuario ha pedido que ciertos términos nunca aparezcan en las respuestas que recibe.

TÉRMINOS EXCLUIDOS DEL USUARIO:
{{.Terms}}

RESPUESTA ORIGINAL:
{{.Text}}

INSTRUCCIONES:
1. Revisa si la respuesta original contiene alguno de los términos excluidos
2. Si NO contiene ninguno, responde:
"RESPUESTA_LIMPIA: [respuesta original sin cambios]"
3. Si contiene alguno, reescribe la respuesta omitiendo toda mención de esos términos y responde:
"RESPUESTA_FILTRADA: [respuesta reescrita]"
4. Si al omitir los términos la respuesta pierde el sentido, genera una respuesta alternativa útil y responde:
"RESPUESTA_ALTERNATIVA: [respuesta alternativa]"
5. Mantén el tono y el idioma de la respuesta original

Responde ÚNICAMENTE con el formato especificado.`))

func roleLabel(role string) string {
	switch role {
	case model.RoleAssistant:
		return "Asistente"
	default:
		return "Usuario"
	}
}

// FormatHistory renders conversation turns as "<role>: <text>" lines, oldest
// first, for the contextualization prompt.
func FormatHistory(turns []model.ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, turn := range turns {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(roleLabel(turn.Role))
		sb.WriteString(": ")
		sb.WriteString(turn.Text)
	}
	return sb.String()
}

func render(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}

// Contextualize renders the context-resolution prompt.
func Contextualize(history, question string) (string, error) {
	return render(contextualizeTmpl, struct{ History, Question string }{history, question})
}

// Validate renders the question-validation prompt.
func Validate(question string) (string, error) {
	return render(validateTmpl, struct{ Question string }{question})
}

// GenerateSQL renders the SQL-generation prompt with the fixed schema and
// the result limit.
func GenerateSQL(question string, resultLimit int) (string, error) {
	return render(generateSQLTmpl, struct {
		Schema      string
		Question    string
		ResultLimit int
	}{DatabaseSchema, question, resultLimit})
}

// Filter renders the redaction prompt with the user's grouped excluded terms.
func Filter(groupedTerms, text string) (string, error) {
	return render(filterTmpl, struct{ Terms, Text string }{groupedTerms, text})
}

// FormatExcludedTerms groups active terms by category as
// "\nCATEGORY:\n- term" blocks for the redaction prompt.
func FormatExcludedTerms(terms []model.ExcludedTerm) string {
	if len(terms) == 0 {
		return "No hay términos excluidos para este usuario."
	}
	var order []string
	grouped := make(map[string][]string)
	for _, t := range terms {
		cat := strings.ToUpper(t.Category)
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], t.Term)
	}
	var sb strings.Builder
	for _, cat := range order {
		sb.WriteString("\n")
		sb.WriteString(cat)
		sb.WriteString(":\n")
		for _, term := range grouped[cat] {
			sb.WriteString("- ")
			sb.WriteString(term)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
