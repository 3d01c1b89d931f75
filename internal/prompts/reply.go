package prompts

import "strings"

// ReplyKind tags a parsed model reply.
type ReplyKind int

const (
	// ReplyUnrecognized means the reply matched no known prefix. Callers
	// decide what the lenient fallback is; the parser never errors.
	ReplyUnrecognized ReplyKind = iota
	ReplyIndependent
	ReplyContextualized
	ReplyValid
	ReplyClarify
	ReplyOutOfContext
	ReplyClean
	ReplyFiltered
	ReplyAlternative
	ReplyRefusal
)

// Reply is one parsed model answer: the matched variant, the text after the
// prefix (trimmed), and the raw reply for fallbacks.
type Reply struct {
	Kind ReplyKind
	Text string
	Raw  string
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func stripPrefix(s, prefix string) string {
	return strings.TrimSpace(s[len(prefix):])
}

// ParseContextualization classifies a context-resolution reply.
// "INDEPENDIENTE: …" keeps the caller's original question, so Text is left
// empty for that variant; the caller must not use the model's echo.
func ParseContextualization(raw string) Reply {
	trimmed := strings.TrimSpace(raw)
	switch {
	case hasPrefixFold(trimmed, "INDEPENDIENTE:"):
		return Reply{Kind: ReplyIndependent, Raw: raw}
	case hasPrefixFold(trimmed, "CONTEXTUALIZADA:"):
		return Reply{Kind: ReplyContextualized, Text: stripPrefix(trimmed, "CONTEXTUALIZADA:"), Raw: raw}
	default:
		return Reply{Kind: ReplyUnrecognized, Text: trimmed, Raw: raw}
	}
}

// ParseValidation classifies a validation reply into VALIDA / ACLARAR /
// FUERA_CONTEXTO.
func ParseValidation(raw string) Reply {
	trimmed := strings.TrimSpace(raw)
	upper := strings.ToUpper(trimmed)
	switch {
	case strings.HasPrefix(upper, "VALIDA"):
		return Reply{Kind: ReplyValid, Raw: raw}
	case strings.HasPrefix(upper, "ACLARAR"):
		text := strings.TrimSpace(strings.TrimPrefix(trimmed[len("ACLARAR"):], ":"))
		return Reply{Kind: ReplyClarify, Text: text, Raw: raw}
	case strings.HasPrefix(upper, "FUERA_CONTEXTO"):
		return Reply{Kind: ReplyOutOfContext, Raw: raw}
	default:
		return Reply{Kind: ReplyUnrecognized, Text: trimmed, Raw: raw}
	}
}

// ParseSQL classifies a SQL-generation reply: either a refusal sentence or a
// statement, with a surrounding ```sql fence stripped when both markers are
// present. Fence stripping is the only cleanup applied.
func ParseSQL(raw string) Reply {
	cleaned := stripFence(strings.TrimSpace(raw))
	// Some models label the statement even without a fence.
	if hasPrefixFold(cleaned, "sql\n") || hasPrefixFold(cleaned, "sql ") {
		cleaned = strings.TrimSpace(cleaned[len("sql"):])
	}
	if hasPrefixFold(cleaned, RefusalPrefix) {
		return Reply{Kind: ReplyRefusal, Text: cleaned, Raw: raw}
	}
	return Reply{Kind: ReplyUnrecognized, Text: cleaned, Raw: raw}
}

// ParseFilter classifies a redaction reply, checking prefixes in priority
// order: LIMPIA, FILTRADA, ALTERNATIVA.
func ParseFilter(raw string) Reply {
	trimmed := strings.TrimSpace(raw)
	switch {
	case hasPrefixFold(trimmed, "RESPUESTA_LIMPIA:"):
		return Reply{Kind: ReplyClean, Text: stripPrefix(trimmed, "RESPUESTA_LIMPIA:"), Raw: raw}
	case hasPrefixFold(trimmed, "RESPUESTA_FILTRADA:"):
		return Reply{Kind: ReplyFiltered, Text: stripPrefix(trimmed, "RESPUESTA_FILTRADA:"), Raw: raw}
	case hasPrefixFold(trimmed, "RESPUESTA_ALTERNATIVA:"):
		return Reply{Kind: ReplyAlternative, Text: stripPrefix(trimmed, "RESPUESTA_ALTERNATIVA:"), Raw: raw}
	default:
		return Reply{Kind: ReplyUnrecognized, Text: trimmed, Raw: raw}
	}
}

// stripFence drops the first and last line when the text is wrapped in a
// fenced code block (```sql … ```). Anything not wrapped passes through.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 || !strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		return s
	}
	body := strings.Join(lines[1:len(lines)-1], "\n")
	return strings.TrimSpace(body)
}
