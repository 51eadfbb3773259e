package solver

import "strings"

// CleanDisplay entfernt LaTeX-Reste aus Anzeige-Strings.
// Backslashes, geschweifte Klammern und Dollarzeichen werden gestrichen:
// "\frac{1}{2}" wird zu "frac12".
func CleanDisplay(s string) string {
	replacer := strings.NewReplacer(
		"\\", "",
		"{", "",
		"}", "",
		"$", "",
	)
	return replacer.Replace(s)
}

// StripCodeFences entfernt Markdown-Code-Zäune um eine LLM-Antwort
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Erste Zeile (```json o.ä.) abschneiden
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSON schneidet das erste JSON-Objekt aus einem Text heraus.
// Enthält der Text kein Objekt, ist das zweite Ergebnis false.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start >= end {
		return "", false
	}
	return text[start : end+1], true
}
