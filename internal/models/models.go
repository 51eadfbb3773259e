package models

import "time"

// SolutionStep repräsentiert einen einzelnen Lösungsschritt
type SolutionStep struct {
	Explanation string `json:"explanation"`
	Equation    string `json:"equation"`
}

// GraphPoint repräsentiert einen Punkt in den Graph-Daten
type GraphPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GraphData enthält optionale Daten für eine grafische Darstellung.
// Wird unverändert ans Frontend durchgereicht (kein Rendering im Backend).
type GraphData struct {
	Type   string       `json:"type"`
	Points []GraphPoint `json:"points"`
}

// Solution repräsentiert eine vollständige Schritt-für-Schritt-Lösung.
// Gültig nur mit nicht-leeren Steps und nicht-leerem FinalAnswer.
type Solution struct {
	Steps           []SolutionStep `json:"steps"`
	FinalAnswer     string         `json:"final_answer"`
	DifficultyLevel string         `json:"difficulty_level,omitempty"`
	Tips            []string       `json:"tips"`
	GraphData       *GraphData     `json:"graph_data,omitempty"`
	Topic           string         `json:"topic,omitempty"` // nur Anzeige, hat keinen Einfluss auf die Lösung
}

// HistoryEntry repräsentiert einen Eintrag im Lösungsverlauf (max. 5, FIFO)
type HistoryEntry struct {
	Input     string    `json:"input"`
	Solution  Solution  `json:"solution"`
	Timestamp time.Time `json:"timestamp"`
}

// SavedSolution repräsentiert eine gespeicherte Lösung mit Notizen
type SavedSolution struct {
	ID         string    `json:"id"`
	Equation   string    `json:"equation"`
	Topic      string    `json:"topic,omitempty"`
	Solution   Solution  `json:"solution"`
	Notes      string    `json:"notes"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
}

// AlternativeMethod repräsentiert einen alternativen Lösungsweg (flüchtig, nicht persistiert)
type AlternativeMethod struct {
	Name        string         `json:"name"`
	Steps       []SolutionStep `json:"steps"`
	FinalAnswer string         `json:"final_answer"`
}

// PracticeProblem repräsentiert eine generierte Übungsaufgabe (flüchtig, nicht persistiert)
type PracticeProblem struct {
	Problem    string `json:"problem"`
	Difficulty string `json:"difficulty"`
	Solution   string `json:"solution"`
}

// Preferences repräsentiert die Anzeige-Einstellungen des Nutzers
type Preferences struct {
	Theme        string `json:"theme"`     // light, dark
	FontSize     string `json:"font_size"` // small, normal, large
	HighContrast bool   `json:"high_contrast"`
}

// Upload repräsentiert ein hochgeladenes Aufgabenbild
type Upload struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Worksheet repräsentiert ein verarbeitetes Aufgabenblatt (PDF)
type Worksheet struct {
	Name      string   `json:"name"`
	PageCount int      `json:"page_count"`
	Equations []string `json:"equations"`
}
