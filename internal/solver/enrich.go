package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"matheassistent/internal/llm"
	"matheassistent/internal/models"
)

// Enrichment: Zusatzinhalte zu einer bereits gelösten Aufgabe.
// Unabhängig vom Solve-Zustand; ein Fehler hier rührt die
// committete Lösung nicht an.

// AlternativeMethods erzeugt alternative Lösungswege für eine gelöste Aufgabe
func (s *Solver) AlternativeMethods(ctx context.Context, problem, finalAnswer string) ([]models.AlternativeMethod, error) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	prompt := fmt.Sprintf(`Die Aufgabe "%s" wurde bereits gelöst, Ergebnis: %s.

Zeige 2 bis 3 grundlegend ANDERE Lösungswege für dieselbe Aufgabe.
Jeder Weg bekommt einen kurzen Namen, eigene Schritte und das Endergebnis.
Nutze keine LaTeX-Befehle, nur Klartext.`, problem, finalAnswer)

	messages := []llm.ChatMessage{{Role: "user", Content: prompt}}
	options := &llm.Options{Temperature: 0.5, System: solveSystemPrompt}

	raw, err := s.registry.Active().Complete(ctx, messages, alternativesSchema, options)
	if err != nil {
		return nil, fmt.Errorf("alternative Lösungswege fehlgeschlagen: %w", err)
	}

	jsonStr, ok := extractJSON(StripCodeFences(raw))
	if !ok {
		return nil, ErrInvalidFormat
	}

	var result struct {
		Methods []models.AlternativeMethod `json:"methods"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, ErrInvalidFormat
	}

	log.Printf("   [Solver] ✓ %d alternative Lösungswege", len(result.Methods))
	return result.Methods, nil
}

// PracticeProblems erzeugt Übungsaufgaben zum Typ der gelösten Aufgabe
func (s *Solver) PracticeProblems(ctx context.Context, problem string) ([]models.PracticeProblem, error) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	prompt := fmt.Sprintf(`Erstelle 3 Übungsaufgaben vom selben Typ wie diese Aufgabe:

%s

Jede Aufgabe bekommt einen Schwierigkeitsgrad (leicht, mittel, schwer)
und eine kurze Lösung. Nutze keine LaTeX-Befehle, nur Klartext.`, problem)

	messages := []llm.ChatMessage{{Role: "user", Content: prompt}}
	options := &llm.Options{Temperature: 0.7, System: solveSystemPrompt}

	raw, err := s.registry.Active().Complete(ctx, messages, practiceSchema, options)
	if err != nil {
		return nil, fmt.Errorf("Übungsaufgaben fehlgeschlagen: %w", err)
	}

	jsonStr, ok := extractJSON(StripCodeFences(raw))
	if !ok {
		return nil, ErrInvalidFormat
	}

	var result struct {
		Problems []models.PracticeProblem `json:"problems"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, ErrInvalidFormat
	}

	log.Printf("   [Solver] ✓ %d Übungsaufgaben", len(result.Problems))
	return result.Problems, nil
}
