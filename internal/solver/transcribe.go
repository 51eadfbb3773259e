package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"matheassistent/internal/llm"
)

// Transcribe liest die Aufgabe aus einem Aufgabenfoto aus.
// Das Vision-Modell ist angewiesen, nur die Gleichung zurückzugeben.
func (s *Solver) Transcribe(ctx context.Context, image []byte, mimeType string) (string, error) {
	if s.transcriber == nil {
		return "", errors.New("kein Vision-Provider konfiguriert")
	}

	text, err := s.transcriber.Transcribe(ctx, image, mimeType)
	if err != nil {
		return "", fmt.Errorf("Transkription fehlgeschlagen: %w", err)
	}

	equation := strings.TrimSpace(StripCodeFences(text))
	if equation == "" {
		return "", errors.New("keine Gleichung im Bild erkannt")
	}

	log.Printf("   [Solver] ✓ Gleichung erkannt: %s", equation)
	return equation, nil
}

// WorksheetEquations extrahiert die enthaltenen Aufgaben aus dem
// Klartext eines Aufgabenblatts
func (s *Solver) WorksheetEquations(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("das Aufgabenblatt enthält keinen Text")
	}

	prompt := fmt.Sprintf(`Der folgende Text stammt aus einem Mathematik-Aufgabenblatt.
Extrahiere alle enthaltenen Gleichungen und Aufgaben als Klartext-Liste.

%s`, limitContent(text, 12000))

	messages := []llm.ChatMessage{{Role: "user", Content: prompt}}
	options := &llm.Options{Temperature: 0.2, System: solveSystemPrompt}

	raw, err := s.registry.Active().Complete(ctx, messages, worksheetSchema, options)
	if err != nil {
		return nil, fmt.Errorf("Aufgabenblatt-Analyse fehlgeschlagen: %w", err)
	}

	jsonStr, ok := extractJSON(StripCodeFences(raw))
	if !ok {
		return nil, ErrInvalidFormat
	}

	var result struct {
		Equations []string `json:"equations"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, ErrInvalidFormat
	}

	log.Printf("   [Solver] ✓ %d Aufgaben aus Aufgabenblatt extrahiert", len(result.Equations))
	return result.Equations, nil
}

func limitContent(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "\n[... gekürzt ...]"
}
