package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"matheassistent/internal/llm"
	"matheassistent/internal/models"
)

// Fehler des Solve-Lebenszyklus. Die Texte gehen unverändert an den Nutzer.
var (
	ErrEmptyInput    = errors.New("Bitte gib eine Gleichung ein")
	ErrInvalidFormat = errors.New("Ungültiges Antwortformat")
	ErrIncomplete    = errors.New("Unvollständige Lösungsdaten")
)

const solveSystemPrompt = `Du bist ein geduldiger Mathematik-Tutor.
Du löst Aufgaben Schritt für Schritt und erklärst jeden Schritt so,
dass auch Lernende mit Schwierigkeiten ihn nachvollziehen können.
Antworte ausschließlich mit einem JSON-Objekt, ohne Markdown.`

// Solver verwaltet den Lösungs-Lebenszyklus: Anfrage, Streaming-Akkumulation,
// Validierung und Verlauf
type Solver struct {
	registry    *llm.Registry
	transcriber llm.Transcriber
	history     *History

	// Generationszähler: jeder Solve beansprucht eine Generation;
	// überholte Solves werden zu Ende gerechnet, aber nie committet.
	// Prüfung und Commit laufen unter demselben Mutex.
	mu         sync.Mutex
	generation uint64

	// begrenzt parallele Enrichment-Anfragen ans LLM
	sem chan struct{}
}

// NewSolver erstellt einen neuen Solver
func NewSolver(registry *llm.Registry, transcriber llm.Transcriber, historyLimit int) *Solver {
	return &Solver{
		registry:    registry,
		transcriber: transcriber,
		history:     NewHistory(historyLimit),
		sem:         make(chan struct{}, 2),
	}
}

// History gibt den Lösungsverlauf zurück
func (s *Solver) History() *History {
	return s.history
}

// Registry gibt die Provider-Registry zurück
func (s *Solver) Registry() *llm.Registry {
	return s.registry
}

// Solve löst eine Aufgabe. Ist onProgress gesetzt, wird die Antwort gestreamt
// und onProgress bei jedem Chunk mit dem GESAMTEN bisherigen Text aufgerufen
// (ersetzen, nicht anhängen). Nur der jüngste Solve committet in den Verlauf;
// ein überholter Solve liefert seine Lösung zwar zurück, hinterlässt aber
// keine Spuren.
func (s *Solver) Solve(ctx context.Context, input string, onProgress func(string)) (*models.Solution, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	gen := s.claimGeneration()
	provider := s.registry.Active()
	log.Printf("   [Solver] Löse Aufgabe über %s (%s)", provider.GetName(), provider.GetCurrentModel())

	prompt := fmt.Sprintf(`Löse die folgende Mathematikaufgabe Schritt für Schritt:

%s

Gib für jeden Schritt eine kurze Erklärung und die zugehörige Gleichung an.
Nutze keine LaTeX-Befehle, nur Klartext.`, input)

	messages := []llm.ChatMessage{{Role: "user", Content: prompt}}
	options := &llm.Options{Temperature: 0.2, System: solveSystemPrompt}

	raw, err := s.complete(ctx, provider, messages, solutionSchema, options, onProgress)
	if err != nil {
		return nil, err
	}

	solution, err := parseSolution(raw)
	if err != nil {
		log.Printf("   [Solver] ❌ %v", err)
		return nil, err
	}

	solution.Topic = ClassifyTopic(input)

	if s.commitIfCurrent(gen, input, *solution) {
		log.Printf("   [Solver] ✓ Lösung committet (%d Schritte, Thema: %s)", len(solution.Steps), solution.Topic)
	} else {
		log.Printf("   [Solver] Lösung verworfen: Generation %d wurde überholt", gen)
	}

	return solution, nil
}

func (s *Solver) claimGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// commitIfCurrent schreibt in den Verlauf, solange gen nicht überholt wurde.
// Prüfung und Add stehen unter einem Lock, damit zwischen beiden kein
// neuer Solve dazwischenkommen kann.
func (s *Solver) commitIfCurrent(gen uint64, input string, solution models.Solution) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.history.Add(input, solution)
	return true
}

// complete holt die Antwort entweder streamend oder am Stück
func (s *Solver) complete(ctx context.Context, provider llm.Provider, messages []llm.ChatMessage, schema *llm.Schema, options *llm.Options, onProgress func(string)) (string, error) {
	if onProgress == nil {
		return provider.Complete(ctx, messages, schema, options)
	}

	stream, err := provider.CompleteStream(ctx, messages, schema, options)
	if err != nil {
		return "", err
	}

	var acc strings.Builder
	for chunk := range stream {
		if chunk.Error != nil {
			return "", fmt.Errorf("stream abgebrochen: %w", chunk.Error)
		}
		if chunk.Done {
			break
		}
		acc.WriteString(chunk.Content)
		onProgress(acc.String())
	}

	return acc.String(), nil
}

// parseSolution parst und validiert die akkumulierte LLM-Antwort.
// Schlägt die Validierung fehl, wird nichts committet.
func parseSolution(raw string) (*models.Solution, error) {
	jsonStr, ok := extractJSON(StripCodeFences(raw))
	if !ok {
		return nil, ErrInvalidFormat
	}

	var solution models.Solution
	if err := json.Unmarshal([]byte(jsonStr), &solution); err != nil {
		return nil, ErrInvalidFormat
	}

	if len(solution.Steps) == 0 || strings.TrimSpace(solution.FinalAnswer) == "" {
		return nil, ErrIncomplete
	}

	// Fehlende Tips werden zu einer leeren Liste normalisiert
	if solution.Tips == nil {
		solution.Tips = []string{}
	}

	// LaTeX-Reste aus den Anzeige-Strings streichen
	for i := range solution.Steps {
		solution.Steps[i].Explanation = CleanDisplay(solution.Steps[i].Explanation)
		solution.Steps[i].Equation = CleanDisplay(solution.Steps[i].Equation)
	}
	solution.FinalAnswer = CleanDisplay(solution.FinalAnswer)

	return &solution, nil
}
