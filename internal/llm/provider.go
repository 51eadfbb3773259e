package llm

import (
	"context"
	"fmt"
	"sync"
)

// Provider definiert das Interface für die austauschbaren Completion-Backends
type Provider interface {
	// Complete erzeugt eine vollständige Antwort (nicht streamend)
	Complete(ctx context.Context, messages []ChatMessage, schema *Schema, options *Options) (string, error)

	// CompleteStream erzeugt eine Streaming-Antwort; die Chunks sind Deltas
	CompleteStream(ctx context.Context, messages []ChatMessage, schema *Schema, options *Options) (<-chan StreamChunk, error)

	// IsAvailable prüft, ob das Backend erreichbar ist
	IsAvailable(ctx context.Context) bool

	// GetName gibt den Namen des Providers zurück
	GetName() string

	// SetModel ändert das verwendete Modell
	SetModel(model string)

	// GetCurrentModel gibt das aktuelle Modell zurück
	GetCurrentModel() string
}

// Transcriber definiert das Interface für Bild-zu-Text (Vision)
type Transcriber interface {
	// Transcribe liest die abgebildete Aufgabe aus einem Bild aus
	Transcribe(ctx context.Context, image []byte, mimeType string) (string, error)
}

const (
	transcribeSystemPrompt = `Du bist ein präziser Transkriptions-Assistent für Mathematikaufgaben. ` +
		`Du bekommst ein Foto einer Aufgabe und gibst ausschließlich die mathematische ` +
		`Gleichung oder den Ausdruck als Klartext zurück. Keine Erklärungen, kein Markdown, kein LaTeX.`

	transcribeUserPrompt = `Lies die Mathematikaufgabe aus diesem Bild aus und gib nur die Gleichung zurück.`
)

// ChatMessage repräsentiert eine Chat-Nachricht
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Schema beschreibt die angeforderte strukturierte JSON-Ausgabe
type Schema struct {
	Name       string
	Definition map[string]any
}

// Options enthält optionale Parameter für die Generierung
type Options struct {
	Model       string  `json:"model,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
	System      string  `json:"system,omitempty"`
}

// StreamChunk repräsentiert einen Chunk im Streaming-Modus.
// Content ist ein Delta; der Aufrufer akkumuliert selbst.
type StreamChunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
	Error   error  `json:"error,omitempty"`
}

// Registry verwaltet die registrierten Provider und den aktiven Provider
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry erstellt eine Registry mit dem angegebenen aktiven Provider
func NewRegistry(active string, providers ...Provider) (*Registry, error) {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.providers[p.GetName()] = p
	}
	if _, ok := r.providers[active]; !ok {
		return nil, fmt.Errorf("unbekannter provider '%s'", active)
	}
	r.active = active
	return r, nil
}

// Active gibt den aktuell aktiven Provider zurück
func (r *Registry) Active() Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[r.active]
}

// Switch wechselt den aktiven Provider
func (r *Registry) Switch(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("unbekannter provider '%s'", name)
	}
	r.active = name
	return nil
}

// Names gibt die Namen aller registrierten Provider zurück (aktiver zuerst)
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := []string{r.active}
	for name := range r.providers {
		if name != r.active {
			names = append(names, name)
		}
	}
	return names
}
