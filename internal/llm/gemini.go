package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiProvider implementiert Provider und Transcriber über die Gemini-API.
// Der Client wird pro Anfrage erstellt, da er an einen Context gebunden ist.
type GeminiProvider struct {
	apiKey string
	model  string
}

// NewGeminiProvider erstellt einen neuen Gemini-Provider
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (g *GeminiProvider) GetName() string { return "gemini" }

// SetModel ändert das Standard-Modell
func (g *GeminiProvider) SetModel(model string) {
	if model != "" {
		g.model = model
	}
}

// GetCurrentModel gibt das aktuelle Modell zurück
func (g *GeminiProvider) GetCurrentModel() string { return g.model }

func (g *GeminiProvider) IsAvailable(ctx context.Context) bool {
	if g.apiKey == "" {
		return false
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return false
	}
	defer client.Close()

	it := client.ListModels(ctx)
	_, err = it.Next()
	return err == nil || errors.Is(err, iterator.Done)
}

// buildModel konfiguriert das generative Modell für eine Anfrage.
// Gemini unterstützt kein striktes JSON-Schema, daher wird das Schema
// in die System-Anweisung eingebettet und nur der MIME-Typ erzwungen.
func (g *GeminiProvider) buildModel(client *genai.Client, schema *Schema, options *Options) (*genai.GenerativeModel, error) {
	name := g.model
	system := ""
	var temperature float32

	if options != nil {
		if options.Model != "" {
			name = options.Model
		}
		system = options.System
		temperature = options.Temperature
	}

	model := client.GenerativeModel(name)
	model.GenerationConfig.Temperature = &temperature

	if schema != nil {
		model.GenerationConfig.ResponseMIMEType = "application/json"
		raw, err := json.Marshal(schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("schema-marshal fehlgeschlagen: %w", err)
		}
		system += "\n\nAntworte ausschließlich mit einem JSON-Objekt nach diesem Schema:\n" + string(raw)
	}

	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	return model, nil
}

// buildParts fügt die Chat-Nachrichten zu einem Prompt zusammen
func buildParts(messages []ChatMessage) []genai.Part {
	var sb strings.Builder
	for i, m := range messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.Content)
	}
	return []genai.Part{genai.Text(sb.String())}
}

// extractText sammelt alle Text-Parts einer Antwort ein
func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

func (g *GeminiProvider) Complete(ctx context.Context, messages []ChatMessage, schema *Schema, options *Options) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini-client fehlgeschlagen: %w", err)
	}
	defer client.Close()

	model, err := g.buildModel(client, schema, options)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, buildParts(messages)...)
	if err != nil {
		return "", fmt.Errorf("gemini-anfrage fehlgeschlagen: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", errors.New("gemini: leere Antwort")
	}
	return text, nil
}

func (g *GeminiProvider) CompleteStream(ctx context.Context, messages []ChatMessage, schema *Schema, options *Options) (<-chan StreamChunk, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini-client fehlgeschlagen: %w", err)
	}

	model, err := g.buildModel(client, schema, options)
	if err != nil {
		client.Close()
		return nil, err
	}

	it := model.GenerateContentStream(ctx, buildParts(messages)...)
	ch := make(chan StreamChunk, 100)

	go func() {
		defer close(ch)
		defer client.Close()

		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				ch <- StreamChunk{Done: true}
				return
			}
			if err != nil {
				ch <- StreamChunk{Error: err}
				return
			}
			if delta := extractText(resp); delta != "" {
				ch <- StreamChunk{Content: delta}
			}
		}
	}()

	return ch, nil
}

// Transcribe liest die abgebildete Aufgabe per Vision aus
func (g *GeminiProvider) Transcribe(ctx context.Context, image []byte, mimeType string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini-client fehlgeschlagen: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(transcribeSystemPrompt)},
	}

	resp, err := model.GenerateContent(ctx,
		genai.Text(transcribeUserPrompt),
		genai.Blob{MIMEType: mimeType, Data: image},
	)
	if err != nil {
		return "", fmt.Errorf("gemini-transkription fehlgeschlagen: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", errors.New("gemini: leere Antwort")
	}
	return text, nil
}
