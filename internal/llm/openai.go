package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implementiert Provider und Transcriber über die OpenAI-API
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider erstellt einen neuen OpenAI-Provider
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAIProvider) GetName() string { return "openai" }

// SetModel ändert das Standard-Modell
func (o *OpenAIProvider) SetModel(model string) {
	if model != "" {
		o.model = model
	}
}

// GetCurrentModel gibt das aktuelle Modell zurück
func (o *OpenAIProvider) GetCurrentModel() string { return o.model }

func (o *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := o.client.ListModels(ctx)
	return err == nil
}

func (o *OpenAIProvider) buildRequest(messages []ChatMessage, schema *Schema, options *Options) (openai.ChatCompletionRequest, error) {
	req := openai.ChatCompletionRequest{Model: o.model}

	if options != nil {
		if options.Model != "" {
			req.Model = options.Model
		}
		req.Temperature = options.Temperature
		if options.System != "" {
			req.Messages = append(req.Messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: options.System,
			})
		}
	}

	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	if schema != nil {
		raw, err := json.Marshal(schema.Definition)
		if err != nil {
			return req, fmt.Errorf("schema-marshal fehlgeschlagen: %w", err)
		}
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.Name,
				Schema: json.RawMessage(raw),
			},
		}
	}

	return req, nil
}

func (o *OpenAIProvider) Complete(ctx context.Context, messages []ChatMessage, schema *Schema, options *Options) (string, error) {
	req, err := o.buildRequest(messages, schema, options)
	if err != nil {
		return "", err
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai-anfrage fehlgeschlagen: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: leere Antwort")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAIProvider) CompleteStream(ctx context.Context, messages []ChatMessage, schema *Schema, options *Options) (<-chan StreamChunk, error) {
	req, err := o.buildRequest(messages, schema, options)
	if err != nil {
		return nil, err
	}
	req.Stream = true

	stream, err := o.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai-stream fehlgeschlagen: %w", err)
	}

	ch := make(chan StreamChunk, 100)

	go func() {
		defer close(ch)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				ch <- StreamChunk{Done: true}
				return
			}
			if err != nil {
				ch <- StreamChunk{Error: err}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if delta := resp.Choices[0].Delta.Content; delta != "" {
				ch <- StreamChunk{Content: delta}
			}
		}
	}()

	return ch, nil
}

// Transcribe liest die abgebildete Aufgabe per Vision-Modell aus.
// Das Modell wird angewiesen, ausschließlich die Gleichung zurückzugeben.
func (o *OpenAIProvider) Transcribe(ctx context.Context, image []byte, mimeType string) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: transcribeSystemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: transcribeUserPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailHigh,
					}},
				},
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai-transkription fehlgeschlagen: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: leere Antwort")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
