package config

import (
	"encoding/json"
	"os"
)

// Config enthält alle Konfigurationseinstellungen
type Config struct {
	// Server-Einstellungen
	ServerPort string `json:"server_port"`

	// Pfade
	DatabasePath string `json:"database_path"`
	UploadsPath  string `json:"uploads_path"`

	// LLM-Einstellungen
	DefaultProvider string `json:"default_provider"` // openai oder gemini
	OpenAIModel     string `json:"openai_model"`
	GeminiModel     string `json:"gemini_model"`

	// Vision (Bild-Transkription)
	VisionProvider string `json:"vision_provider"` // openai oder gemini
	VisionModel    string `json:"vision_model"`

	// API-Keys (leer = aus Umgebungsvariablen)
	OpenAIKey string `json:"openai_api_key,omitempty"`
	GeminiKey string `json:"gemini_api_key,omitempty"`

	// Verlauf
	HistoryLimit int `json:"history_limit"`
}

// Default gibt die Standardkonfiguration zurück
func Default() *Config {
	return &Config{
		ServerPort:      "8080",
		DatabasePath:    "matheassistent.db",
		UploadsPath:     "uploads",
		DefaultProvider: "openai",
		OpenAIModel:     "gpt-4o-mini",
		GeminiModel:     "gemini-1.5-flash",
		VisionProvider:  "gemini",
		VisionModel:     "gemini-1.5-flash",
		HistoryLimit:    5,
	}
}

// Load lädt die Konfiguration aus einer Datei.
// Fehlende API-Keys werden aus den Umgebungsvariablen ergänzt.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg.withEnv(), err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return cfg.withEnv(), err
	}

	return cfg.withEnv(), nil
}

// Save speichert die Konfiguration in eine Datei
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) withEnv() *Config {
	if c.OpenAIKey == "" {
		c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.GeminiKey == "" {
		c.GeminiKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 5
	}
	return c
}
