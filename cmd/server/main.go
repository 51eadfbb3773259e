package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matheassistent/internal/api"
	"matheassistent/internal/config"
	"matheassistent/internal/llm"
	"matheassistent/internal/solver"
	"matheassistent/internal/storage"
	"matheassistent/internal/upload"
)

func main() {
	log.SetFlags(log.Ltime | log.Lmsgprefix)
	log.SetPrefix("")

	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🧮 MATHE-ASSISTENT - Start")
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// Kommandozeilen-Flags
	configPath := flag.String("config", "config.json", "Pfad zur Konfigurationsdatei")
	port := flag.String("port", "", "Server-Port (überschreibt Konfiguration)")
	flag.Parse()

	// Konfiguration laden
	log.Println("📋 Lade Konfiguration...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("⚠️  Konnte Konfiguration nicht laden, verwende Standardwerte: %v", err)
	}
	if *port != "" {
		cfg.ServerPort = *port
	}
	log.Printf("   ✓ Konfiguration geladen")

	// Storage initialisieren
	log.Println("💾 Initialisiere Datenbank...")
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Fehler beim Initialisieren der Datenbank: %v", err)
	}
	defer store.Close()
	log.Printf("   ✓ Datenbank: %s", cfg.DatabasePath)

	// Upload-Store initialisieren
	uploads, err := upload.NewStore(cfg.UploadsPath)
	if err != nil {
		log.Fatalf("❌ Fehler beim Anlegen des Upload-Verzeichnisses: %v", err)
	}
	log.Printf("   ✓ Uploads: %s", cfg.UploadsPath)

	// LLM-Provider initialisieren
	log.Println("🤖 Initialisiere LLM-Provider...")
	openaiProvider := llm.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
	geminiProvider := llm.NewGeminiProvider(cfg.GeminiKey, cfg.GeminiModel)

	registry, err := llm.NewRegistry(cfg.DefaultProvider, openaiProvider, geminiProvider)
	if err != nil {
		log.Fatalf("❌ Ungültiger Standard-Provider: %v", err)
	}

	// Vision-Provider für die Bild-Transkription
	var transcriber llm.Transcriber
	if cfg.VisionProvider == "openai" {
		transcriber = llm.NewOpenAIProvider(cfg.OpenAIKey, cfg.VisionModel)
	} else {
		transcriber = llm.NewGeminiProvider(cfg.GeminiKey, cfg.VisionModel)
	}

	// Erreichbarkeit prüfen
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	active := registry.Active()
	if active.IsAvailable(ctx) {
		log.Printf("   ✓ Provider erreichbar: %s (%s)", active.GetName(), active.GetCurrentModel())
	} else {
		log.Printf("   ⚠️  Provider %s NICHT erreichbar, API-Key prüfen", active.GetName())
	}
	cancel()

	// Solver erstellen
	sv := solver.NewSolver(registry, transcriber, cfg.HistoryLimit)

	// API-Handler und Router erstellen
	handler := api.NewHandler(store, sv, uploads)
	router := api.NewRouter(handler)

	// Server starten
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// Graceful Shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("")
		log.Println("⏹️  Server wird heruntergefahren...")
		server.Close()
	}()

	log.Println("")
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("✅ Server läuft auf: http://localhost:%s", cfg.ServerPort)
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("💡 Drücke Strg+C zum Beenden")
	log.Println("")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server-Fehler: %v", err)
	}
}
