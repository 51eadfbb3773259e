package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter erstellt den HTTP-Router mit allen Endpoints
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()

	// API-Version
	api := r.PathPrefix("/api/v1").Subrouter()

	// System
	api.HandleFunc("/health", h.HealthCheck).Methods("GET")
	api.HandleFunc("/providers", h.GetProviders).Methods("GET")
	api.HandleFunc("/provider", h.SetProvider).Methods("POST")

	// Lösen
	api.HandleFunc("/solve", h.Solve).Methods("POST")
	api.HandleFunc("/solve/stream", h.SolveStream)

	// Enrichment
	api.HandleFunc("/solutions/alternatives", h.GetAlternatives).Methods("POST")
	api.HandleFunc("/solutions/practice", h.GetPracticeProblems).Methods("POST")

	// Bild & Aufgabenblatt
	api.HandleFunc("/uploads", h.UploadImage).Methods("POST")
	api.HandleFunc("/transcribe", h.Transcribe).Methods("POST")
	api.HandleFunc("/worksheets", h.UploadWorksheet).Methods("POST")

	// Gespeicherte Lösungen
	api.HandleFunc("/solutions", h.GetSolutions).Methods("GET")
	api.HandleFunc("/solutions", h.CreateSolution).Methods("POST")
	api.HandleFunc("/solutions/{id}/favorite", h.UpdateFavorite).Methods("PATCH")
	api.HandleFunc("/solutions/{id}/notes", h.UpdateNotes).Methods("PATCH")

	// Verlauf & Einstellungen
	api.HandleFunc("/history", h.GetHistory).Methods("GET")
	api.HandleFunc("/preferences", h.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences", h.SavePreferences).Methods("PUT")

	// Hochgeladene Bilder
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploads.Dir()))))

	// Statische Dateien (Frontend)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./web/static")))

	// CORS für lokale Entwicklung
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}
