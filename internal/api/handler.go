package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"matheassistent/internal/models"
	"matheassistent/internal/pdf"
	"matheassistent/internal/solver"
	"matheassistent/internal/storage"
	"matheassistent/internal/upload"
)

const (
	completeTimeout = 60 * time.Second
	streamTimeout   = 120 * time.Second
)

// Handler verwaltet alle API-Endpunkte
type Handler struct {
	store    storage.Storage
	solver   *solver.Solver
	uploads  *upload.Store
	upgrader websocket.Upgrader
}

// NewHandler erstellt einen neuen API-Handler
func NewHandler(store storage.Storage, sv *solver.Solver, uploads *upload.Store) *Handler {
	return &Handler{
		store:   store,
		solver:  sv,
		uploads: uploads,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Response-Helper
func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}

// solveStatus ordnet Solve-Fehlern einen HTTP-Status zu
func solveStatus(err error) int {
	switch {
	case errors.Is(err, solver.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, solver.ErrInvalidFormat), errors.Is(err, solver.ErrIncomplete):
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

// === System ===

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	provider := h.solver.Registry().Active()

	jsonResponse(w, map[string]interface{}{
		"status":        "ok",
		"llm_available": provider.IsAvailable(ctx),
		"provider":      provider.GetName(),
		"model":         provider.GetCurrentModel(),
		"timestamp":     time.Now(),
	}, http.StatusOK)
}

func (h *Handler) GetProviders(w http.ResponseWriter, r *http.Request) {
	registry := h.solver.Registry()
	jsonResponse(w, map[string]interface{}{
		"providers": registry.Names(),
		"active":    registry.Active().GetName(),
		"model":     registry.Active().GetCurrentModel(),
	}, http.StatusOK)
}

// SetProvider wechselt den aktiven Provider (und optional dessen Modell)
func (h *Handler) SetProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider string `json:"provider"`
		Model    string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	registry := h.solver.Registry()
	if err := registry.Switch(req.Provider); err != nil {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Model != "" {
		registry.Active().SetModel(req.Model)
	}

	jsonResponse(w, map[string]string{
		"active": registry.Active().GetName(),
		"model":  registry.Active().GetCurrentModel(),
	}, http.StatusOK)
}

// === Lösen ===

// Solve löst eine Aufgabe am Stück (ohne Streaming)
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Equation string `json:"equation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), completeTimeout)
	defer cancel()

	solution, err := h.solver.Solve(ctx, req.Equation, nil)
	if err != nil {
		errorResponse(w, err.Error(), solveStatus(err))
		return
	}

	jsonResponse(w, map[string]interface{}{"solution": solution}, http.StatusOK)
}

// SolveStream löst eine Aufgabe über WebSocket. Jeder Zwischen-Frame trägt
// den GESAMTEN bisherigen Text (ersetzen, nicht anhängen); der letzte Frame
// trägt die geparste Lösung.
func (h *Handler) SolveStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var req struct {
		Equation string `json:"equation"`
	}
	if err := conn.ReadJSON(&req); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), streamTimeout)
	defer cancel()

	onProgress := func(accumulated string) {
		conn.WriteJSON(map[string]interface{}{
			"content": accumulated,
			"done":    false,
		})
	}

	solution, err := h.solver.Solve(ctx, req.Equation, onProgress)
	if err != nil {
		conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	conn.WriteJSON(map[string]interface{}{
		"solution": solution,
		"done":     true,
	})
}

// === Enrichment ===

func (h *Handler) GetAlternatives(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Problem     string `json:"problem"`
		FinalAnswer string `json:"final_answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Problem) == "" {
		errorResponse(w, solver.ErrEmptyInput.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), completeTimeout)
	defer cancel()

	methods, err := h.solver.AlternativeMethods(ctx, req.Problem, req.FinalAnswer)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}

	jsonResponse(w, map[string]interface{}{"methods": methods}, http.StatusOK)
}

func (h *Handler) GetPracticeProblems(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Problem string `json:"problem"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Problem) == "" {
		errorResponse(w, solver.ErrEmptyInput.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), completeTimeout)
	defer cancel()

	problems, err := h.solver.PracticeProblems(ctx, req.Problem)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}

	jsonResponse(w, map[string]interface{}{"problems": problems}, http.StatusOK)
}

// === Bild & Aufgabenblatt ===

// UploadImage nimmt ein Aufgabenfoto entgegen (nur MIME "image/*")
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		errorResponse(w, "Keine Datei im Upload gefunden", http.StatusBadRequest)
		return
	}
	defer file.Close()

	up, err := h.uploads.Save(file, header.Filename, header.Header.Get("Content-Type"))
	if errors.Is(err, upload.ErrNotAnImage) {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		errorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, up, http.StatusCreated)
}

// Transcribe liest die Gleichung aus einem zuvor hochgeladenen Bild aus
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UploadID string `json:"upload_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	data, mimeType, err := h.uploads.Read(req.UploadID)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), completeTimeout)
	defer cancel()

	equation, err := h.solver.Transcribe(ctx, data, mimeType)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}

	jsonResponse(w, map[string]string{"equation": equation}, http.StatusOK)
}

// UploadWorksheet extrahiert die Aufgaben aus einem PDF-Aufgabenblatt
func (h *Handler) UploadWorksheet(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		errorResponse(w, "Keine Datei im Upload gefunden", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		errorResponse(w, "Nur PDF-Aufgabenblätter werden akzeptiert", http.StatusBadRequest)
		return
	}

	text, pageCount, err := pdf.ExtractText(file)
	if err != nil {
		errorResponse(w, fmt.Sprintf("PDF nicht lesbar: %v", err), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), completeTimeout)
	defer cancel()

	equations, err := h.solver.WorksheetEquations(ctx, text)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"name":       header.Filename,
		"page_count": pageCount,
		"equations":  equations,
	}, http.StatusOK)
}

// === Gespeicherte Lösungen ===

func (h *Handler) GetSolutions(w http.ResponseWriter, r *http.Request) {
	solutions, err := h.store.ListSolutions()
	if err != nil {
		errorResponse(w, "Fehler beim Laden der gespeicherten Lösungen", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"solutions": solutions}, http.StatusOK)
}

// CreateSolution speichert eine Lösung. Die Antwort trägt die komplette,
// frisch geladene Sammlung.
func (h *Handler) CreateSolution(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Equation string           `json:"equation"`
		Topic    string           `json:"topic"`
		Solution *models.Solution `json:"solution"`
		Notes    string           `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Equation) == "" || req.Solution == nil {
		errorResponse(w, "Gleichung und Lösung sind erforderlich", http.StatusBadRequest)
		return
	}

	saved, err := h.store.CreateSolution(req.Equation, req.Topic, *req.Solution, req.Notes)
	if err != nil {
		errorResponse(w, "Fehler beim Speichern", http.StatusInternalServerError)
		return
	}

	solutions, err := h.store.ListSolutions()
	if err != nil {
		errorResponse(w, "Fehler beim Laden der gespeicherten Lösungen", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"saved":     saved,
		"solutions": solutions,
	}, http.StatusCreated)
}

// UpdateFavorite setzt das Favoriten-Flag und liefert die komplette Sammlung
func (h *Handler) UpdateFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateFavorite(id, req.IsFavorite); err != nil {
		errorResponse(w, err.Error(), http.StatusNotFound)
		return
	}

	solutions, err := h.store.ListSolutions()
	if err != nil {
		errorResponse(w, "Fehler beim Laden der gespeicherten Lösungen", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"solutions": solutions}, http.StatusOK)
}

// UpdateNotes aktualisiert die Notizen und liefert die komplette Sammlung
func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateNotes(id, req.Notes); err != nil {
		errorResponse(w, err.Error(), http.StatusNotFound)
		return
	}

	solutions, err := h.store.ListSolutions()
	if err != nil {
		errorResponse(w, "Fehler beim Laden der gespeicherten Lösungen", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"solutions": solutions}, http.StatusOK)
}

// === Verlauf & Einstellungen ===

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]interface{}{
		"history": h.solver.History().Entries(),
	}, http.StatusOK)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.GetPreferences()
	if err != nil {
		errorResponse(w, "Fehler beim Laden der Einstellungen", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, prefs, http.StatusOK)
}

func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		errorResponse(w, "Ungültiger Request-Body", http.StatusBadRequest)
		return
	}

	if err := h.store.SavePreferences(&prefs); err != nil {
		errorResponse(w, "Fehler beim Speichern der Einstellungen", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, prefs, http.StatusOK)
}
