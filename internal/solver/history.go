package solver

import (
	"sync"
	"time"

	"matheassistent/internal/models"
)

// History ist der Lösungsverlauf: ein FIFO mit fester Kapazität.
// Beim Überlauf fliegt der älteste Eintrag raus. Nur im Speicher,
// geht beim Neustart verloren.
type History struct {
	mu      sync.Mutex
	entries []models.HistoryEntry
	limit   int
}

// NewHistory erstellt einen Verlauf mit der angegebenen Kapazität
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 5
	}
	return &History{limit: limit}
}

// Add fügt einen Eintrag hinzu und verdrängt ggf. den ältesten
func (h *History) Add(input string, solution models.Solution) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, models.HistoryEntry{
		Input:     input,
		Solution:  solution,
		Timestamp: time.Now(),
	})
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Entries gibt eine Kopie der Einträge zurück, neueste zuerst
func (h *History) Entries() []models.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]models.HistoryEntry, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out
}

// Len gibt die Anzahl der Einträge zurück
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
