package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"matheassistent/internal/models"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Storage definiert das Interface für Datenpersistenz.
// Die vier expliziten Operationen auf gespeicherten Lösungen ersetzen
// den einen multiplexenden Endpunkt des Frontends.
type Storage interface {
	// Gespeicherte Lösungen
	ListSolutions() ([]models.SavedSolution, error)
	CreateSolution(equation, topic string, solution models.Solution, notes string) (*models.SavedSolution, error)
	UpdateFavorite(id string, isFavorite bool) error
	UpdateNotes(id string, notes string) error

	// Einstellungen
	GetPreferences() (*models.Preferences, error)
	SavePreferences(prefs *models.Preferences) error

	Close() error
}

// SQLiteStorage implementiert Storage mit SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage erstellt eine neue SQLite-Storage-Instanz
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		return nil, err
	}

	return storage, nil
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saved_solutions (
		id TEXT PRIMARY KEY,
		equation TEXT NOT NULL,
		topic TEXT,
		solution TEXT NOT NULL,
		notes TEXT DEFAULT '',
		is_favorite INTEGER DEFAULT 0,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_solutions_created ON saved_solutions(created_at);

	CREATE TABLE IF NOT EXISTS preferences (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		theme TEXT DEFAULT 'light',
		font_size TEXT DEFAULT 'normal',
		high_contrast INTEGER DEFAULT 0
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Gespeicherte Lösungen

func (s *SQLiteStorage) ListSolutions() ([]models.SavedSolution, error) {
	rows, err := s.db.Query(`
		SELECT id, equation, topic, solution, notes, is_favorite, created_at
		FROM saved_solutions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	solutions := []models.SavedSolution{}
	for rows.Next() {
		var saved models.SavedSolution
		var solutionJSON string
		if err := rows.Scan(&saved.ID, &saved.Equation, &saved.Topic, &solutionJSON, &saved.Notes, &saved.IsFavorite, &saved.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(solutionJSON), &saved.Solution); err != nil {
			return nil, fmt.Errorf("gespeicherte Lösung %s ist beschädigt: %w", saved.ID, err)
		}
		solutions = append(solutions, saved)
	}
	return solutions, rows.Err()
}

func (s *SQLiteStorage) CreateSolution(equation, topic string, solution models.Solution, notes string) (*models.SavedSolution, error) {
	solutionJSON, err := json.Marshal(solution)
	if err != nil {
		return nil, err
	}

	saved := &models.SavedSolution{
		ID:        uuid.New().String(),
		Equation:  equation,
		Topic:     topic,
		Solution:  solution,
		Notes:     notes,
		CreatedAt: time.Now(),
	}

	_, err = s.db.Exec(`
		INSERT INTO saved_solutions (id, equation, topic, solution, notes, is_favorite, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, saved.ID, saved.Equation, saved.Topic, string(solutionJSON), saved.Notes, saved.CreatedAt)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SQLiteStorage) UpdateFavorite(id string, isFavorite bool) error {
	res, err := s.db.Exec(`UPDATE saved_solutions SET is_favorite = ? WHERE id = ?`, isFavorite, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (s *SQLiteStorage) UpdateNotes(id string, notes string) error {
	res, err := s.db.Exec(`UPDATE saved_solutions SET notes = ? WHERE id = ?`, notes, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("Lösung '%s' nicht gefunden", id)
	}
	return nil
}

// Einstellungen

func (s *SQLiteStorage) GetPreferences() (*models.Preferences, error) {
	prefs := &models.Preferences{Theme: "light", FontSize: "normal"}

	err := s.db.QueryRow(`
		SELECT theme, font_size, high_contrast FROM preferences WHERE id = 1
	`).Scan(&prefs.Theme, &prefs.FontSize, &prefs.HighContrast)
	if err == sql.ErrNoRows {
		return prefs, nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *SQLiteStorage) SavePreferences(prefs *models.Preferences) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO preferences (id, theme, font_size, high_contrast)
		VALUES (1, ?, ?, ?)
	`, prefs.Theme, prefs.FontSize, prefs.HighContrast)
	return err
}
