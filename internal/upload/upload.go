package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"matheassistent/internal/models"

	"github.com/google/uuid"
)

// ErrNotAnImage meldet einen Upload, dessen MIME-Typ nicht mit "image/" beginnt
var ErrNotAnImage = errors.New("nur Bilddateien werden akzeptiert")

// Store legt hochgeladene Aufgabenbilder im Dateisystem ab
type Store struct {
	dir string
}

// NewStore erstellt einen Upload-Store im angegebenen Verzeichnis
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("upload-Verzeichnis nicht anlegbar: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save speichert ein Bild und gibt Metadaten samt abrufbarer URL zurück.
// Akzeptiert werden nur MIME-Typen mit dem Präfix "image/".
func (s *Store) Save(r io.Reader, filename, mimeType string) (*models.Upload, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, ErrNotAnImage
	}

	id := uuid.New().String()
	ext := filepath.Ext(filename)
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	// Ohne Endung wäre die Datei für Read (Glob auf id+".*") unauffindbar
	if ext == "" {
		ext = ".img"
	}
	stored := id + ext

	f, err := os.Create(filepath.Join(s.dir, stored))
	if err != nil {
		return nil, fmt.Errorf("upload fehlgeschlagen: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("upload fehlgeschlagen: %w", err)
	}

	return &models.Upload{
		ID:         id,
		Name:       filename,
		MimeType:   mimeType,
		URL:        "/uploads/" + stored,
		UploadedAt: time.Now(),
	}, nil
}

// Read liest ein gespeichertes Bild anhand seiner ID
func (s *Store) Read(id string) ([]byte, string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, id+".*"))
	if err != nil || len(matches) == 0 {
		return nil, "", fmt.Errorf("upload '%s' nicht gefunden", id)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, "", err
	}

	mimeType := mime.TypeByExtension(filepath.Ext(matches[0]))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return data, mimeType, nil
}

// Dir gibt das Upload-Verzeichnis zurück
func (s *Store) Dir() string {
	return s.dir
}
