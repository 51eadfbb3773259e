package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText liest den Klartext eines hochgeladenen Aufgabenblatts (PDF)
// aus einem io.Reader und gibt Text und Seitenzahl zurück.
func ExtractText(reader io.Reader) (string, int, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", 0, err
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("fehler beim Lesen der PDF: %w", err)
	}

	var content strings.Builder
	totalPages := r.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Einzelne unlesbare Seiten überspringen
			continue
		}

		content.WriteString(fmt.Sprintf("\n--- Seite %d ---\n", pageNum))
		content.WriteString(text)
	}

	return content.String(), totalPages, nil
}
