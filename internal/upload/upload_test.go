package upload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSaveRejectsNonImage(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(strings.NewReader("kein bild"), "aufgabe.txt", "text/plain")
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = store.Save(strings.NewReader("%PDF-1.4"), "blatt.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestSaveAcceptsImage(t *testing.T) {
	store := newTestStore(t)

	up, err := store.Save(strings.NewReader("fake-png-bytes"), "aufgabe.png", "image/png")
	require.NoError(t, err)

	assert.NotEmpty(t, up.ID)
	assert.Equal(t, "aufgabe.png", up.Name)
	assert.Equal(t, "image/png", up.MimeType)
	assert.True(t, strings.HasPrefix(up.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(up.URL, ".png"))
}

func TestReadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	up, err := store.Save(strings.NewReader("fake-jpeg-bytes"), "foto.jpg", "image/jpeg")
	require.NoError(t, err)

	data, mimeType, err := store.Read(up.ID)
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg-bytes", string(data))
	assert.Contains(t, mimeType, "image/jpeg")
}

func TestReadRoundTripWithoutExtension(t *testing.T) {
	// Dateiname ohne Endung und MIME-Typ ohne bekannte Endung:
	// die Datei muss trotzdem wieder auffindbar sein
	store := newTestStore(t)

	up, err := store.Save(strings.NewReader("fake-bytes"), "foto", "image/x-custom")
	require.NoError(t, err)

	data, _, err := store.Read(up.ID)
	require.NoError(t, err)
	assert.Equal(t, "fake-bytes", string(data))
}

func TestReadUnknownID(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Read("gibt-es-nicht")
	assert.Error(t, err)
}
