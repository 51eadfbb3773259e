package storage

import (
	"path/filepath"
	"testing"

	"matheassistent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSolution() models.Solution {
	return models.Solution{
		Steps:       []models.SolutionStep{{Explanation: "Beide Seiten minus 3", Equation: "2x = 4"}},
		FinalAnswer: "x = 2",
		Tips:        []string{"Probe machen"},
	}
}

func TestCreateAndListSolutions(t *testing.T) {
	store := newTestStorage(t)

	saved, err := store.CreateSolution("2x + 3 = 7", "Algebra", testSolution(), "Hausaufgabe")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.IsFavorite)

	solutions, err := store.ListSolutions()
	require.NoError(t, err)
	require.Len(t, solutions, 1)
	assert.Equal(t, "2x + 3 = 7", solutions[0].Equation)
	assert.Equal(t, "Algebra", solutions[0].Topic)
	assert.Equal(t, "Hausaufgabe", solutions[0].Notes)
	assert.Equal(t, "x = 2", solutions[0].Solution.FinalAnswer)
	require.Len(t, solutions[0].Solution.Steps, 1)
}

func TestListSolutionsEmpty(t *testing.T) {
	store := newTestStorage(t)

	solutions, err := store.ListSolutions()
	require.NoError(t, err)
	assert.NotNil(t, solutions)
	assert.Empty(t, solutions)
}

func TestUpdateFavorite(t *testing.T) {
	store := newTestStorage(t)

	saved, err := store.CreateSolution("x^2 = 9", "Algebra", testSolution(), "")
	require.NoError(t, err)

	require.NoError(t, store.UpdateFavorite(saved.ID, true))

	solutions, err := store.ListSolutions()
	require.NoError(t, err)
	require.Len(t, solutions, 1)
	assert.True(t, solutions[0].IsFavorite)

	require.NoError(t, store.UpdateFavorite(saved.ID, false))
	solutions, err = store.ListSolutions()
	require.NoError(t, err)
	assert.False(t, solutions[0].IsFavorite)
}

func TestUpdateFavoriteUnknownID(t *testing.T) {
	store := newTestStorage(t)
	assert.Error(t, store.UpdateFavorite("gibt-es-nicht", true))
}

func TestUpdateNotes(t *testing.T) {
	store := newTestStorage(t)

	saved, err := store.CreateSolution("x^2 = 9", "Algebra", testSolution(), "alt")
	require.NoError(t, err)

	require.NoError(t, store.UpdateNotes(saved.ID, "neu"))

	solutions, err := store.ListSolutions()
	require.NoError(t, err)
	assert.Equal(t, "neu", solutions[0].Notes)
}

func TestUpdateNotesUnknownID(t *testing.T) {
	store := newTestStorage(t)
	assert.Error(t, store.UpdateNotes("gibt-es-nicht", "x"))
}

func TestPreferencesDefaults(t *testing.T) {
	store := newTestStorage(t)

	prefs, err := store.GetPreferences()
	require.NoError(t, err)
	assert.Equal(t, "light", prefs.Theme)
	assert.Equal(t, "normal", prefs.FontSize)
	assert.False(t, prefs.HighContrast)
}

func TestPreferencesRoundTrip(t *testing.T) {
	store := newTestStorage(t)

	require.NoError(t, store.SavePreferences(&models.Preferences{
		Theme:        "dark",
		FontSize:     "large",
		HighContrast: true,
	}))

	prefs, err := store.GetPreferences()
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)
	assert.Equal(t, "large", prefs.FontSize)
	assert.True(t, prefs.HighContrast)

	// Überschreiben ersetzt die eine Zeile
	require.NoError(t, store.SavePreferences(&models.Preferences{Theme: "light", FontSize: "small"}))
	prefs, err = store.GetPreferences()
	require.NoError(t, err)
	assert.Equal(t, "light", prefs.Theme)
	assert.False(t, prefs.HighContrast)
}

func TestListSolutionsNewestFirst(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.CreateSolution("erste = 1", "Algebra", testSolution(), "")
	require.NoError(t, err)
	_, err = store.CreateSolution("zweite = 2", "Algebra", testSolution(), "")
	require.NoError(t, err)

	solutions, err := store.ListSolutions()
	require.NoError(t, err)
	require.Len(t, solutions, 2)
}
