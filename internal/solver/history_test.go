package solver

import (
	"fmt"
	"testing"

	"matheassistent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSolution(answer string) models.Solution {
	return models.Solution{
		Steps:       []models.SolutionStep{{Explanation: "Schritt", Equation: "x = " + answer}},
		FinalAnswer: answer,
		Tips:        []string{},
	}
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	h := NewHistory(5)

	for i := 1; i <= 6; i++ {
		h.Add(fmt.Sprintf("aufgabe %d", i), sampleSolution(fmt.Sprintf("%d", i)))
	}

	entries := h.Entries()
	require.Len(t, entries, 5)

	// Neueste zuerst; "aufgabe 1" wurde verdrängt
	assert.Equal(t, "aufgabe 6", entries[0].Input)
	assert.Equal(t, "aufgabe 2", entries[4].Input)
	for _, e := range entries {
		assert.NotEqual(t, "aufgabe 1", e.Input)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	h := NewHistory(5)
	h.Add("erste", sampleSolution("1"))
	h.Add("zweite", sampleSolution("2"))

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "zweite", entries[0].Input)
	assert.Equal(t, "erste", entries[1].Input)
}

func TestHistoryDefaultLimit(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 10; i++ {
		h.Add("a", sampleSolution("1"))
	}
	assert.Equal(t, 5, h.Len())
}
