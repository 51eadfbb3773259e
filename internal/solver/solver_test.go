package solver

import (
	"context"
	"sync"
	"testing"

	"matheassistent/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSolutionJSON = `{
	"steps": [
		{"explanation": "Beide Seiten minus 3", "equation": "2x = 4"},
		{"explanation": "Beide Seiten durch 2", "equation": "x = 2"}
	],
	"final_answer": "x = 2",
	"difficulty_level": "leicht"
}`

// fakeProvider liefert eine vorgegebene Antwort
type fakeProvider struct {
	response string
	chunks   []string
	err      error

	// optionale Synchronisation für Überhol-Tests
	started chan struct{}
	release chan struct{}
}

func (f *fakeProvider) Complete(ctx context.Context, messages []llm.ChatMessage, schema *llm.Schema, options *llm.Options) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	return f.response, f.err
}

func (f *fakeProvider) CompleteStream(ctx context.Context, messages []llm.ChatMessage, schema *llm.Schema, options *llm.Options) (<-chan llm.StreamChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan llm.StreamChunk, len(f.chunks)+1)
	for _, c := range f.chunks {
		ch <- llm.StreamChunk{Content: c}
	}
	ch <- llm.StreamChunk{Done: true}
	close(ch)
	return ch, nil
}

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }
func (f *fakeProvider) GetName() string                      { return "fake" }
func (f *fakeProvider) SetModel(model string)                {}
func (f *fakeProvider) GetCurrentModel() string              { return "fake-model" }

func newTestSolver(t *testing.T, p llm.Provider) *Solver {
	t.Helper()
	registry, err := llm.NewRegistry("fake", p)
	require.NoError(t, err)
	return NewSolver(registry, nil, 5)
}

func TestSolveEmptyInput(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{response: validSolutionJSON})

	_, err := s.Solve(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, 0, s.History().Len())
}

func TestSolveInvalidJSONDoesNotCommit(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{response: "das ist kein json"})

	_, err := s.Solve(context.Background(), "2x + 3 = 7", nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Equal(t, 0, s.History().Len())
}

func TestSolveBracelessResponseReportsFormatError(t *testing.T) {
	// Antwort ganz ohne JSON-Objekt: Fehlformat, nicht "unvollständig"
	s := newTestSolver(t, &fakeProvider{response: "Entschuldigung, das kann ich nicht lösen."})

	_, err := s.Solve(context.Background(), "2x + 3 = 7", nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Equal(t, 0, s.History().Len())
}

func TestSolveMissingFinalAnswerDoesNotCommit(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{
		response: `{"steps": [{"explanation": "a", "equation": "b"}]}`,
	})

	_, err := s.Solve(context.Background(), "2x + 3 = 7", nil)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, 0, s.History().Len())
}

func TestSolveMissingStepsDoesNotCommit(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{
		response: `{"steps": [], "final_answer": "x = 2"}`,
	})

	_, err := s.Solve(context.Background(), "2x + 3 = 7", nil)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, 0, s.History().Len())
}

func TestSolveSuccess(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{response: validSolutionJSON})

	solution, err := s.Solve(context.Background(), "2x + 3 = 7", nil)
	require.NoError(t, err)

	assert.Len(t, solution.Steps, 2)
	assert.Equal(t, "x = 2", solution.FinalAnswer)
	assert.Equal(t, "Algebra", solution.Topic)
	// Fehlende Tips werden zu einer leeren Liste normalisiert
	assert.NotNil(t, solution.Tips)
	assert.Empty(t, solution.Tips)

	entries := s.History().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "2x + 3 = 7", entries[0].Input)
}

func TestSolveCleansDisplayStrings(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{response: `{
		"steps": [{"explanation": "Der Bruch $\\frac{1}{2}$ bleibt übrig", "equation": "x = \\frac{1}{2}"}],
		"final_answer": "x = \\frac{1}{2}"
	}`})

	solution, err := s.Solve(context.Background(), "2x = 1", nil)
	require.NoError(t, err)

	require.Len(t, solution.Steps, 1)
	assert.Equal(t, "Der Bruch frac12 bleibt übrig", solution.Steps[0].Explanation)
	assert.Equal(t, "x = frac12", solution.Steps[0].Equation)
	assert.Equal(t, "x = frac12", solution.FinalAnswer)
}

func TestAlternativeMethodsBracelessResponse(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{response: "keine alternativen gefunden"})

	_, err := s.AlternativeMethods(context.Background(), "2x + 3 = 7", "x = 2")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSolveStripsCodeFences(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{response: "```json\n" + validSolutionJSON + "\n```"})

	solution, err := s.Solve(context.Background(), "2x + 3 = 7", nil)
	require.NoError(t, err)
	assert.Equal(t, "x = 2", solution.FinalAnswer)
}

func TestSolveStreamingAccumulates(t *testing.T) {
	// Der Provider liefert Deltas; onProgress bekommt jeweils den
	// gesamten bisherigen Text
	half := len(validSolutionJSON) / 2
	s := newTestSolver(t, &fakeProvider{
		chunks: []string{validSolutionJSON[:half], validSolutionJSON[half:]},
	})

	var frames []string
	solution, err := s.Solve(context.Background(), "2x + 3 = 7", func(acc string) {
		frames = append(frames, acc)
	})
	require.NoError(t, err)

	require.Len(t, frames, 2)
	assert.Equal(t, validSolutionJSON[:half], frames[0])
	assert.Equal(t, validSolutionJSON, frames[1])
	assert.Equal(t, "x = 2", solution.FinalAnswer)
}

func TestSolveSupersededGenerationDoesNotCommit(t *testing.T) {
	p := &fakeProvider{
		response: validSolutionJSON,
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	s := newTestSolver(t, p)

	var wg sync.WaitGroup
	wg.Add(2)

	// Erster Solve beansprucht Generation 1 und hängt im Provider
	go func() {
		defer wg.Done()
		_, err := s.Solve(context.Background(), "erste aufgabe = 1", nil)
		assert.NoError(t, err)
	}()
	<-p.started

	// Zweiter Solve überholt mit Generation 2
	go func() {
		defer wg.Done()
		_, err := s.Solve(context.Background(), "zweite aufgabe = 2", nil)
		assert.NoError(t, err)
	}()
	<-p.started

	// Beide freigeben; nur der jüngste Solve darf committen
	p.release <- struct{}{}
	p.release <- struct{}{}
	wg.Wait()

	entries := s.History().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "zweite aufgabe = 2", entries[0].Input)
}

func TestAlternativeMethods(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{
		response: `{"methods": [{"name": "Grafisch", "steps": [{"explanation": "zeichnen", "equation": "y = 2x + 3"}], "final_answer": "x = 2"}]}`,
	})

	methods, err := s.AlternativeMethods(context.Background(), "2x + 3 = 7", "x = 2")
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "Grafisch", methods[0].Name)
}

func TestPracticeProblems(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{
		response: `{"problems": [
			{"problem": "3x + 1 = 10", "difficulty": "leicht", "solution": "x = 3"},
			{"problem": "5x - 2 = 13", "difficulty": "mittel", "solution": "x = 3"}
		]}`,
	})

	problems, err := s.PracticeProblems(context.Background(), "2x + 3 = 7")
	require.NoError(t, err)
	require.Len(t, problems, 2)
	assert.Equal(t, "leicht", problems[0].Difficulty)
}

func TestWorksheetEquations(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{
		response: `{"equations": ["2x + 3 = 7", "sqrt(16)"]}`,
	})

	equations, err := s.WorksheetEquations(context.Background(), "Aufgabe 1: 2x + 3 = 7\nAufgabe 2: sqrt(16)")
	require.NoError(t, err)
	assert.Equal(t, []string{"2x + 3 = 7", "sqrt(16)"}, equations)
}

func TestWorksheetEquationsEmptyText(t *testing.T) {
	s := newTestSolver(t, &fakeProvider{response: `{"equations": []}`})

	_, err := s.WorksheetEquations(context.Background(), "   ")
	assert.Error(t, err)
}
