package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDisplay(t *testing.T) {
	assert.Equal(t, "frac12", CleanDisplay(`\frac{1}{2}`))
	assert.Equal(t, "x^2 + 3x", CleanDisplay("x^2 + 3x"))
	assert.Equal(t, "sqrt2", CleanDisplay(`$\sqrt{2}$`))
	assert.Equal(t, "", CleanDisplay(`\{\}$`))
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, StripCodeFences("  {\"a\":1}  "))
}

func TestExtractJSON(t *testing.T) {
	jsonStr, ok := extractJSON(`Hier ist das Ergebnis: {"a":1} fertig`)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, jsonStr)

	jsonStr, ok = extractJSON(`{"x":{"y":2}}`)
	assert.True(t, ok)
	assert.Equal(t, `{"x":{"y":2}}`, jsonStr)

	// Text ohne JSON-Objekt wird als Fehlformat gemeldet, nicht als "{}"
	_, ok = extractJSON("kein json hier")
	assert.False(t, ok)

	_, ok = extractJSON("} verdreht {")
	assert.False(t, ok)

	_, ok = extractJSON("")
	assert.False(t, ok)
}
