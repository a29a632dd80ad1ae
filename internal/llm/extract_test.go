package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	Summary string `json:"summary"`
}

func TestExtractJSON_Direct(t *testing.T) {
	var p probe
	require.NoError(t, ExtractJSON(`{"summary":"alles klar"}`, &p))
	assert.Equal(t, "alles klar", p.Summary)
}

func TestExtractJSON_MarkdownFences(t *testing.T) {
	var p probe
	raw := "```json\n{\"summary\":\"eingezäunt\"}\n```"
	require.NoError(t, ExtractJSON(raw, &p))
	assert.Equal(t, "eingezäunt", p.Summary)
}

func TestExtractJSON_TrailingProse(t *testing.T) {
	var p probe
	raw := "Hier ist deine Analyse:\n{\"summary\":\"mit Vorrede\"}\nIch hoffe, das hilft!"
	require.NoError(t, ExtractJSON(raw, &p))
	assert.Equal(t, "mit Vorrede", p.Summary)
}

func TestExtractJSON_FullyNonJSON(t *testing.T) {
	var p probe
	err := ExtractJSON("Leider kann ich dazu nichts sagen.", &p)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestExtractJSON_BrokenBraces(t *testing.T) {
	var p probe
	err := ExtractJSON(`{"summary": unterminated`, &p)
	assert.True(t, IsParseError(err))
}
