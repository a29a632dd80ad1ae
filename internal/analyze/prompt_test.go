package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_Deterministic(t *testing.T) {
	a := BuildMessages(SchemaStructured, "mobilfunk", "Vertragstext")
	b := BuildMessages(SchemaStructured, "mobilfunk", "Vertragstext")
	assert.Equal(t, a, b)
}

func TestBuildMessages_Shape(t *testing.T) {
	msgs := BuildMessages(SchemaStructured, "fitness", "Mindestlaufzeit 12 Monate")
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)

	assert.Contains(t, msgs[0].Content, "keine Rechtsberatung")
	assert.Contains(t, msgs[1].Content, Categories["fitness"].Focus)
	assert.Contains(t, msgs[1].Content, "Mindestlaufzeit 12 Monate")
}

func TestBuildMessages_UnknownCategoryGetsGenericFocus(t *testing.T) {
	msgs := BuildMessages(SchemaStructured, "raumfahrt", "text")
	assert.Contains(t, msgs[1].Content, Categories["sonstiges"].Focus)
}

func TestBuildMessages_LegacySchema(t *testing.T) {
	msgs := BuildMessages(SchemaLegacy, CategoryAuto, "text")
	assert.Contains(t, msgs[1].Content, "termination_letter")
	assert.NotContains(t, msgs[1].Content, "riskLevel")
}

func TestBuildMessages_StructuredSchema(t *testing.T) {
	msgs := BuildMessages(SchemaStructured, CategoryAuto, "text")
	assert.Contains(t, msgs[1].Content, "riskLevel")
	assert.Contains(t, msgs[1].Content, "redFlags")
	assert.NotContains(t, msgs[1].Content, "termination_letter")
}
