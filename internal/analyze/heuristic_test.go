package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertragscheck/vertragscheck/internal/config"
	"github.com/vertragscheck/vertragscheck/internal/llm"
)

func TestRunHeuristic_CleanTextIsLowRisk(t *testing.T) {
	res := RunHeuristic(CategoryAuto, "Dieser Vertrag kann jederzeit beendet werden.")
	assert.Equal(t, RiskLow, res.RiskLevel)
	assert.Equal(t, ModeHeuristic, res.Mode)
	assert.Empty(t, res.Bullets)
}

func TestRunHeuristic_KeywordsRaiseRisk(t *testing.T) {
	text := "Mindestlaufzeit 24 Monate mit automatischer Verlängerung. Zahlung per Vorkasse. Kündigungsfrist 3 Monate."
	// "automatischer Verlängerung" is inflected; "verlängert sich" absent.
	res := RunHeuristic("mobilfunk", text)

	assert.NotEqual(t, RiskLow, res.RiskLevel)
	assert.NotEmpty(t, res.Bullets)
	assert.Equal(t, "Handyvertrag", res.Title)
}

func TestRunHeuristic_DuplicateKeywordsSingleBullet(t *testing.T) {
	text := "Preisanpassung vorbehalten. Eine Preiserhöhung ist möglich."
	res := RunHeuristic(CategoryAuto, text)

	// Both rules share one bullet text; it must appear once.
	count := 0
	for _, b := range res.Bullets {
		if b == "Der Anbieter behält sich Preiserhöhungen vor." {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestService_HeuristicModeNeedsNoCredentials(t *testing.T) {
	client := llm.NewClient(config.OpenAIConfig{Model: "gpt-4o-mini"})
	svc := NewService(client, config.AnalyzeModeHeuristic)

	assert.True(t, svc.Ready())

	res, err := svc.Analyze(context.Background(), SchemaStructured, CategoryAuto, "Mindestlaufzeit 24 Monate")
	require.NoError(t, err)
	require.NotNil(t, res.Structured)
	assert.Equal(t, ModeHeuristic, res.Structured.Mode)
}

func TestService_LLMModeRequiresCredentials(t *testing.T) {
	client := llm.NewClient(config.OpenAIConfig{Model: "gpt-4o-mini"})
	svc := NewService(client, config.AnalyzeModeLLM)
	assert.False(t, svc.Ready())
}
