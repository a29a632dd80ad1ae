package analyze

import (
	"context"
	"fmt"

	"github.com/vertragscheck/vertragscheck/internal/config"
	"github.com/vertragscheck/vertragscheck/internal/llm"
)

// Service turns contract text into an analysis result. In LLM mode it
// builds the prompt, makes the single upstream call and normalizes the
// reply; in heuristic mode it runs the offline keyword scorer instead.
type Service struct {
	client *llm.Client
	mode   string
}

func NewService(client *llm.Client, mode string) *Service {
	return &Service{client: client, mode: mode}
}

// Ready reports whether the service can produce results. The heuristic
// mode needs no credentials.
func (s *Service) Ready() bool {
	return s.mode == config.AnalyzeModeHeuristic || s.client.Configured()
}

// Analyze produces a result for the given schema, category and text.
// Errors are either *llm.UpstreamError or *llm.ParseError.
func (s *Service) Analyze(ctx context.Context, schema, category, text string) (Result, error) {
	if s.mode == config.AnalyzeModeHeuristic {
		// The offline scorer only knows the structured shape.
		return Result{Schema: SchemaStructured, Structured: RunHeuristic(category, text)}, nil
	}

	raw, err := s.client.Complete(ctx, BuildMessages(schema, category, text))
	if err != nil {
		return Result{}, fmt.Errorf("invoking model: %w", err)
	}

	if schema == SchemaLegacy {
		var legacy LegacyResult
		if err := llm.ExtractJSON(raw, &legacy); err != nil {
			return Result{}, err
		}
		legacy.Normalize()
		return Result{Schema: SchemaLegacy, Legacy: &legacy}, nil
	}

	var structured StructuredResult
	if err := llm.ExtractJSON(raw, &structured); err != nil {
		return Result{}, err
	}
	structured.Normalize(category)
	return Result{Schema: SchemaStructured, Structured: &structured}, nil
}
