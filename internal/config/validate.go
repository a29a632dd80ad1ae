package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	if c.Analyze.Mode != AnalyzeModeLLM && c.Analyze.Mode != AnalyzeModeHeuristic {
		errs = append(errs, fmt.Sprintf("ANALYZE_MODE must be %q or %q, got %q", AnalyzeModeLLM, AnalyzeModeHeuristic, c.Analyze.Mode))
	}

	// The API key is only required when the LLM actually gets called.
	if c.Analyze.Mode == AnalyzeModeLLM && c.OpenAI.APIKey == "" && c.Production {
		errs = append(errs, "OPENAI_API_KEY is required in production")
	}

	if c.Analyze.MaxChars <= c.Analyze.MinChars {
		errs = append(errs, fmt.Sprintf("ANALYZE_MAX_CHARS (%d) must exceed ANALYZE_MIN_CHARS (%d)", c.Analyze.MaxChars, c.Analyze.MinChars))
	}

	if c.Quota.DailyLimit < 1 {
		errs = append(errs, fmt.Sprintf("QUOTA_DAILY_LIMIT must be positive, got %d", c.Quota.DailyLimit))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("OPENAI_TEMPERATURE must be between 0 and 2, got %g", c.OpenAI.Temperature))
	}

	// Secret fallback: warn only. Running on the dev default keeps the
	// service functional but the quota cookie is trivially forgeable.
	if c.Quota.Secret == DefaultQuotaSecret {
		slog.Warn("QUOTA_SECRET and OPENAI_API_KEY are both empty, quota cookies are signed with the development default")
		if c.Production {
			errs = append(errs, "QUOTA_SECRET must be set in production (fallback chain reached the development default)")
		}
	}

	if c.Quota.DevBypass && c.Production {
		errs = append(errs, "QUOTA_DEV_BYPASS must not be enabled in production")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
