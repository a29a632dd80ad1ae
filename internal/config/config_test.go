package config

import "testing"

func TestLoad_TemperatureDefault(t *testing.T) {
	// Unset and empty both take the default.
	t.Setenv("OPENAI_TEMPERATURE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.OpenAI.Temperature != 0.1 {
		t.Fatalf("expected default temperature 0.1, got %g", cfg.OpenAI.Temperature)
	}
}

func TestLoad_TemperatureZeroIsNotDefaulted(t *testing.T) {
	t.Setenv("OPENAI_TEMPERATURE", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.OpenAI.Temperature != 0 {
		t.Fatalf("expected explicit temperature 0 to survive, got %g", cfg.OpenAI.Temperature)
	}
}

func TestLoad_TemperatureFromEnv(t *testing.T) {
	t.Setenv("OPENAI_TEMPERATURE", "0.7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.OpenAI.Temperature != 0.7 {
		t.Fatalf("expected temperature 0.7, got %g", cfg.OpenAI.Temperature)
	}
}
