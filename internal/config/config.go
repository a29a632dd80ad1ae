package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AnalyzeModeLLM and AnalyzeModeHeuristic select how /api/analyze produces
// its result. The heuristic mode is a clearly labeled offline fallback and
// is never blended into LLM-backed responses.
const (
	AnalyzeModeLLM       = "llm"
	AnalyzeModeHeuristic = "heuristic"
)

// DefaultQuotaSecret is the last resort of the signing-secret fallback
// chain. Running with it weakens the tamper-evidence of the quota cookie;
// Validate warns loudly when the chain bottoms out here.
const DefaultQuotaSecret = "vertragscheck-dev-secret"

type Config struct {
	Server  ServerConfig
	OpenAI  OpenAIConfig
	Quota   QuotaConfig
	Analyze AnalyzeConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig

	// Production toggles the Secure attribute on the quota cookie.
	Production bool
}

type ServerConfig struct {
	Host string
	Port int
}

type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

type QuotaConfig struct {
	DailyLimit int
	Secret     string
	CookieName string
	// DevBypass skips quota enforcement entirely. Injected config rather
	// than a source constant so tests can toggle it per instance.
	DevBypass bool
}

type AnalyzeConfig struct {
	Mode     string
	MaxChars int
	MinChars int
}

type RedisConfig struct {
	// Addr empty means the server-side quota counter and per-IP rate
	// limiting are disabled and only the signed cookie is enforced.
	Addr     string
	Password string
	DB       int
	// RatePerMinute caps /api/analyze requests per client IP when Redis
	// is configured.
	RatePerMinute int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      k.String("openai.api.key"),
			Model:       k.String("openai.model"),
			BaseURL:     k.String("openai.base.url"),
			Temperature: k.Float64("openai.temperature"),
		},
		Quota: QuotaConfig{
			DailyLimit: k.Int("quota.daily.limit"),
			Secret:     k.String("quota.secret"),
			CookieName: k.String("quota.cookie.name"),
			DevBypass:  k.Bool("quota.dev.bypass"),
		},
		Analyze: AnalyzeConfig{
			Mode:     k.String("analyze.mode"),
			MaxChars: k.Int("analyze.max.chars"),
			MinChars: k.Int("analyze.min.chars"),
		},
		Redis: RedisConfig{
			Addr:          k.String("redis.addr"),
			Password:      k.String("redis.password"),
			DB:            k.Int("redis.db"),
			RatePerMinute: k.Int("redis.rate.per.minute"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
		Production: k.String("app.env") == "production",
	}

	if origins := k.String("cors.allowed.origins"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, o)
			}
		}
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com"
	}
	// Presence check, not zero check: temperature 0 is a valid setting.
	if k.String("openai.temperature") == "" {
		cfg.OpenAI.Temperature = 0.1
	}
	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = 5
	}
	if cfg.Quota.CookieName == "" {
		cfg.Quota.CookieName = "vc_quota"
	}
	if cfg.Analyze.Mode == "" {
		cfg.Analyze.Mode = AnalyzeModeLLM
	}
	if cfg.Analyze.MaxChars == 0 {
		cfg.Analyze.MaxChars = 20000
	}
	if cfg.Analyze.MinChars == 0 {
		cfg.Analyze.MinChars = 40
	}
	if cfg.Redis.RatePerMinute == 0 {
		cfg.Redis.RatePerMinute = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "debug"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Quota signing secret fallback chain: dedicated secret → API key →
	// development default. The last two steps are documented weaknesses.
	if cfg.Quota.Secret == "" {
		cfg.Quota.Secret = cfg.OpenAI.APIKey
	}
	if cfg.Quota.Secret == "" {
		cfg.Quota.Secret = DefaultQuotaSecret
	}

	timeoutStr := k.String("openai.timeout")
	if timeoutStr == "" {
		timeoutStr = "30s"
	}
	cfg.OpenAI.Timeout, err = time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("parsing openai timeout: %w", err)
	}

	return cfg, nil
}
