package analyze

import "strings"

// Schema selects the response shape. The structured shape is the default;
// the legacy flat shape predates it and is kept for older clients.
const (
	SchemaStructured = "structured"
	SchemaLegacy     = "legacy"
)

// Risk levels are localized; the model is instructed to answer with these
// exact values and NormalizeRiskLevel clamps everything else.
const (
	RiskLow     = "niedrig"
	RiskMedium  = "mittel"
	RiskHigh    = "hoch"
	RiskUnknown = "unbekannt"
)

// CategoryAuto lets the model infer the contract type itself.
const CategoryAuto = "auto"

// Category pairs a display label with the focus clause injected into the
// prompt for that contract type.
type Category struct {
	Label string
	Focus string
}

// Categories is the fixed allow-list. Unknown values silently fall back
// to auto rather than erroring.
var Categories = map[string]Category{
	"mobilfunk": {
		Label: "Handyvertrag",
		Focus: "Achte besonders auf Mindestlaufzeit, automatische Verlängerung, Datenvolumen-Drosselung und Preiserhöhungen nach der Aktionsphase.",
	},
	"fitness": {
		Label: "Fitnessstudio",
		Focus: "Achte besonders auf Mindestlaufzeit, Kündigungsfristen, Ruhezeiten-Regelungen und Zusatzgebühren wie Servicepauschalen.",
	},
	"strom": {
		Label: "Stromvertrag",
		Focus: "Achte besonders auf Preisgarantien, Abschlagshöhe, Bonuszahlungen mit Bedingungen und Preisanpassungsklauseln.",
	},
	"internet": {
		Label: "Internetvertrag",
		Focus: "Achte besonders auf Mindestlaufzeit, Bandbreitenangaben, Entgelte nach der Aktionsphase und Hardware-Mietkosten.",
	},
	"miete": {
		Label: "Mietvertrag",
		Focus: "Achte besonders auf Staffel- oder Indexmiete, Schönheitsreparatur-Klauseln, Betriebskostenumlage und Kündigungsausschlüsse.",
	},
	"versicherung": {
		Label: "Versicherung",
		Focus: "Achte besonders auf Leistungsausschlüsse, Selbstbeteiligung, Wartezeiten und dynamische Beitragserhöhungen.",
	},
	"streaming": {
		Label: "Streaming-Abo",
		Focus: "Achte besonders auf automatische Verlängerung, Preisänderungsvorbehalte und die Kündigung über Drittanbieter.",
	},
	"sonstiges": {
		Label: "Sonstiger Vertrag",
		Focus: "Achte besonders auf Laufzeit, Kündigungsfristen, automatische Verlängerung und versteckte Kosten.",
	},
}

// NormalizeCategory maps a user-supplied category through the allow-list.
func NormalizeCategory(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" || key == CategoryAuto {
		return CategoryAuto
	}
	if _, ok := Categories[key]; ok {
		return key
	}
	return CategoryAuto
}

// NormalizeSchema maps a user-supplied schema tag; unknown → structured.
func NormalizeSchema(raw string) string {
	if strings.ToLower(strings.TrimSpace(raw)) == SchemaLegacy {
		return SchemaLegacy
	}
	return SchemaStructured
}

// NormalizeRiskLevel clamps free-form model output to the known levels,
// matching on substrings the way the client's badge logic does.
func NormalizeRiskLevel(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(v, "niedrig") || strings.Contains(v, "low"):
		return RiskLow
	case strings.Contains(v, "hoch") || strings.Contains(v, "high"):
		return RiskHigh
	case strings.Contains(v, "mittel") || strings.Contains(v, "medium"):
		return RiskMedium
	default:
		return RiskUnknown
	}
}

// Request is the analyze request body. The contractText alias is accepted
// for clients built against the oldest endpoint variant.
type Request struct {
	// Text length is bounded by the handler's rune count so over-length
	// input always maps to 413, never a generic validation failure.
	Text         string `json:"text"`
	ContractText string `json:"contractText"`
	Category     string `json:"category" validate:"omitempty,max=40"`
	Schema       string `json:"schema" validate:"omitempty,max=20"`
}

// EffectiveText returns the contract text regardless of which field name
// the client used.
func (r *Request) EffectiveText() string {
	if strings.TrimSpace(r.Text) != "" {
		return r.Text
	}
	return r.ContractText
}

// Meta carries the server's authoritative quota view so the client can
// reconcile its local mirror.
type Meta struct {
	DailyLimit int `json:"daily_limit"`
	UsedToday  int `json:"used_today"`
	MaxChars   int `json:"max_chars"`
}

// StructuredResult is the default sectioned response shape.
type StructuredResult struct {
	Title         string   `json:"title,omitempty"`
	Category      string   `json:"category,omitempty"`
	CategoryLabel string   `json:"categoryLabel,omitempty"`
	RiskLevel     string   `json:"riskLevel"`
	Summary       string   `json:"summary"`
	Bullets       []string `json:"bullets"`
	RedFlags      []string `json:"redFlags"`
	NextSteps     []string `json:"nextSteps"`
	Mode          string   `json:"mode,omitempty"`
	Meta          *Meta    `json:"meta,omitempty"`
}

// LegacyResult is the original flat response shape, including the
// generated termination letter.
type LegacyResult struct {
	ContractType       string   `json:"contract_type"`
	MonthlyCost        string   `json:"monthly_cost"`
	Term               string   `json:"term"`
	CancellationPeriod string   `json:"cancellation_period"`
	Renewal            string   `json:"renewal"`
	PlainExplanation   string   `json:"plain_explanation"`
	Risks              []string `json:"risks"`
	CancellationStatus string   `json:"cancellation_status"`
	TerminationLetter  string   `json:"termination_letter"`
	Meta               *Meta    `json:"meta,omitempty"`
}

// Result is the tagged variant returned by the service: exactly one of
// Structured or Legacy is set, matching Schema.
type Result struct {
	Schema     string
	Structured *StructuredResult
	Legacy     *LegacyResult
}

// Payload attaches meta and returns the variant to serialize.
func (r Result) Payload(meta Meta) any {
	if r.Schema == SchemaLegacy && r.Legacy != nil {
		r.Legacy.Meta = &meta
		return r.Legacy
	}
	r.Structured.Meta = &meta
	return r.Structured
}

// Normalize coerces missing fields to safe defaults so the caller never
// sees partial data: unknown risk level, empty slices, "unklar" strings.
func (s *StructuredResult) Normalize(category string) {
	s.RiskLevel = NormalizeRiskLevel(s.RiskLevel)
	if s.Bullets == nil {
		s.Bullets = []string{}
	}
	if s.RedFlags == nil {
		s.RedFlags = []string{}
	}
	if s.NextSteps == nil {
		s.NextSteps = []string{}
	}
	if s.Category == "" {
		s.Category = category
	}
	if s.CategoryLabel == "" {
		if c, ok := Categories[s.Category]; ok {
			s.CategoryLabel = c.Label
		}
	}
}

func (l *LegacyResult) Normalize() {
	for _, field := range []*string{
		&l.ContractType, &l.MonthlyCost, &l.Term,
		&l.CancellationPeriod, &l.Renewal, &l.CancellationStatus,
	} {
		if strings.TrimSpace(*field) == "" {
			*field = "unklar"
		}
	}
	if l.Risks == nil {
		l.Risks = []string{}
	}
}
