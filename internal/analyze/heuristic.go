package analyze

import (
	"fmt"
	"strings"
)

// ModeHeuristic marks results produced without the LLM so clients can
// never mistake them for a model-backed analysis.
const ModeHeuristic = "heuristik"

type keywordRule struct {
	needle string
	weight int
	bullet string
}

// Ordered so the generated bullets come out in a stable sequence.
var keywordRules = []keywordRule{
	{"automatische verlängerung", 3, "Der Vertrag verlängert sich automatisch, wenn du nicht rechtzeitig kündigst."},
	{"verlängert sich", 2, "Der Vertrag enthält eine Verlängerungsklausel."},
	{"mindestlaufzeit", 2, "Es gibt eine Mindestlaufzeit, aus der du vorzeitig nicht herauskommst."},
	{"kündigungsfrist", 1, "Achte auf die Kündigungsfrist, sonst läuft der Vertrag weiter."},
	{"vorkasse", 3, "Zahlung per Vorkasse ist ein Warnsignal."},
	{"preisanpassung", 2, "Der Anbieter behält sich Preiserhöhungen vor."},
	{"preiserhöhung", 2, "Der Anbieter behält sich Preiserhöhungen vor."},
	{"datenweitergabe", 2, "Deine Daten dürfen an Dritte weitergegeben werden."},
	{"schufa", 1, "Es findet eine Bonitätsprüfung statt."},
	{"servicepauschale", 2, "Es fallen zusätzliche Pauschalen neben dem Grundpreis an."},
	{"bearbeitungsgebühr", 2, "Es fallen Bearbeitungsgebühren an."},
	{"gerichtsstand", 1, "Der Vertrag legt einen festen Gerichtsstand fest."},
}

// RunHeuristic produces an offline risk estimate from a weighted keyword
// sum. It is a degenerate fallback for running without credentials and is
// labeled as such via the mode field.
func RunHeuristic(category, text string) *StructuredResult {
	lower := strings.ToLower(text)

	score := 0
	var bullets []string
	seen := map[string]bool{}
	for _, rule := range keywordRules {
		if !strings.Contains(lower, rule.needle) {
			continue
		}
		score += rule.weight
		if !seen[rule.bullet] {
			seen[rule.bullet] = true
			bullets = append(bullets, rule.bullet)
		}
	}

	risk := RiskLow
	switch {
	case score >= 6:
		risk = RiskHigh
	case score >= 3:
		risk = RiskMedium
	}

	label := Categories["sonstiges"].Label
	if c, ok := Categories[category]; ok {
		label = c.Label
	}

	res := &StructuredResult{
		Title:     label,
		RiskLevel: risk,
		Summary: fmt.Sprintf(
			"Offline-Einschätzung ohne KI: %d Hinweis(e) auf typische Vertragsklauseln gefunden. Diese Analyse ersetzt keine vollständige Prüfung.",
			len(bullets)),
		Bullets: bullets,
		Mode:    ModeHeuristic,
	}
	res.Normalize(category)
	return res
}
