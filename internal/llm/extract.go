package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ParseError reports model output that could not be interpreted as JSON
// even after recovery.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "model output is not valid JSON"
}

// ExtractJSON unmarshals the model's reply into out. Models asked for
// strict JSON still wrap it in markdown fences or prose often enough that
// a direct parse is only the first attempt; the fallback takes the first
// '{' to the last '}' and tries again.
func ExtractJSON(raw string, out any) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}

	return &ParseError{Raw: raw}
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
