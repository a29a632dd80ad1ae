package api

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the wire shape of every non-2xx response. Optional fields
// carry machine-readable context the client reconciles against (the
// configured max length, the daily limit).
type AppError struct {
	Code     int    `json:"-"`
	Message  string `json:"error"`
	Detail   string `json:"detail,omitempty"`
	MaxChars int    `json:"max_chars,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest       = &AppError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrMethodNotAllowed = &AppError{Code: http.StatusMethodNotAllowed, Message: "method not allowed"}
	ErrTextMissing      = &AppError{Code: http.StatusBadRequest, Message: "Bitte gib einen Vertragstext an."}
	ErrMissingAPIKey    = &AppError{Code: http.StatusInternalServerError, Message: "OPENAI_API_KEY ist nicht konfiguriert."}
	ErrInternalServer   = &AppError{Code: http.StatusInternalServerError, Message: "internal server error"}
)

// NewTextTooShortError reports input below the minimum analyzable length.
func NewTextTooShortError(minChars int) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: "Der Vertragstext ist zu kurz für eine Analyse.",
		Detail:  fmt.Sprintf("mindestens %d Zeichen erforderlich", minChars),
	}
}

// NewTextTooLongError reports over-length input together with the bound,
// so the client can truncate before retrying.
func NewTextTooLongError(maxChars int) *AppError {
	return &AppError{
		Code:     http.StatusRequestEntityTooLarge,
		Message:  "Der Vertragstext ist zu lang.",
		MaxChars: maxChars,
	}
}

// NewQuotaExceededError reports an exhausted daily quota.
func NewQuotaExceededError(limit int) *AppError {
	return &AppError{
		Code:    http.StatusTooManyRequests,
		Message: "Tageslimit erreicht.",
		Limit:   limit,
	}
}

// NewUpstreamError reports a failed call to the model provider.
func NewUpstreamError(detail string) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: "Fehler bei der Kommunikation mit dem KI-Dienst.",
		Detail:  detail,
	}
}

// NewParseError reports model output that could not be interpreted as JSON.
func NewParseError() *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Die Antwort der KI konnte nicht interpretiert werden.",
	}
}

// HandleError writes err as a structured JSON error response. Unknown
// error types collapse to a generic 500 so internals never leak.
func HandleError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		JSON(w, appErr.Code, appErr)
		return
	}
	JSON(w, http.StatusInternalServerError, ErrInternalServer)
}
