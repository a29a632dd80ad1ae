package analyze

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/vertragscheck/vertragscheck/internal/api"
	"github.com/vertragscheck/vertragscheck/internal/config"
	"github.com/vertragscheck/vertragscheck/internal/llm"
	"github.com/vertragscheck/vertragscheck/internal/metrics"
	"github.com/vertragscheck/vertragscheck/internal/middleware"
	"github.com/vertragscheck/vertragscheck/internal/quota"
)

// Handler orchestrates one analysis request: validation, quota check,
// model invocation, normalization, quota increment. Strictly sequential;
// no state is shared between requests beyond the injected collaborators.
type Handler struct {
	svc      *Service
	codec    *quota.Codec
	counter  *quota.Counter // nil unless Redis is configured
	validate *validator.Validate
	cfg      *config.Config
}

func NewHandler(svc *Service, codec *quota.Codec, counter *quota.Counter, cfg *config.Config) *Handler {
	return &Handler{
		svc:      svc,
		codec:    codec,
		counter:  counter,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Analyze implements POST /api/analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	// Responses may contain user-submitted personal content.
	w.Header().Set("Cache-Control", "no-store")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		api.HandleError(w, api.ErrMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	text := strings.TrimSpace(req.EffectiveText())
	if text == "" {
		api.HandleError(w, api.ErrTextMissing)
		return
	}
	length := utf8.RuneCountInString(text)
	if length > h.cfg.Analyze.MaxChars {
		api.HandleError(w, api.NewTextTooLongError(h.cfg.Analyze.MaxChars))
		return
	}
	if length < h.cfg.Analyze.MinChars {
		api.HandleError(w, api.NewTextTooShortError(h.cfg.Analyze.MinChars))
		return
	}

	category := NormalizeCategory(req.Category)
	schema := NormalizeSchema(req.Schema)
	if schema == SchemaStructured && req.Schema == "" {
		schema = NormalizeSchema(r.URL.Query().Get("schema"))
	}

	devMode := h.devMode(r)
	rec := h.codec.FromRequest(r, h.cfg.Quota.CookieName)
	if devMode && r.Header.Get("X-DEV-RESET") != "" {
		rec = h.codec.Zero()
	}
	used := h.reconcileUsed(r, rec.Count)

	// The cookie is refreshed on every request that reaches the quota
	// stage, so the day rollover propagates even on rejections.
	h.setQuotaCookie(w, quota.Record{Day: h.codec.Today(), Count: used})

	if !devMode && used >= h.cfg.Quota.DailyLimit {
		metrics.QuotaRejectionsTotal.Inc()
		metrics.AnalysesTotal.WithLabelValues("quota_exceeded").Inc()
		api.HandleError(w, api.NewQuotaExceededError(h.cfg.Quota.DailyLimit))
		return
	}

	if !h.svc.Ready() {
		api.HandleError(w, api.ErrMissingAPIKey)
		return
	}

	result, err := h.svc.Analyze(r.Context(), schema, category, text)
	if err != nil {
		// A failed upstream call must not consume quota; the cookie
		// already issued above still carries the pre-call count.
		h.handleAnalyzeError(w, r, err)
		return
	}

	used++
	h.setQuotaCookie(w, quota.Record{Day: h.codec.Today(), Count: used})
	h.incrementCounter(r, devMode)

	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	api.JSON(w, http.StatusOK, result.Payload(Meta{
		DailyLimit: h.cfg.Quota.DailyLimit,
		UsedToday:  used,
		MaxChars:   h.cfg.Analyze.MaxChars,
	}))
}

func (h *Handler) handleAnalyzeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case llm.IsParseError(err):
		slog.Error("model output not parseable", "request_id", middleware.GetRequestID(r.Context()))
		metrics.AnalysesTotal.WithLabelValues("parse_error").Inc()
		api.HandleError(w, api.NewParseError())
	case llm.IsUpstreamError(err):
		slog.Error("upstream model call failed", "error", err, "request_id", middleware.GetRequestID(r.Context()))
		metrics.AnalysesTotal.WithLabelValues("upstream_error").Inc()
		api.HandleError(w, api.NewUpstreamError("Bitte versuche es später erneut."))
	default:
		slog.Error("analysis failed", "error", err, "request_id", middleware.GetRequestID(r.Context()))
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		api.HandleError(w, api.ErrInternalServer)
	}
}

// devMode reports whether quota enforcement is bypassed for this request.
// Header and hostname sniffing only count outside production; the config
// flag is validated to be off in production anyway.
func (h *Handler) devMode(r *http.Request) bool {
	if h.cfg.Quota.DevBypass {
		return true
	}
	if h.cfg.Production {
		return false
	}
	if v := r.Header.Get("X-DEV-MODE"); v == "1" || strings.EqualFold(v, "true") {
		return true
	}
	host := r.Host
	if hostOnly, _, err := net.SplitHostPort(r.Host); err == nil {
		host = hostOnly
	}
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// reconcileUsed combines the cookie count with the server-side counter
// when Redis is configured, taking whichever is higher. A failed Redis
// read fails open to the cookie value.
func (h *Handler) reconcileUsed(r *http.Request, cookieCount int) int {
	if h.counter == nil {
		return cookieCount
	}
	serverCount, err := h.counter.Used(r.Context(), middleware.ClientIP(r))
	if err != nil {
		slog.Warn("quota counter read failed, using cookie only", "error", err)
		return cookieCount
	}
	if serverCount > cookieCount {
		return serverCount
	}
	return cookieCount
}

func (h *Handler) incrementCounter(r *http.Request, devMode bool) {
	if h.counter == nil || devMode {
		return
	}
	if _, err := h.counter.Increment(r.Context(), middleware.ClientIP(r)); err != nil {
		slog.Warn("quota counter increment failed", "error", err)
	}
}

func (h *Handler) setQuotaCookie(w http.ResponseWriter, rec quota.Record) {
	// Replace, not append: the handler may re-issue after the increment.
	cookie := h.codec.IssueCookie(h.cfg.Quota.CookieName, rec, h.cfg.Production)
	w.Header().Set("Set-Cookie", cookie.String())
}
