package quota

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec("test-secret")

	rec := Record{Day: c.Today(), Count: 3}
	decoded := c.Decode(c.Encode(rec))

	assert.Equal(t, rec, decoded)
}

func TestCodec_TamperedSignature(t *testing.T) {
	c := NewCodec("test-secret")

	token := c.Encode(Record{Day: c.Today(), Count: 4})
	payload, _, ok := strings.Cut(token, ".")
	require.True(t, ok)
	tampered := payload + "." + "forged-signature"

	// Idempotent under replay of the same tampered token.
	for i := 0; i < 3; i++ {
		rec := c.Decode(tampered)
		assert.Equal(t, c.Zero(), rec)
	}
}

func TestCodec_TamperedPayload(t *testing.T) {
	c := NewCodec("test-secret")

	token := c.Encode(Record{Day: c.Today(), Count: 1})
	_, sig, ok := strings.Cut(token, ".")
	require.True(t, ok)

	forged := NewCodec("other-secret").Encode(Record{Day: c.Today(), Count: 0})
	forgedPayload, _, _ := strings.Cut(forged, ".")

	rec := c.Decode(forgedPayload + "." + sig)
	assert.Equal(t, 0, rec.Count)
}

func TestCodec_WrongSecret(t *testing.T) {
	a := NewCodec("secret-a")
	b := NewCodec("secret-b")

	token := a.Encode(Record{Day: a.Today(), Count: 5})
	assert.Equal(t, b.Zero(), b.Decode(token))
}

func TestCodec_GarbageTokens(t *testing.T) {
	c := NewCodec("test-secret")

	for _, token := range []string{
		"",
		"no-delimiter",
		".",
		"!!!not-base64!!!.sig",
		"YQ.YQ",
	} {
		rec := c.Decode(token)
		assert.Equal(t, c.Zero(), rec, "token %q", token)
	}
}

func TestCodec_StaleDayResets(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	old := NewCodec("test-secret").WithClock(func() time.Time { return yesterday })
	token := old.Encode(Record{Day: old.Today(), Count: 5})

	// Same secret, current clock: the stored day no longer matches.
	c := NewCodec("test-secret")
	rec := c.Decode(token)

	assert.Equal(t, c.Today(), rec.Day)
	assert.Equal(t, 0, rec.Count)
}

func TestCodec_NegativeCountRejected(t *testing.T) {
	c := NewCodec("test-secret")
	token := c.Encode(Record{Day: c.Today(), Count: -2})
	assert.Equal(t, 0, c.Decode(token).Count)
}

func TestCodec_FromRequest(t *testing.T) {
	c := NewCodec("test-secret")

	// Missing cookie behaves like zero usage
	req := httptest.NewRequest("POST", "/api/analyze", nil)
	assert.Equal(t, c.Zero(), c.FromRequest(req, "vc_quota"))

	// Present cookie round-trips
	req = httptest.NewRequest("POST", "/api/analyze", nil)
	req.AddCookie(c.IssueCookie("vc_quota", Record{Day: c.Today(), Count: 2}, false))
	assert.Equal(t, 2, c.FromRequest(req, "vc_quota").Count)
}

func TestCodec_IssueCookieAttributes(t *testing.T) {
	c := NewCodec("test-secret")

	cookie := c.IssueCookie("vc_quota", c.Zero(), true)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 2*24*60*60, cookie.MaxAge)

	dev := c.IssueCookie("vc_quota", c.Zero(), false)
	assert.False(t, dev.Secure)
}
