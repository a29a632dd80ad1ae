package quota

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const dayFormat = "2006-01-02"

// cookieMaxAge spans two days so a record issued before midnight still
// reaches the server after rollover; Decode resets stale days anyway.
const cookieMaxAge = 2 * 24 * time.Hour

// Record is the daily usage counter carried in the quota cookie.
type Record struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Codec encodes Records into tamper-evident tokens and back. It holds no
// per-request state; one instance is shared by all requests.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// WithClock overrides the codec's notion of "now". Tests use it to cross
// day boundaries without sleeping.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Today returns the current calendar day in token form.
func (c *Codec) Today() string {
	return c.now().Format(dayFormat)
}

// Zero returns the empty record for the current day.
func (c *Codec) Zero() Record {
	return Record{Day: c.Today(), Count: 0}
}

// Encode serializes rec to day:count, base64url-encodes it without padding
// and appends an HMAC-SHA256 signature over the encoded payload.
func (c *Codec) Encode(rec Record) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(rec.Day + ":" + strconv.Itoa(rec.Count)))
	return payload + "." + c.sign(payload)
}

// Decode is the inverse of Encode and never fails: a structurally broken
// token, a bad signature, or a stale day all yield the zero record for
// today. Fail-open to zero usage, not fail-closed.
func (c *Codec) Decode(token string) Record {
	zero := c.Zero()

	payload, sig, ok := strings.Cut(token, ".")
	if !ok || payload == "" {
		return zero
	}

	// hmac.Equal compares in constant time; length mismatch rejects first.
	expected := c.sign(payload)
	if len(sig) != len(expected) || !hmac.Equal([]byte(sig), []byte(expected)) {
		return zero
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return zero
	}

	day, countStr, ok := strings.Cut(string(raw), ":")
	if !ok || day != zero.Day {
		return zero
	}

	count, err := strconv.Atoi(countStr)
	if err != nil || count < 0 {
		return zero
	}

	return Record{Day: day, Count: count}
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// FromRequest decodes the quota cookie from r, treating a missing cookie
// as zero usage.
func (c *Codec) FromRequest(r *http.Request, name string) Record {
	cookie, err := r.Cookie(name)
	if err != nil {
		return c.Zero()
	}
	return c.Decode(cookie.Value)
}

// IssueCookie builds the Set-Cookie value for rec. Secure is only set in
// production so local HTTP development keeps working.
func (c *Codec) IssueCookie(name string, rec Record, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    c.Encode(rec),
		Path:     "/",
		MaxAge:   int(cookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// String implements fmt.Stringer for log lines.
func (r Record) String() string {
	return fmt.Sprintf("%s=%d", r.Day, r.Count)
}
