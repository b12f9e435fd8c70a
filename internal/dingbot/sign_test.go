package dingbot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"dingbot/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignKnownVectors(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		ts     int64
		want   string
	}{
		{
			name:   "slash and padding are escaped",
			secret: "SEC0123456789abcdef",
			ts:     1700000000000,
			want:   "TSZbRFUuvaSQaRKUpF970OPCb2%2FLcQAP3wOvwZIzBZk%3D",
		},
		{
			name:   "plus is escaped",
			secret: "s3cr3t",
			ts:     1,
			want:   "xtCOFtiHl6HB8oNfoqF%2BCj94zOsZbnmuoxOBCO2Yfk8%3D",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sign(tt.secret, tt.ts))
		})
	}
}

func TestSignRoundTrip(t *testing.T) {
	secret := "SECroundtrip"
	now := time.UnixMilli(1712345678901)
	creds, err := NewCredentials("token", secret)
	require.NoError(t, err)

	c := NewClient(creds, logger.NewNopLogger(), WithClock(func() time.Time { return now }))
	signed := c.SignedURL()

	// Recompute independently from the documented recipe.
	stringToSign := strconv.FormatInt(now.UnixMilli(), 10) + "\n" + secret
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(stringToSign))
	digest := base64.StdEncoding.EncodeToString(h.Sum(nil))

	assert.Equal(t, now.UnixMilli(), signed.Timestamp)
	assert.Equal(t, strings.ReplaceAll(url.QueryEscape(digest), "+", "%20"), signed.Signature)
	assert.True(t, strings.HasSuffix(signed.URL, "&sign="+signed.Signature))

	parsed, err := url.Parse(signed.URL)
	require.NoError(t, err)
	assert.Equal(t, digest, parsed.Query().Get("sign"))
	assert.Equal(t, strconv.FormatInt(now.UnixMilli(), 10), parsed.Query().Get("timestamp"))
}

func TestSignedURLChangesWithClock(t *testing.T) {
	creds, err := NewCredentials("tok+en/=", "secret")
	require.NoError(t, err)

	base := time.UnixMilli(1700000000000)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Millisecond)
	}
	c := NewClient(creds, logger.NewNopLogger(), WithClock(clock))

	first := c.SignedURL()
	second := c.SignedURL()

	assert.NotEqual(t, first.Timestamp, second.Timestamp)
	assert.NotEqual(t, first.Signature, second.Signature)
	for _, s := range []SignedRequest{first, second} {
		assert.True(t, strings.HasPrefix(s.URL, DefaultBaseURL+"/robot/send?access_token=tok+en/=&timestamp="), s.URL)
	}
}

func TestFormEscape(t *testing.T) {
	assert.Equal(t, "a%20b%2B%2F%3D", formEscape("a b+/="))
	assert.Equal(t, "abcXYZ019", formEscape("abcXYZ019"))
}

func TestNewCredentials(t *testing.T) {
	_, err := NewCredentials("", "secret")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = NewCredentials("token", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	creds, err := NewCredentials("token", "secret")
	require.NoError(t, err)
	assert.Equal(t, Credentials{AccessToken: "token", Secret: "secret"}, creds)
}
