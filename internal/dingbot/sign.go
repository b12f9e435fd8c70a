package dingbot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const sendPath = "/robot/send"

// SignedRequest is the destination of a single send. The signature is only
// accepted by the server for a short while, so it is never reused.
type SignedRequest struct {
	Timestamp int64
	Signature string
	URL       string
}

// Sign computes the url-encoded HMAC-SHA256 signature of timestamp+"\n"+secret.
func Sign(secret string, timestampMs int64) string {
	stringToSign := strconv.FormatInt(timestampMs, 10) + "\n" + secret

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(stringToSign))
	digest := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return formEscape(digest)
}

// formEscape escapes like QueryEscape but writes spaces as %20.
// Base64 output relies on '+', '/' and '=' being escaped to %2B, %2F and %3D.
func formEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func buildSignedRequest(baseURL string, creds Credentials, now time.Time) SignedRequest {
	ts := now.UnixMilli()
	sign := Sign(creds.Secret, ts)

	// access_token is passed through verbatim.
	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	b.WriteString(sendPath)
	b.WriteString("?access_token=")
	b.WriteString(creds.AccessToken)
	b.WriteString("&timestamp=")
	b.WriteString(strconv.FormatInt(ts, 10))
	b.WriteString("&sign=")
	b.WriteString(sign)

	return SignedRequest{
		Timestamp: ts,
		Signature: sign,
		URL:       b.String(),
	}
}
