package dingbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dingbot/internal/logger"
)

// DefaultBaseURL is the DingTalk open API host.
const DefaultBaseURL = "https://oapi.dingtalk.com"

const defaultTimeout = 10 * time.Second

// Sender delivers a message and reports the outcome.
type Sender interface {
	Send(ctx context.Context, msg Message) (DeliveryResult, error)
}

// Client posts messages to a single robot. It holds no per-send state and
// may be shared between goroutines.
type Client struct {
	creds      Credentials
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
	logger     logger.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at another host, e.g. an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a client for the robot identified by creds.
func NewClient(creds Credentials, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		creds:      creds,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
		logger:     log.With(logger.String("component", "dingbot_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignedURL returns a freshly signed destination for the current time.
func (c *Client) SignedURL() SignedRequest {
	return buildSignedRequest(c.baseURL, c.creds, c.now())
}

// Send posts msg once. The returned error is non-nil only when msg is
// rejected before sending; every delivery failure is reported in the result.
func (c *Client) Send(ctx context.Context, msg Message) (DeliveryResult, error) {
	now := c.now()
	wire, err := encodeMessage(msg, now)
	if err != nil {
		return NewDeliveryResult(), err
	}
	body, err := json.Marshal(wire)
	if err != nil {
		return NewDeliveryResult(), invalid("message", err.Error())
	}

	signed := buildSignedRequest(c.baseURL, c.creds, now)
	log := c.logger.WithContext(ctx)

	result := c.post(ctx, signed.URL, body)
	if result.Succeeded() {
		log.Debug("message delivered",
			logger.String("msgtype", wire.MsgType),
			logger.Int64("timestamp", signed.Timestamp))
	} else {
		log.Warn("message not delivered",
			logger.String("msgtype", wire.MsgType),
			logger.Int("http_status", result.HTTPStatus),
			logger.Int("errcode", result.ErrCode),
			logger.String("errmsg", result.ErrMessage))
	}
	return result, nil
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, content string, atAll bool) (DeliveryResult, error) {
	return c.Send(ctx, Text{Content: content, At: At{All: atAll}})
}

// SendMarkdown sends a markdown message.
func (c *Client) SendMarkdown(ctx context.Context, title, text string, atAll bool) (DeliveryResult, error) {
	return c.Send(ctx, Markdown{Title: title, Text: text, At: At{All: atAll}})
}

// SendPicture sends an image link, optionally followed by a caption line.
func (c *Client) SendPicture(ctx context.Context, imageURL, caption string, atAll bool) (DeliveryResult, error) {
	return c.Send(ctx, Picture{URL: imageURL, Caption: caption, At: At{All: atAll}})
}

func (c *Client) post(ctx context.Context, target string, body []byte) DeliveryResult {
	result := NewDeliveryResult()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		result.ErrCode = ErrCodeFailed
		result.ErrMessage = fmt.Sprintf("build request: %v", err)
		return result
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		result.HTTPStatus = StatusNotSent
		result.ErrCode = ErrCodeFailed
		result.ErrMessage = transportReason(err)
		return result
	}
	defer res.Body.Close()

	result.HTTPStatus = res.StatusCode
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		result.ErrCode = res.StatusCode
		result.ErrMessage = reasonPhrase(res)
		return result
	}

	var payload struct {
		ErrCode *int    `json:"errcode"`
		ErrMsg  *string `json:"errmsg"`
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil || json.Unmarshal(raw, &payload) != nil || payload.ErrCode == nil || payload.ErrMsg == nil {
		result.ErrCode = ErrCodeFailed
		result.ErrMessage = ParseFailureMessage
		return result
	}

	result.ErrCode = *payload.ErrCode
	result.ErrMessage = *payload.ErrMsg
	return result
}

// reasonPhrase strips the numeric code from res.Status ("401 invalid token").
func reasonPhrase(res *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
	if reason == "" {
		return http.StatusText(res.StatusCode)
	}
	return reason
}

// transportReason drops the request URL from err; it carries the access token and signature.
func transportReason(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
