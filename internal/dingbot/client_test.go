package dingbot

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"dingbot/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken  = "test-token"
	testSecret = "SECtest"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds, err := NewCredentials(testToken, testSecret)
	require.NoError(t, err)
	return NewClient(creds, logger.NewNopLogger(), append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

func stubClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	creds, err := NewCredentials(testToken, testSecret)
	require.NoError(t, err)
	return NewClient(creds, logger.NewNopLogger(), WithHTTPClient(&http.Client{Transport: rt}))
}

func TestSendTextSuccess(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/robot/send", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		ts, err := strconv.ParseInt(r.URL.Query().Get("timestamp"), 10, 64)
		assert.NoError(t, err)
		assert.Contains(t, r.URL.RawQuery, "&sign="+Sign(testSecret, ts))

		raw, _ := io.ReadAll(r.Body)
		body = string(raw)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	})

	result, err := c.SendText(context.Background(), "hello", false)
	require.NoError(t, err)

	assert.Equal(t, DeliveryResult{HTTPStatus: 200, ErrCode: 0, ErrMessage: "ok"}, result)
	assert.True(t, result.Succeeded())
	assert.JSONEq(t, `{"msgtype":"text","text":{"content":"hello"},"at":{"isAtAll":false}}`, body)
}

func TestSendMarkdownWireFormat(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	})

	_, err := c.SendMarkdown(context.Background(), "Deploy", "## done", true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"msgtype":"markdown","markdown":{"title":"Deploy","text":"## done"},"at":{"isAtAll":true}}`, body)
}

func TestSendWithMentions(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	})

	_, err := c.Send(context.Background(), Text{
		Content: "oncall",
		At:      At{Mobiles: []string{"13800000000"}, UserIDs: []string{"u1"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"msgtype":"text","text":{"content":"oncall"},"at":{"isAtAll":false,"atMobiles":["13800000000"],"atUserIds":["u1"]}}`, body)
}

func TestSendPicture(t *testing.T) {
	fixed := time.Date(2024, 3, 5, 7, 8, 9, 0, time.Local)

	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}, WithClock(func() time.Time { return fixed }))

	result, err := c.SendPicture(context.Background(), "http://x/y.png", "caption", false)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.JSONEq(t, `{"msgtype":"markdown","markdown":{"title":"2024/03/05 07:08:09","text":"2024/03/05 07:08:09\n![pic](http://x/y.png)\ncaption"},"at":{"isAtAll":false}}`, body)
}

func TestPictureMarkdown(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 59, 58, 0, time.Local)

	md := PictureMarkdown(Picture{URL: "http://x/y.png", Caption: "caption"}, now)
	assert.Equal(t, "2025/12/31 23:59:58", md.Title)
	assert.Contains(t, md.Text, "![pic](http://x/y.png)\ncaption")

	md = PictureMarkdown(Picture{URL: "http://x/y.png"}, now)
	assert.True(t, strings.HasSuffix(md.Text, "![pic](http://x/y.png)"))
}

func TestSendRemoteRejection(t *testing.T) {
	c := stubClient(t, func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Status:     "401 invalid token",
			Body:       io.NopCloser(strings.NewReader(`{"errcode":0,"errmsg":"ignored"}`)),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})

	result, err := c.SendText(context.Background(), "hello", false)
	require.NoError(t, err)
	assert.Equal(t, DeliveryResult{HTTPStatus: 401, ErrCode: 401, ErrMessage: "invalid token"}, result)
	assert.False(t, result.Succeeded())
}

func TestSendRemoteRejectionStandardReason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	result, err := c.SendText(context.Background(), "hello", false)
	require.NoError(t, err)
	assert.Equal(t, 500, result.HTTPStatus)
	assert.Equal(t, 500, result.ErrCode)
	assert.Equal(t, "Internal Server Error", result.ErrMessage)
}

func TestSendConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	creds, err := NewCredentials(testToken, testSecret)
	require.NoError(t, err)
	c := NewClient(creds, logger.NewNopLogger(), WithBaseURL(addr))

	result, err := c.SendText(context.Background(), "hello", false)
	require.NoError(t, err)
	assert.Equal(t, -1, result.HTTPStatus)
	assert.Equal(t, -1, result.ErrCode)
	assert.NotEmpty(t, result.ErrMessage)
	assert.NotContains(t, result.ErrMessage, testToken)
	assert.False(t, result.Succeeded())
}

func TestSendTransportError(t *testing.T) {
	c := stubClient(t, func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("tls: handshake failure")
	})

	result, err := c.SendText(context.Background(), "hello", false)
	require.NoError(t, err)
	assert.Equal(t, DeliveryResult{HTTPStatus: -1, ErrCode: -1, ErrMessage: "tls: handshake failure"}, result)
}

func TestSendParseFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"missing errmsg", `{"errcode":0}`},
		{"not json", `<html>gateway</html>`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			result, err := c.SendText(context.Background(), "hello", false)
			require.NoError(t, err)
			assert.Equal(t, 200, result.HTTPStatus)
			assert.Equal(t, -1, result.ErrCode)
			assert.Equal(t, ParseFailureMessage, result.ErrMessage)
			assert.False(t, result.Succeeded())
		})
	}
}

func TestSendAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errcode":310000,"errmsg":"sign not match"}`))
	})

	result, err := c.SendText(context.Background(), "hello", false)
	require.NoError(t, err)
	assert.Equal(t, DeliveryResult{HTTPStatus: 200, ErrCode: 310000, ErrMessage: "sign not match"}, result)
	assert.False(t, result.Succeeded())
}

func TestSendRejectsInvalidMessage(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})

	tests := []struct {
		name string
		msg  Message
	}{
		{"nil message", nil},
		{"empty text", Text{}},
		{"invalid utf8 text", Text{Content: "\xff\xfe"}},
		{"markdown without title", Markdown{Text: "body"}},
		{"markdown without text", Markdown{Title: "title"}},
		{"picture without url", Picture{Caption: "c"}},
		{"picture with invalid caption", Picture{URL: "http://x/y.png", Caption: "\xff"}},
		{"empty mention", Text{Content: "x", At: At{Mobiles: []string{""}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Send(context.Background(), tt.msg)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr))
			assert.Equal(t, NewDeliveryResult(), result)
		})
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestClientConcurrentSends(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	})

	results := make(chan DeliveryResult, 8)
	for i := 0; i < cap(results); i++ {
		go func() {
			r, _ := c.SendText(context.Background(), "hello", false)
			results <- r
		}()
	}
	for i := 0; i < cap(results); i++ {
		assert.True(t, (<-results).Succeeded())
	}
}

func TestMockSender(t *testing.T) {
	s := NewMockSender(logger.NewNopLogger())

	result, err := s.Send(context.Background(), Picture{URL: "http://x/y.png"})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())

	_, err = s.Send(context.Background(), Text{})
	assert.True(t, IsValidationError(err))
}
