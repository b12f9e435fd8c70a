package main

import (
	"bytes"
	"context"
	"os"
	"testing"

	"dingbot/internal/config"
	"dingbot/internal/dingbot"
	"dingbot/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	result dingbot.DeliveryResult
	sent   []dingbot.Message
}

func (r *recordingSender) Send(ctx context.Context, msg dingbot.Message) (dingbot.DeliveryResult, error) {
	if err := dingbot.Validate(msg); err != nil {
		return dingbot.NewDeliveryResult(), err
	}
	r.sent = append(r.sent, msg)
	return r.result, nil
}

func (r *recordingSender) factory(cfg config.Config, log logger.Logger) dingbot.Sender {
	return r
}

func setCredentials(t *testing.T, token, secret string) {
	t.Helper()
	t.Setenv(config.EnvAccessToken, token)
	t.Setenv(config.EnvSecret, secret)
	if token == "" {
		os.Unsetenv(config.EnvAccessToken)
	}
	if secret == "" {
		os.Unsetenv(config.EnvSecret)
	}
}

func okSender() *recordingSender {
	return &recordingSender{result: dingbot.DeliveryResult{HTTPStatus: 200, ErrCode: 0, ErrMessage: "ok"}}
}

func TestRunDefaultMessage(t *testing.T) {
	setCredentials(t, "tok", "sec")
	sender := okSender()
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), nil, &stdout, &stderr, sender.factory)

	assert.Equal(t, 0, code, stderr.String())
	require.Len(t, sender.sent, 1)
	assert.Equal(t, dingbot.Text{Content: "dingbot test"}, sender.sent[0])
	assert.Contains(t, stdout.String(), "errcode=0")
}

func TestRunMessageKinds(t *testing.T) {
	setCredentials(t, "tok", "sec")

	tests := []struct {
		name string
		args []string
		want dingbot.Message
	}{
		{
			name: "text",
			args: []string{"-text", "deploy done", "-at-all"},
			want: dingbot.Text{Content: "deploy done", At: dingbot.At{All: true}},
		},
		{
			name: "markdown",
			args: []string{"-title", "Release", "-markdown", "## v1.2"},
			want: dingbot.Markdown{Title: "Release", Text: "## v1.2"},
		},
		{
			name: "picture",
			args: []string{"-picture", "http://x/y.png", "-caption", "graph"},
			want: dingbot.Picture{URL: "http://x/y.png", Caption: "graph"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := okSender()
			var stdout, stderr bytes.Buffer

			code := run(context.Background(), tt.args, &stdout, &stderr, sender.factory)

			assert.Equal(t, 0, code, stderr.String())
			require.Len(t, sender.sent, 1)
			assert.Equal(t, tt.want, sender.sent[0])
		})
	}
}

func TestRunUsageErrors(t *testing.T) {
	setCredentials(t, "tok", "sec")

	tests := []struct {
		name string
		args []string
	}{
		{"conflicting kinds", []string{"-text", "a", "-picture", "http://x/y.png"}},
		{"markdown without title", []string{"-markdown", "body"}},
		{"unknown flag", []string{"-nope"}},
		{"positional argument", []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := okSender()
			var stdout, stderr bytes.Buffer

			code := run(context.Background(), tt.args, &stdout, &stderr, sender.factory)

			assert.Equal(t, 2, code)
			assert.Empty(t, sender.sent)
			assert.NotEmpty(t, stderr.String())
		})
	}
}

func TestRunMissingCredentials(t *testing.T) {
	setCredentials(t, "", "")
	sender := okSender()
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-text", "hi"}, &stdout, &stderr, sender.factory)

	assert.Equal(t, 1, code)
	assert.Empty(t, sender.sent)
	assert.Contains(t, stderr.String(), config.EnvAccessToken)
}

func TestRunDeliveryFailure(t *testing.T) {
	setCredentials(t, "tok", "sec")
	sender := &recordingSender{result: dingbot.DeliveryResult{HTTPStatus: 200, ErrCode: 310000, ErrMessage: "sign not match"}}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-text", "hi"}, &stdout, &stderr, sender.factory)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), `errmsg="sign not match"`)
}
