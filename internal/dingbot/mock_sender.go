package dingbot

import (
	"context"
	"time"

	"dingbot/internal/logger"
)

type mockSender struct {
	logger logger.Logger
	now    func() time.Time
}

// NewMockSender validates and logs messages instead of posting them, and
// always reports success.
func NewMockSender(log logger.Logger) Sender {
	return &mockSender{
		logger: log.With(logger.String("component", "dingbot_mock")),
		now:    time.Now,
	}
}

func (m *mockSender) Send(ctx context.Context, msg Message) (DeliveryResult, error) {
	wire, err := encodeMessage(msg, m.now())
	if err != nil {
		return NewDeliveryResult(), err
	}

	fields := []logger.Field{logger.String("msgtype", wire.MsgType), logger.Bool("at_all", wire.At.IsAtAll)}
	if wire.Text != nil {
		fields = append(fields, logger.String("content", wire.Text.Content))
	}
	if wire.Markdown != nil {
		fields = append(fields, logger.String("title", wire.Markdown.Title), logger.String("text", wire.Markdown.Text))
	}
	m.logger.WithContext(ctx).Info("MOCK: DingTalk message", fields...)

	return DeliveryResult{HTTPStatus: 200, ErrCode: 0, ErrMessage: "ok"}, nil
}
