package notify_queue

import (
	"context"
	"fmt"

	notify "dingbot/internal/consumer/notify_queue/iface"
	"dingbot/internal/dingbot"
	"dingbot/internal/logger"
	queue "dingbot/internal/queue/iface"

	"github.com/google/uuid"
)

type notifyConsumer struct {
	logger logger.Logger
	queue  queue.Queue
	sender dingbot.Sender
}

// NewNotifyConsumer creates a new notify consumer
func NewNotifyConsumer(log logger.Logger, q queue.Queue, sender dingbot.Sender) notify.NotifyConsumer {
	return &notifyConsumer{
		logger: log.With(logger.String("component", "notify_consumer")),
		queue:  q,
		sender: sender,
	}
}

func (n *notifyConsumer) ProcessMessage(ctx context.Context, message notify.NotificationMessage) bool {
	ctx = logger.ContextWithRequestID(ctx, message.RequestID)
	log := n.logger.WithContext(ctx)

	msg, err := message.ToMessage()
	if err != nil {
		log.Error("dropping malformed notification", logger.Error(err))
		return true
	}

	result, err := n.sender.Send(ctx, msg)
	if err != nil {
		log.Error("dropping invalid notification",
			logger.String("kind", string(message.Kind)),
			logger.Error(err))
		return true
	}

	if !result.Succeeded() {
		log.Error("queued notification not delivered",
			logger.String("kind", string(message.Kind)),
			logger.Int("http_status", result.HTTPStatus),
			logger.Int("errcode", result.ErrCode),
			logger.String("errmsg", result.ErrMessage))
		return true
	}

	log.Info("queued notification delivered", logger.String("kind", string(message.Kind)))
	return true
}

func (n *notifyConsumer) Enqueue(ctx context.Context, message notify.NotificationMessage) (string, error) {
	msg, err := message.ToMessage()
	if err != nil {
		return "", err
	}
	if err := dingbot.Validate(msg); err != nil {
		return "", err
	}
	if message.RequestID == "" {
		message.RequestID = uuid.NewString()
	}

	messageID, err := n.queue.Send(ctx, message)
	if err != nil {
		n.logger.WithContext(ctx).Error("failed to enqueue notification",
			logger.String("request_id", message.RequestID),
			logger.Error(err))
		return "", fmt.Errorf("enqueue notification: %w", err)
	}

	n.logger.WithContext(ctx).Debug("notification enqueued",
		logger.String("request_id", message.RequestID),
		logger.String("message_id", messageID))

	return messageID, nil
}
