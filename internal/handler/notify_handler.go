package handler

import (
	"context"

	"dingbot/commons/error_handler"
	"dingbot/commons/handler"
	notify "dingbot/internal/consumer/notify_queue/iface"
	"dingbot/internal/dingbot"
	"dingbot/internal/dto"
	"dingbot/internal/logger"
	"dingbot/internal/ratelimit"
)

// NotifyHandler exposes the robot client over HTTP.
type NotifyHandler struct {
	sender   dingbot.Sender
	limiter  ratelimit.Limiter
	quotaKey string
	consumer notify.NotifyConsumer
	logger   logger.Logger
}

// NewNotifyHandler creates a notify handler. quotaKey identifies the robot
// whose send quota synchronous requests draw from.
func NewNotifyHandler(
	log logger.Logger,
	sender dingbot.Sender,
	limiter ratelimit.Limiter,
	quotaKey string,
	consumer notify.NotifyConsumer,
) *NotifyHandler {
	return &NotifyHandler{
		sender:   sender,
		limiter:  limiter,
		quotaKey: quotaKey,
		consumer: consumer,
		logger:   log.With(logger.String("component", "notify_handler")),
	}
}

func (h *NotifyHandler) SendTextService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.SendTextRequest],
) (dto.DeliveryResponse, *error_handler.ErrorCollection) {
	req := ioutil.Body
	return h.deliver(ctx, dingbot.Text{Content: req.Content, At: req.At()})
}

func (h *NotifyHandler) SendMarkdownService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.SendMarkdownRequest],
) (dto.DeliveryResponse, *error_handler.ErrorCollection) {
	req := ioutil.Body
	return h.deliver(ctx, dingbot.Markdown{Title: req.Title, Text: req.Text, At: req.At()})
}

func (h *NotifyHandler) SendPictureService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.SendPictureRequest],
) (dto.DeliveryResponse, *error_handler.ErrorCollection) {
	req := ioutil.Body
	return h.deliver(ctx, dingbot.Picture{URL: req.URL, Caption: req.Caption, At: req.At()})
}

// EnqueueService queues a notification for the background consumer.
func (h *NotifyHandler) EnqueueService(
	ctx context.Context,
	ioutil *handler.RequestIo[dto.EnqueueRequest],
) (dto.EnqueueResponse, *error_handler.ErrorCollection) {
	log := h.logger.WithContext(ctx)
	requestID := ioutil.RequestID

	messageID, err := h.consumer.Enqueue(ctx, ioutil.Body.ToNotification(requestID))
	if err != nil {
		if dingbot.IsValidationError(err) {
			return dto.EnqueueResponse{}, error_handler.NewErrorCollection().
				AddError(error_handler.CodeValidationError, err.Error(), nil)
		}
		log.Error("failed to enqueue notification", logger.Error(err))
		return dto.EnqueueResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeInternalServerError, "Failed to enqueue notification", nil)
	}

	log.Info("notification enqueued",
		logger.String("kind", ioutil.Body.Kind),
		logger.String("message_id", messageID))

	return dto.EnqueueResponse{RequestID: requestID, MessageID: messageID}, nil
}

func (h *NotifyHandler) deliver(ctx context.Context, msg dingbot.Message) (dto.DeliveryResponse, *error_handler.ErrorCollection) {
	log := h.logger.WithContext(ctx)

	// Rejected messages must not use up quota.
	if err := dingbot.Validate(msg); err != nil {
		return dto.DeliveryResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeValidationError, err.Error(), nil)
	}

	decision, err := h.limiter.Allow(ctx, h.quotaKey)
	if err != nil {
		// Fail open: the robot API enforces its own quota.
		log.Warn("rate limiter unavailable, sending anyway", logger.Error(err))
	} else if !decision.Allowed {
		return dto.DeliveryResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeRateLimited, "Send quota exhausted", dto.QuotaExceeded{
				Limit:   decision.Limit,
				ResetAt: decision.ResetAt,
			})
	}

	result, err := h.sender.Send(ctx, msg)
	if err != nil {
		return dto.DeliveryResponse{}, error_handler.NewErrorCollection().
			AddError(error_handler.CodeValidationError, err.Error(), nil)
	}

	response := dto.NewDeliveryResponse(result)
	if !result.Succeeded() {
		log.Warn("notification not delivered",
			logger.Int("http_status", result.HTTPStatus),
			logger.Int("errcode", result.ErrCode),
			logger.String("errmsg", result.ErrMessage))
		return response, error_handler.NewErrorCollection().
			AddError(error_handler.CodeDeliveryFailed, "Notification not delivered", response)
	}

	return response, nil
}
