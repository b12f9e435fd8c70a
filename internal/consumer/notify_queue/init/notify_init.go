package notify_queue

import (
	"context"

	"dingbot/internal/config"
	notify "dingbot/internal/consumer/notify_queue/iface"
	notifyImpl "dingbot/internal/consumer/notify_queue/impl"
	"dingbot/internal/dingbot"
	"dingbot/internal/logger"
	queue "dingbot/internal/queue/iface"
	"dingbot/internal/queue/sqs"

	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/fx"
)

// NotifyQueueParams holds dependencies for the notify queue
type NotifyQueueParams struct {
	fx.In

	Config    config.Config
	Logger    logger.Logger
	SQSClient *awssqs.Client
	Sender    dingbot.Sender
}

// NotifyQueueResult holds what this module provides
type NotifyQueueResult struct {
	fx.Out

	Consumer notify.NotifyConsumer
	Queue    queue.Queue `name:"notify_queue"`
}

// ProvideNotifyQueueAndConsumer wires the SQS queue to the consumer that drains it.
func ProvideNotifyQueueAndConsumer(params NotifyQueueParams) NotifyQueueResult {
	// The queue needs the consumer as its processor and the consumer needs
	// the queue to enqueue, so the processor closes over this variable.
	var consumer notify.NotifyConsumer

	q := sqs.NewSQSQueue[notify.NotificationMessage](
		params.SQSClient,
		sqs.QueueConfig{
			QueueURL:        params.Config.SQS.QueueURL,
			WorkerCount:     params.Config.SQS.Workers,
			MaxMessages:     10,
			WaitTimeSeconds: 20,
		},
		queue.MessageProcessorFunc[notify.NotificationMessage](func(ctx context.Context, msg notify.NotificationMessage) bool {
			return consumer.ProcessMessage(ctx, msg)
		}),
		params.Logger,
	)

	consumer = notifyImpl.NewNotifyConsumer(params.Logger, q, params.Sender)

	return NotifyQueueResult{
		Consumer: consumer,
		Queue:    q,
	}
}

// NotifyQueueModule provides the FX module for the notify queue
func NotifyQueueModule() fx.Option {
	return fx.Options(
		fx.Provide(
			ProvideNotifyQueueAndConsumer,
		),
		fx.Invoke(func(params struct {
			fx.In
			Lifecycle fx.Lifecycle
			Queue     queue.Queue `name:"notify_queue"`
			Logger    logger.Logger
		}) {
			params.Lifecycle.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					params.Logger.Info("starting notify queue consumer")
					return params.Queue.StartConsumer(ctx)
				},
				OnStop: func(ctx context.Context) error {
					params.Logger.Info("stopping notify queue consumer")
					return params.Queue.StopConsumer(ctx)
				},
			})
		}),
	)
}
