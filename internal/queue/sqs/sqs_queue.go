package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"dingbot/internal/logger"
	queue "dingbot/internal/queue/iface"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// API is the subset of *sqs.Client used by the queue.
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// QueueConfig holds configuration for SQS queue
type QueueConfig struct {
	QueueURL          string
	WorkerCount       int
	MaxMessages       int32
	WaitTimeSeconds   int32
	VisibilityTimeout int32
}

// SQSQueue publishes and consumes JSON-encoded messages of type T.
type SQSQueue[T any] struct {
	client    API
	config    QueueConfig
	logger    logger.Logger
	processor queue.MessageProcessor[T]

	mu      sync.Mutex
	wg      sync.WaitGroup
	running bool
	cancel  context.CancelFunc
}

// NewSQSQueue creates a new SQS queue with processor
func NewSQSQueue[T any](
	client API,
	config QueueConfig,
	processor queue.MessageProcessor[T],
	log logger.Logger,
) *SQSQueue[T] {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.MaxMessages <= 0 {
		config.MaxMessages = 1
	}
	if config.WaitTimeSeconds <= 0 {
		config.WaitTimeSeconds = 20
	}
	if config.VisibilityTimeout <= 0 {
		config.VisibilityTimeout = 60
	}

	return &SQSQueue[T]{
		client:    client,
		config:    config,
		logger:    log.With(logger.String("component", "sqs_queue")),
		processor: processor,
	}
}

func (q *SQSQueue[T]) Send(ctx context.Context, message interface{}) (string, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.config.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		q.logger.Error("failed to send message to SQS",
			logger.String("queue_url", q.config.QueueURL),
			logger.Error(err))
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	messageID := aws.ToString(out.MessageId)
	q.logger.Debug("message sent to queue",
		logger.String("queue_url", q.config.QueueURL),
		logger.String("message_id", messageID))

	return messageID, nil
}

func (q *SQSQueue[T]) StartConsumer(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return fmt.Errorf("consumer already running")
	}
	q.running = true

	// Workers outlive the fx start context.
	workerCtx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel

	q.logger.Info("starting SQS consumer",
		logger.String("queue_url", q.config.QueueURL),
		logger.Int("worker_count", q.config.WorkerCount))

	for i := 0; i < q.config.WorkerCount; i++ {
		q.wg.Add(1)
		go q.worker(workerCtx, i+1)
	}

	return nil
}

func (q *SQSQueue[T]) StopConsumer(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return fmt.Errorf("consumer not running")
	}
	q.cancel()
	q.mu.Unlock()

	q.logger.Info("stopping SQS consumer",
		logger.String("queue_url", q.config.QueueURL))

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for workers: %w", ctx.Err())
	}

	q.mu.Lock()
	q.running = false
	q.mu.Unlock()

	q.logger.Info("SQS consumer stopped")
	return nil
}

func (q *SQSQueue[T]) worker(ctx context.Context, workerID int) {
	defer q.wg.Done()

	q.logger.Info("worker started", logger.Int("worker_id", workerID))

	for ctx.Err() == nil {
		q.poll(ctx, workerID)
	}

	q.logger.Info("worker stopping", logger.Int("worker_id", workerID))
}

func (q *SQSQueue[T]) poll(ctx context.Context, workerID int) {
	// Longer than WaitTimeSeconds so long polling can complete.
	receiveTimeout := time.Duration(q.config.WaitTimeSeconds+5) * time.Second
	receiveCtx, cancel := context.WithTimeout(ctx, receiveTimeout)
	defer cancel()

	result, err := q.client.ReceiveMessage(receiveCtx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.config.QueueURL),
		MaxNumberOfMessages: q.config.MaxMessages,
		WaitTimeSeconds:     q.config.WaitTimeSeconds,
		VisibilityTimeout:   q.config.VisibilityTimeout,
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		q.logger.Error("failed to receive messages",
			logger.Int("worker_id", workerID),
			logger.Error(err))
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
		return
	}

	for _, msg := range result.Messages {
		if ctx.Err() != nil {
			return
		}
		// In-flight messages finish even if shutdown starts mid-batch.
		q.processMessage(context.WithoutCancel(ctx), msg, workerID)
	}
}

func (q *SQSQueue[T]) processMessage(ctx context.Context, msg types.Message, workerID int) {
	messageID := aws.ToString(msg.MessageId)

	var message T
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &message); err != nil {
		q.logger.Error("failed to unmarshal message, dropping it",
			logger.Int("worker_id", workerID),
			logger.String("message_id", messageID),
			logger.Error(err))
		q.deleteMessage(ctx, msg)
		return
	}

	q.logger.Debug("processing message",
		logger.Int("worker_id", workerID),
		logger.String("message_id", messageID))

	if q.processor.ProcessMessage(ctx, message) {
		q.deleteMessage(ctx, msg)
		return
	}

	q.logger.Warn("message not acknowledged, leaving it on the queue",
		logger.Int("worker_id", workerID),
		logger.String("message_id", messageID))
}

func (q *SQSQueue[T]) deleteMessage(ctx context.Context, msg types.Message) {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.config.QueueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		q.logger.Error("failed to delete message",
			logger.String("message_id", aws.ToString(msg.MessageId)),
			logger.Error(err))
	}
}
