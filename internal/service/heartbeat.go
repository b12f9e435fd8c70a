package service

import (
	"context"
	"fmt"
	"time"

	"dingbot/internal/dingbot"
	"dingbot/internal/logger"

	"github.com/robfig/cron/v3"
)

const heartbeatTimeout = 30 * time.Second

// Heartbeat periodically sends a fixed text so operators can tell the robot is alive.
type Heartbeat struct {
	sender dingbot.Sender
	spec   string
	text   string
	cron   *cron.Cron
	logger logger.Logger
}

// NewHeartbeat creates a heartbeat for a seconds-first cron spec. An empty
// spec yields a heartbeat whose Start and Stop do nothing.
func NewHeartbeat(sender dingbot.Sender, spec, text string, log logger.Logger) *Heartbeat {
	return &Heartbeat{
		sender: sender,
		spec:   spec,
		text:   text,
		cron:   cron.New(cron.WithSeconds()),
		logger: log.With(logger.String("component", "heartbeat")),
	}
}

func (h *Heartbeat) Enabled() bool {
	return h.spec != ""
}

// Start registers the job and starts the cron goroutine.
func (h *Heartbeat) Start(ctx context.Context) error {
	if !h.Enabled() {
		h.logger.Info("heartbeat disabled")
		return nil
	}

	if _, err := h.cron.AddFunc(h.spec, func() {
		h.Beat(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid heartbeat schedule %q: %w", h.spec, err)
	}

	h.cron.Start()
	h.logger.Info("heartbeat scheduled", logger.String("spec", h.spec))
	return nil
}

// Stop waits for a running beat to finish or ctx to expire.
func (h *Heartbeat) Stop(ctx context.Context) error {
	if !h.Enabled() {
		return nil
	}

	cronCtx := h.cron.Stop()
	select {
	case <-cronCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Beat sends one heartbeat and returns its outcome.
func (h *Heartbeat) Beat(ctx context.Context) dingbot.DeliveryResult {
	ctx, cancel := context.WithTimeout(ctx, heartbeatTimeout)
	defer cancel()

	result, err := h.sender.Send(ctx, dingbot.Text{Content: h.text})
	if err != nil {
		h.logger.Error("heartbeat message rejected", logger.Error(err))
		return result
	}
	if !result.Succeeded() {
		h.logger.Error("heartbeat not delivered",
			logger.Int("http_status", result.HTTPStatus),
			logger.Int("errcode", result.ErrCode),
			logger.String("errmsg", result.ErrMessage))
		return result
	}

	h.logger.Debug("heartbeat delivered")
	return result
}
