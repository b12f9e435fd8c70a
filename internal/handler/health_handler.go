package handler

import (
	"context"

	"dingbot/commons/error_handler"
	"dingbot/commons/handler"
	"dingbot/internal/logger"
)

type HealthHandler struct {
	logger      logger.Logger
	serviceName string
	mock        bool
}

type HealthRequest struct{}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Mock    bool   `json:"mock"`
}

func NewHealthHandler(log logger.Logger, serviceName string, mock bool) *HealthHandler {
	return &HealthHandler{
		logger:      log.With(logger.String("component", "health_handler")),
		serviceName: serviceName,
		mock:        mock,
	}
}

// HealthService reports liveness only; it does not call the robot API.
func (h *HealthHandler) HealthService(
	ctx context.Context,
	ioutil *handler.RequestIo[HealthRequest],
) (HealthResponse, *error_handler.ErrorCollection) {
	h.logger.Debug("health check requested")

	return HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Mock:    h.mock,
	}, nil
}
