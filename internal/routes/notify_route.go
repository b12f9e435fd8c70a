package routes

import (
	"net/http"

	"dingbot/commons/routes"
	"dingbot/internal/dto"
	"dingbot/internal/handler"
	"dingbot/internal/logger"

	"github.com/gin-gonic/gin"
)

// InitNotifyRoutes registers the /api/v1/notify endpoints.
func InitNotifyRoutes(
	router *gin.Engine,
	notifyHandler *handler.NotifyHandler,
	log logger.Logger,
) {
	notifyGroup := routes.CreateAPIGroup(router, "v1").Group("/notify")
	deps := routes.RouteDependencies{Logger: log}

	routes.RegisterRoute(notifyGroup, deps, routes.RouteOptions[dto.SendTextRequest, dto.DeliveryResponse]{
		Path:        "/text",
		Method:      http.MethodPost,
		ServiceFunc: notifyHandler.SendTextService,
	})
	routes.RegisterRoute(notifyGroup, deps, routes.RouteOptions[dto.SendMarkdownRequest, dto.DeliveryResponse]{
		Path:        "/markdown",
		Method:      http.MethodPost,
		ServiceFunc: notifyHandler.SendMarkdownService,
	})
	routes.RegisterRoute(notifyGroup, deps, routes.RouteOptions[dto.SendPictureRequest, dto.DeliveryResponse]{
		Path:        "/picture",
		Method:      http.MethodPost,
		ServiceFunc: notifyHandler.SendPictureService,
	})
	routes.RegisterRoute(notifyGroup, deps, routes.RouteOptions[dto.EnqueueRequest, dto.EnqueueResponse]{
		Path:        "/async",
		Method:      http.MethodPost,
		ServiceFunc: notifyHandler.EnqueueService,
	})
}
