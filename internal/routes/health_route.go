package routes

import (
	"net/http"

	"dingbot/commons/routes"
	"dingbot/internal/handler"
	"dingbot/internal/logger"

	"github.com/gin-gonic/gin"
)

func InitHealthRoutes(
	router *gin.Engine,
	healthHandler *handler.HealthHandler,
	log logger.Logger,
) {
	apiV1 := routes.CreateAPIGroup(router, "v1")
	deps := routes.RouteDependencies{Logger: log}

	routes.RegisterRoute(
		apiV1,
		deps,
		routes.RouteOptions[handler.HealthRequest, handler.HealthResponse]{
			Path:        "/health",
			Method:      http.MethodGet,
			ServiceFunc: healthHandler.HealthService,
		},
	)
}
