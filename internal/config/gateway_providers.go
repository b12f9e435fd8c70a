package config

import (
	"context"

	"dingbot/commons/routes"
	"dingbot/commons/server"
	cache "dingbot/internal/cache/iface"
	notify "dingbot/internal/consumer/notify_queue/iface"
	"dingbot/internal/dingbot"
	"dingbot/internal/handler"
	"dingbot/internal/logger"
	"dingbot/internal/ratelimit"
	internalRoutes "dingbot/internal/routes"
	"dingbot/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

const gatewayServiceName = "gateway"

// HTTP Providers

func ProvideHealthHandler(cfg Config, log logger.Logger) *handler.HealthHandler {
	return handler.NewHealthHandler(log, gatewayServiceName, cfg.Mock)
}

func ProvideNotifyHandler(
	cfg Config,
	log logger.Logger,
	sender dingbot.Sender,
	limiter ratelimit.Limiter,
	consumer notify.NotifyConsumer,
) *handler.NotifyHandler {
	return handler.NewNotifyHandler(log, sender, limiter, ratelimit.RobotKey(cfg.AccessToken), consumer)
}

func ProvideRouterConfig() routes.RouterConfig {
	return routes.RouterConfig{
		ServiceName: gatewayServiceName,
		Version:     "v1",
	}
}

func ProvideServerConfig(cfg Config) server.ServerConfig {
	return server.ServerConfig{
		Port: cfg.Port,
	}
}

func ProvideRouteInitializer(
	healthHandler *handler.HealthHandler,
	notifyHandler *handler.NotifyHandler,
) func(*gin.Engine, routes.RouteDependencies) {
	return func(router *gin.Engine, deps routes.RouteDependencies) {
		internalRoutes.InitHealthRoutes(router, healthHandler, deps.Logger)
		internalRoutes.InitNotifyRoutes(router, notifyHandler, deps.Logger)
	}
}

// Service Providers

func ProvideHeartbeat(cfg Config, sender dingbot.Sender, log logger.Logger) *service.Heartbeat {
	return service.NewHeartbeat(sender, cfg.Heartbeat.Spec, cfg.Heartbeat.Text, log)
}

// Lifecycle Management

func ManageHeartbeatLifecycle(lc fx.Lifecycle, heartbeat *service.Heartbeat, srv *server.HTTPServer, log logger.Logger) {
	// Depending on the server keeps it in the graph; its own hooks start it.
	_ = srv

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting heartbeat")
			return heartbeat.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping heartbeat")
			return heartbeat.Stop(ctx)
		},
	})
}

func ManageCacheLifecycle(lc fx.Lifecycle, c cache.Cache, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing redis cache")
			return c.Close()
		},
	})
}
