package main

import (
	"dingbot/commons/config"
	"dingbot/commons/server"
	internalConfig "dingbot/internal/config"
	notify_init "dingbot/internal/consumer/notify_queue/init"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.WithLogger(config.ProvideFxLogger),
		fx.Provide(
			config.ProvideConfig,
			config.ProvideLogger,
			config.ProvideRouteDependencies,
			config.ProvideSQSClient,
			config.ProvideRedisCache,
			config.ProvideSender,
			config.ProvideLimiter,
			internalConfig.ProvideHealthHandler,
			internalConfig.ProvideNotifyHandler,
			internalConfig.ProvideRouterConfig,
			internalConfig.ProvideServerConfig,
			internalConfig.ProvideRouteInitializer,
			internalConfig.ProvideHeartbeat,
			config.ProvideRouter,
			server.NewHTTPServer,
		),
		notify_init.NotifyQueueModule(),
		fx.Invoke(
			internalConfig.ManageCacheLifecycle,
			internalConfig.ManageHeartbeatLifecycle,
		),
	).Run()
}
