package config

import (
	"context"

	"dingbot/commons/routes"
	cache "dingbot/internal/cache/iface"
	redisCache "dingbot/internal/cache/redis"
	appConfig "dingbot/internal/config"
	"dingbot/internal/dingbot"
	"dingbot/internal/logger"
	"dingbot/internal/ratelimit"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// ProvideConfig loads the process configuration from the environment
func ProvideConfig() (appConfig.Config, error) {
	return appConfig.Load()
}

// ProvideLogger creates and configures the logger for the application
func ProvideLogger(cfg appConfig.Config) (logger.Logger, error) {
	return logger.NewForEnv(cfg.Env)
}

// ProvideFxLogger creates the FX event logger using the application logger
func ProvideFxLogger(log logger.Logger) fxevent.Logger {
	zl, ok := log.(*logger.ZapLogger)
	if !ok {
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}
	return &fxevent.ZapLogger{
		Logger: zl.Logger(),
	}
}

// ProvideRouteDependencies creates route dependencies
func ProvideRouteDependencies(log logger.Logger) routes.RouteDependencies {
	return routes.RouteDependencies{
		Logger: log,
	}
}

// ProvideRouter creates and configures the Gin router with all routes
func ProvideRouter(
	config routes.RouterConfig,
	deps routes.RouteDependencies,
	routeInitializer func(*gin.Engine, routes.RouteDependencies),
) *gin.Engine {
	router := routes.NewRouter(config, deps)
	routeInitializer(router, deps)
	return router
}

// initializeSqsClient builds an SQS client, pointed at endpoint (LocalStack)
// when one is given and at AWS otherwise.
func initializeSqsClient(endpoint, region string) (*sqs.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				if endpoint != "" {
					return aws.Endpoint{
						URL:           endpoint,
						SigningRegion: region,
					}, nil
				}
				return aws.Endpoint{}, &aws.EndpointNotFoundError{}
			})),
	)
	if err != nil {
		return nil, err
	}

	return sqs.NewFromConfig(cfg), nil
}

func ProvideSQSClient(cfg appConfig.Config) (*sqs.Client, error) {
	return initializeSqsClient(cfg.SQS.Endpoint, cfg.SQS.Region)
}

// ProvideRedisCache provides a Redis cache client
func ProvideRedisCache(cfg appConfig.Config, log logger.Logger) (cache.Cache, error) {
	return redisCache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
}

// ProvideSender returns the real robot client, or a logging mock in mock mode
func ProvideSender(cfg appConfig.Config, log logger.Logger) dingbot.Sender {
	if cfg.Mock {
		log.Warn("mock mode enabled, notifications will only be logged")
		return dingbot.NewMockSender(log)
	}

	return dingbot.NewClient(cfg.Credentials(), log)
}

// ProvideLimiter guards the robot's per-minute send quota
func ProvideLimiter(c cache.Cache, cfg appConfig.Config, log logger.Logger) ratelimit.Limiter {
	return ratelimit.NewWindowLimiter(c, cfg.RateLimit, ratelimit.DefaultWindow, log)
}
