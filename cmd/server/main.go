package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/tazhibayda/crm-service/internal/ai"
	"github.com/tazhibayda/crm-service/internal/config"
	api "github.com/tazhibayda/crm-service/internal/http"
	"github.com/tazhibayda/crm-service/internal/log"
	"github.com/tazhibayda/crm-service/internal/metrics"
	"github.com/tazhibayda/crm-service/internal/oauth"
	"github.com/tazhibayda/crm-service/internal/queue"
	"github.com/tazhibayda/crm-service/internal/repo"
)

// @title CRM API
// @version 0.1.0
// @description Sales CRM backend: auth, customers, interactions, schedules, course plans, AI proxy.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.MongoURI == "" {
		logger.Fatal("MONGO_URI is required")
	}

	if cfg.DDEnabled {
		tracer.Start(tracer.WithService("crm-service"))
		defer tracer.Stop()
	}

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("mongo indexes", zap.Error(err))
	}

	var rds *repo.Redis
	if cfg.RedisAddr != "" {
		rds = repo.NewRedis(cfg.RedisAddr)
		if err := rds.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, rate limiting disabled", zap.Error(err))
			rds = nil
		} else {
			defer rds.Close()
		}
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, queue.Exchange)
		if err != nil {
			logger.Fatal("rabbit connect", zap.Error(err))
		}
		pub = p
	}
	defer pub.Close()

	google := oauth.NewVerifier(cfg.GoogleClientID, cfg.GoogleJWKSURL)

	var aiProxy *ai.Proxy
	if cfg.AIUpstreamURL != "" {
		aiProxy, err = ai.NewProxy(cfg.AIUpstreamURL, cfg.AIAPIKey)
		if err != nil {
			logger.Fatal("ai upstream url", zap.Error(err))
		}
	}

	h := api.NewHandler(store, cfg.JWTSecret, google, rds, cfg.RateLimitPerMin, pub, aiProxy)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("crm-service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
