package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/karajelley/lab-toy-factory/handlers"
	"github.com/karajelley/lab-toy-factory/internal/config"
	"github.com/karajelley/lab-toy-factory/internal/database"
	"github.com/karajelley/lab-toy-factory/internal/toy/cache"
	"github.com/karajelley/lab-toy-factory/internal/toy/handler"
	"github.com/karajelley/lab-toy-factory/internal/toy/service"
	"github.com/karajelley/lab-toy-factory/pkg/logger"
	"github.com/karajelley/lab-toy-factory/pkg/metrics"
	"github.com/karajelley/lab-toy-factory/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

// depCheck is a readiness probe for one backing service. Only critical
// failures make /ready answer 503.
type depCheck struct {
	name     string
	critical bool
	ping     func(ctx context.Context) error
}

func main() {
	// LOG_LEVEL is read directly so config loading itself can be traced
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.Infof("config loaded: env=%s mongo_db=%s redis=%v", cfg.Server.Environment, cfg.MongoDB.Database, cfg.Redis.Addr() != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks []depCheck
	var opts []service.Option

	// Redis is optional: it only backs the toy list cache
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s), list cache disabled: %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis at %s, list cache ttl=%s", addr, cfg.Cache.TTL)
			opts = append(opts, service.WithCache(cache.NewRedisCache(rdb, "toys:", cfg.Cache.TTL)))
			checks = append(checks, depCheck{name: "redis", ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }})
		}
	}

	svc, client := openStore(ctx, cfg, opts)
	if client != nil {
		checks = append(checks, depCheck{name: "mongo", critical: true, ping: func(ctx context.Context) error { return client.Ping(ctx, nil) }})
	} else {
		checks = append(checks, depCheck{name: "mongo", critical: true, ping: func(context.Context) error { return errors.New("running on in-memory store") }})
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(svc, checks)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("Server is running on %s (store=%s)", srv.Addr, svc.Backend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	if client != nil {
		if err := client.Disconnect(shutdownCtx); err != nil {
			logger.Errorf("mongo disconnect: %v", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Errorf("redis close: %v", err)
		}
	}
}

// openStore connects to MongoDB with retry/backoff. When Mongo stays
// unreachable the service falls back to the in-memory repository so the API
// stays usable in development; /ready reports it as not ready.
func openStore(ctx context.Context, cfg *config.Config, opts []service.Option) (service.Service, *mongo.Client) {
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts, time.Second)
	if err != nil {
		logger.Warnf("cannot connect to MongoDB (%v), using memory-backed repo", err)
		return service.NewMemoryService(opts...), nil
	}
	col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
	svc, err := service.NewMongoService(ctx, col, cfg.MongoDB.Timeout, opts...)
	if err != nil {
		logger.Fatalf("failed to prepare toys collection: %v", err)
	}
	logger.Infof("connected to MongoDB, collection %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
	return svc, client
}

func newRouter(svc service.Service, checks []depCheck) *gin.Engine {
	r := gin.New()
	r.Use(middleware.CORS(), middleware.RequestLogger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when every critical dependency answers a ping
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		for _, chk := range checks {
			err := chk.ping(ctx)
			deps[chk.name] = err == nil
			if err != nil {
				logger.Debugf("readiness: %s unavailable: %v", chk.name, err)
				if chk.critical {
					ready = false
				}
			}
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "store": svc.Backend(), "deps": deps, "uptime": time.Since(startTime).String()})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)
	handler.RegisterToyRoutes(r, svc)

	return r
}
