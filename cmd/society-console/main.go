package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbpkg "society-console/common/database"
	logpkg "society-console/common/logger"
	mqttpkg "society-console/common/mqtt"
	redispkg "society-console/common/redis"
	"society-console/internal/aggregator"
	"society-console/internal/config"
	httpapi "society-console/internal/http"
	"society-console/internal/repository"
	"society-console/internal/service"
	"society-console/internal/trigger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env 可选
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	log, err := logpkg.NewLogger(logpkg.Options{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "society-console",
		FilePattern: cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting society-console service",
		zap.String("source_mode", string(cfg.SourceMode)),
		zap.String("http_addr", cfg.HTTPAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Service error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Service stopped")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// 上游数据源
	var source repository.Source
	switch cfg.SourceMode {
	case config.SourcePostgres:
		db, err := dbpkg.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return err
		}
		defer dbpkg.Close(db)
		source = repository.NewPostgresSource(db, log)
	default:
		source = repository.NewRESTSource(repository.RESTConfig{
			BaseURL:    cfg.Upstream.BaseURL,
			Token:      cfg.Upstream.Token,
			Timeout:    cfg.Upstream.Timeout,
			RetryCount: cfg.Upstream.RetryCount,
		}, log)
	}

	// 统计缓存（可选）；Redis 不可用时不启用缓存
	var cache *aggregator.CacheManager
	if cfg.Cache.Enabled {
		client := redispkg.NewRedisClient(&cfg.Redis)
		if err := redispkg.Ping(ctx, client); err != nil {
			log.Warn("Redis unavailable, dashboard cache disabled", zap.Error(err))
			redispkg.Close(client)
		} else {
			defer redispkg.Close(client)
			cache = aggregator.NewCacheManager(aggregator.NewRedisStore(client), cfg.Cache.TTL, log)
		}
	}

	registry := service.NewRegistry(service.RegistryConfig{
		DashboardInterval:    cfg.Refresh.DashboardInterval,
		NotificationInterval: cfg.Refresh.NotificationInterval,
		IdleTTL:              cfg.Refresh.SessionIdleTTL,
	}, source, source, cache, log)
	registry.Start(ctx)
	defer registry.Stop()

	// 刷新触发（可选）
	if cfg.Trigger.Enabled {
		client, err := mqttpkg.NewClient(&cfg.MQTT, log)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		consumer := trigger.NewMQTTConsumer(client, cfg.Trigger.Topic, cfg.MQTT.QoS, registry, log)
		if err := consumer.Start(ctx); err != nil {
			return err
		}
		defer consumer.Stop(context.Background())
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Options{
			Sessions: registry,
			Secret:   []byte(cfg.AuthSecret),
			Logger:   log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	// 等待信号或错误
	select {
	case <-ctx.Done():
		log.Info("Received signal, shutting down")
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", zap.Error(err))
	}
	return nil
}
