package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nodeboard/flowsync/internal/bridge"
	"github.com/nodeboard/flowsync/internal/config"
	"github.com/nodeboard/flowsync/internal/graph"
	"github.com/nodeboard/flowsync/internal/ingest"
	"github.com/nodeboard/flowsync/internal/overlay"
	"github.com/nodeboard/flowsync/internal/ports"
	"github.com/nodeboard/flowsync/internal/reconcile"
	"github.com/nodeboard/flowsync/internal/session"
	"github.com/nodeboard/flowsync/pkg/adapters/metrics/prometheus"
	"github.com/nodeboard/flowsync/pkg/adapters/persistence/rest"
	pushredis "github.com/nodeboard/flowsync/pkg/adapters/push/redis"
	pushsocketio "github.com/nodeboard/flowsync/pkg/adapters/push/socketio"
	pushwebsocket "github.com/nodeboard/flowsync/pkg/adapters/push/websocket"
	"github.com/nodeboard/flowsync/pkg/api/http"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load .env for local development, ignore absence
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting flowsync",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Local editing identity
	sess := session.New(cfg.API.Token, cfg.API.OrgID)
	logger.Info("session created", zap.String("actor_id", sess.ActorID))

	// Initialize core components
	store := graph.NewStore(logger)
	metricsCollector := prometheus.NewCollector()
	statusOverlay := overlay.New(store, cfg.StatusDecay, logger, metricsCollector)

	apiClient := rest.New(&rest.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		OrgID:   cfg.API.OrgID,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
	})

	wfBridge := bridge.New(apiClient, store, logger)
	wfBridge.Bind(cfg.WorkflowID)

	reconciler := reconcile.New(sess.ActorID, wfBridge, logger, metricsCollector)

	logSink := func(entry ports.LogEntry) {
		logger.Info("workflow log",
			zap.String("time", entry.Date),
			zap.String("msg", entry.Msg))
	}

	ingestor := ingest.New(statusOverlay, reconciler, logSink, logger, metricsCollector)

	// Initial fetch of the bound workflow
	ctx := context.Background()
	if wfBridge.Bound() {
		if err := wfBridge.Load(ctx); err != nil {
			logger.Fatal("failed to load workflow", zap.Error(err))
		}
	}

	// Connect the push channel
	channel, redisClient, err := connectPushChannel(cfg, sess, logger)
	if err != nil {
		logger.Fatal("failed to connect push channel", zap.Error(err))
	}

	if err := ingestor.Bind(channel); err != nil {
		logger.Fatal("failed to subscribe to workflow events", zap.Error(err))
	}
	ingestor.SetEnabled(wfBridge.Bound(), sess.Present())

	// Keep the graph size gauges current
	go trackGraphSize(ctx, store, metricsCollector)

	// Initialize the inspection server
	httpServer := http.NewServer(&http.Config{
		Port:   cfg.HTTPPort,
		Store:  store,
		Bridge: wfBridge,
		Logger: logger,
	})

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("flowsync started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("workflow_id", cfg.WorkflowID),
		zap.String("push_transport", cfg.Push.Transport))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown. In-flight decay timers are allowed to fire; the
	// gate stops any further event routing first.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ingestor.SetEnabled(false, false)
	ingestor.Unbind()

	if err := channel.Close(); err != nil {
		logger.Error("push channel close error", zap.Error(err))
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("flowsync shut down complete")
}

// connectPushChannel builds the configured push transport. The returned
// Redis client is non-nil only for the redis transport and must be closed
// by the caller.
func connectPushChannel(cfg *config.Config, sess *session.Session, logger *zap.Logger) (ports.PushChannel, *goredis.Client, error) {
	switch cfg.Push.Transport {
	case "socketio":
		channel, err := pushsocketio.Dial(cfg.Push.URL, cfg.Push.Namespace, sess.Token, cfg.WorkflowID, logger)
		return channel, nil, err

	case "websocket":
		channel, err := pushwebsocket.Dial(cfg.Push.URL, sess.Token, cfg.WorkflowID, logger)
		return channel, nil, err

	case "redis":
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		channel := pushredis.NewStreamsChannel(
			redisClient,
			cfg.WorkflowID,
			"flowsync-clients",
			fmt.Sprintf("flowsync-%s", sess.ActorID),
			logger,
		)
		return channel, redisClient, nil

	default:
		return nil, nil, fmt.Errorf("unsupported push transport: %s", cfg.Push.Transport)
	}
}

// trackGraphSize refreshes the graph size gauges periodically
func trackGraphSize(ctx context.Context, store *graph.Store, metrics ports.MetricsCollector) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			nodes, edges := store.Snapshot()
			metrics.SetGraphSize(len(nodes), len(edges))
		}
	}
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
