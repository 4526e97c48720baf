package main

import (
	"chat-relay/auth"
	"chat-relay/contract"
	grpchealth "chat-relay/infrastructure/grpc"
	"chat-relay/infrastructure/rest"
	"chat-relay/infrastructure/websocket"
	"chat-relay/internal"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning instead of exiting lets every deferred close run before the process ends.
func run() (int, error) {
	// 1. Configuration & Logger
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return exitConfig, fmt.Errorf("failed to read .env: %w", err)
	}
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel).With("node", config.NodeID)

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Storage (BadgerDB + Bluge)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, repositories.InspectMapper)
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	stores := runtime.Stores{
		Conversations: repositories.NewConversationRepository(db, logger),
		Groups:        repositories.NewGroupRepository(db, logger),
		GroupMessages: repositories.NewGroupMessageRepository(db, logger, config.GroupPageSize),
		Search:        repositories.NewSearchIndex(blugeWriter, logger),
	}

	probes := []workers.Probe{{
		Name: "badger",
		Check: func(context.Context) error {
			if db.IsClosed() {
				return fmt.Errorf("badger is closed")
			}
			return nil
		},
	}}

	// 4. Presence (local, or shared through Redis)
	registry := runtime.NewRegistry()
	var presence contract.IPresenceRegistry = registry
	var extra []contract.Worker
	if config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		defer func() { _ = client.Close() }()
		if err := client.Ping(ctx).Err(); err != nil {
			return exitRuntime, fmt.Errorf("redis unreachable at %s: %w", config.RedisAddr, err)
		}

		shared := runtime.NewRedisPresence(logger, client, registry, config.NodeID, config.PresenceTTL, config.DeliveryTimeout)
		presence = shared
		extra = append(extra,
			workers.NewRelayWorker(logger, client, runtime.RelayChannel(config.NodeID), shared.Local()),
			workers.NewPresenceHeartbeatWorker(logger, shared, config.HeartbeatInterval),
		)
		probes = append(probes, workers.Probe{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		logger.Info("Shared presence enabled", "redis", config.RedisAddr)
	}

	// 5. Orchestration
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	orchestrator, err := runtime.NewOrchestrator(logger, supervisor, presence, stores, runtime.OrchestratorConfig{
		DeliveryTimeout:  config.DeliveryTimeout,
		FanoutBufferSize: config.FanoutBufferSize,
		MaxContentLength: config.MaxContentLength,
		CharReplacement:  charReplacement,
	})
	if err != nil {
		return exitRuntime, fmt.Errorf("orchestrator setup failed: %w", err)
	}

	tokens := auth.NewTokens(config.JwtSecret, config.AuthTokenDuration)
	healthServer := grpchealth.NewHealthServer(logger, tokens)
	monitoring := observability.NewMonitoringManager(logger, config.NodeID)
	orchestrator.Add(extra...)
	orchestrator.Add(
		workers.NewNodeMonitoringWorker(logger, orchestrator.Stats, monitoring, config.MetricInterval),
		workers.NewHealthProbeWorker(logger, healthServer.Health(), config.MetricInterval, probes...),
	)

	errChan := make(chan error, 2)
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		orchestrator.Start(ctx)
	}()

	// 6. Transports
	chatService := services.NewChatService(orchestrator, stores)
	groupService := services.NewGroupService(logger, stores.Groups, stores.GroupMessages, stores.Search)
	socket := websocket.NewHandler(ctx, logger, chatService, websocket.DefaultOptions(config.ConnectionBufferSize))

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr: address,
		Handler: rest.NewRouter(logger, rest.Dependencies{
			Tokens:  tokens,
			Chat:    chatService,
			Groups:  groupService,
			Socket:  socket,
			Monitor: monitoring,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	healthAddress := fmt.Sprintf("%s:%d", config.Host, config.GrpcHealthPort)
	listener, err := net.Listen("tcp", healthAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", healthAddress, err)
	}
	go func() {
		if err := healthServer.Serve(listener); err != nil {
			errChan <- fmt.Errorf("gRPC health server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 8. Final Cleanup (Graceful Shutdown)
	// Sockets close first so every session unregisters before the workers stop.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	healthServer.Stop()
	orchestrator.Stop()
	select {
	case <-engineDone:
	case <-shutdownCtx.Done():
		logger.Warn("Workers did not stop in time")
	}
	logger.Info("Program stopped cleanly")

	return code, runErr
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
