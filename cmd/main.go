package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"storefront/config"
	"storefront/internal/clients"
	"storefront/internal/delivery"
	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/pkg/db"
)

const serviceName = "storefront.Session"

func main() {
	logger := setupLogger("info", "text")

	cfg := config.LoadConfig(logger)

	logger = setupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Infof("Starting storefront session service (backend %s)...", cfg.APIURL)

	store, closeStore, err := openStorage(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to open session storage: %v", err)
	}
	defer closeStore()

	api := clients.NewAPI(cfg.APIURL, cfg.RequestTimeout, logger)
	auth := usecase.NewAuthState(clients.NewIdentityClient(api), store, logger)
	api.UseCredentials(auth)

	cart := usecase.NewCartState(auth, clients.NewCartClient(api), store, cfg.RequestTimeout, logger)
	defer cart.Close()
	gate := usecase.NewAgeGate(store, logger)
	catalog := usecase.NewCatalog(clients.NewProductClient(api), logger)
	checkout := usecase.NewCheckout(auth, cart, clients.NewOrderClient(api), logger)
	admin := usecase.NewAdmin(auth, clients.NewAdminClient(api), logger)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("Failed to listen on port %s: %v", cfg.GrpcPort, err)
	}
	go func() {
		logger.Infof("gRPC health server listening on %s", cfg.GrpcPort)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	auth.Bootstrap()
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	ctx, stopResync := context.WithCancel(context.Background())
	defer stopResync()
	go cart.RunResync(ctx, cfg.CartResyncInterval)

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := delivery.NewRouter(delivery.Handlers{
		Session:  delivery.NewSessionHandler(auth, cart, logger),
		AgeGate:  delivery.NewAgeGateHandler(gate, logger),
		Catalog:  delivery.NewCatalogHandler(catalog, logger),
		Cart:     delivery.NewCartHandler(cart, catalog, logger),
		Checkout: delivery.NewCheckoutHandler(checkout, logger),
		Admin:    delivery.NewAdminHandler(admin, logger),
	}, delivery.NewSession(auth, gate), logger)

	srv := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: router,
	}
	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Warn("Shutdown signal received...")

	healthServer.Shutdown()
	stopResync()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server forced to shutdown: %v", err)
	}
	grpcServer.GracefulStop()

	logger.Info("Waiting for pending cart updates...")
	cart.Wait()
	logger.Info("Storefront session service shut down gracefully.")
}

func setupLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.SetOutput(os.Stdout)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using default 'info'. Error: %v", level, err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

func openStorage(cfg *config.Config, logger *logrus.Logger) (domain.Storage, func(), error) {
	switch cfg.StorageDriver {
	case "postgres":
		logger.Info("Connecting to database...")
		conn, err := db.Open(context.Background(), db.Options{URL: cfg.DatabaseURL, PingTimeout: cfg.RequestTimeout}, logger)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewPostgresStore(conn, cfg.SessionID, logger)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		logger.Infof("Session storage: postgres (session %s)", cfg.SessionID)
		return store, func() {
			if err := conn.Close(); err != nil {
				logger.Errorf("Error closing database connection: %v", err)
			}
		}, nil
	case "memory":
		logger.Warn("Session storage: memory, nothing survives a restart")
		return repository.NewMemoryStore(), func() {}, nil
	case "file":
		store, err := repository.NewFileStore(cfg.StoragePath, cfg.StorageSecret, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("Session storage: file %s (sealed: %t)", cfg.StoragePath, cfg.StorageSecret != "")
		return store, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver '%s'", cfg.StorageDriver)
}
