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

	"github.com/Belphemur/CounterView/internal/client"
	"github.com/Belphemur/CounterView/internal/config"
	grpcserver "github.com/Belphemur/CounterView/internal/grpc"
	"github.com/Belphemur/CounterView/internal/loader"
	"github.com/Belphemur/CounterView/internal/metrics"
	"github.com/Belphemur/CounterView/internal/reporting"
)

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("backend_url", cfg.BackendURL).
		Str("counter_path", cfg.Loader.Path).
		Bool("harden_failures", cfg.Loader.HardenFailures).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	reporter, err := reporting.NewReporterFromConfig(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to configure Sentry")
	}
	defer reporter.Flush(2 * time.Second)

	fetch := client.NewClient(cfg)
	counterLoader := loader.NewFromConfig(cfg)

	grpcServer := grpcserver.NewGRPCServer(grpcserver.NewServer(counterLoader, fetch, reporter))

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		logger.Fatal().Err(err).Str("address", address).Msg("Failed to create listener")
	}

	logger.Info().Str("address", address).Str("service", grpcserver.ServiceName).Msg("Starting gRPC server")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		grpcServer.GracefulStop()
	}()

	if err := grpcServer.Serve(listener); err != nil {
		logger.Fatal().Err(err).Msg("Failed to serve gRPC")
	}

	logger.Info().Msg("Server stopped gracefully")
}
