// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/felixzheng98/cedar-java/lib/config"
	"github.com/felixzheng98/cedar-java/lib/conversion"
	"github.com/felixzheng98/cedar-java/lib/policyengine"
	"github.com/felixzheng98/cedar-java/lib/policystore"
	"github.com/felixzheng98/cedar-java/lib/service"
	"github.com/felixzheng98/cedar-java/lib/version"
)

// metricsShutdownTimeout bounds draining the metrics listener.
const metricsShutdownTimeout = 5 * time.Second

func runServe(args []string, stdout, stderr io.Writer) error {
	var configPath, socketPath, metricsListen, storePath string
	var verbose bool
	flagSet := pflag.NewFlagSet("cedarbridge serve", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to cedarbridge.yaml (default: $"+config.EnvVar+")")
	flagSet.StringVar(&socketPath, "socket", "", "override service.socket_path")
	flagSet.StringVar(&metricsListen, "metrics-listen", "", "override metrics.listen, e.g. 127.0.0.1:9464")
	flagSet.StringVar(&storePath, "store", "", "override store.path")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	if err := parseFlags(flagSet, args, stderr); err != nil {
		return err
	}
	if flagSet.NArg() != 0 {
		return &exitError{code: 2, err: fmt.Errorf("serve takes no arguments, got %q", flagSet.Arg(0))}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if socketPath != "" {
		cfg.Service.SocketPath = socketPath
	}
	if metricsListen != "" {
		cfg.Metrics.Listen = metricsListen
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, logger)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// serve runs the socket server, and the metrics listener when one is
// configured, until ctx is cancelled or either fails.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) (err error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := conversion.NewMetrics(registry)

	engine := policyengine.New(logger.With("component", "policyengine"))
	handler := conversion.NewHandler(logger.With("component", "conversion"), metrics, engine)
	if err := handler.SetFormatterDefaults(cfg.FormatterDefaults()); err != nil {
		return fmt.Errorf("formatter defaults: %w", err)
	}
	if cfg.Store.Path != "" {
		store, openErr := policystore.Open(policystore.Config{
			Path:   cfg.Store.Path,
			Logger: logger.With("component", "policystore"),
		})
		if openErr != nil {
			return openErr
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		handler.SetStore(store)
	}

	server := service.NewSocketServer(cfg.Service.SocketPath, logger.With("component", "service"))
	server.SetLimits(service.Limits{
		ReadTimeout:    cfg.ReadTimeout(),
		WriteTimeout:   cfg.WriteTimeout(),
		MaxRequestSize: cfg.Service.MaxRequestSize,
	})
	handler.Register(server)

	logger.Info("cedarbridge starting",
		"version", version.Info(),
		"environment", cfg.Environment,
		"socket", cfg.Service.SocketPath,
		"metrics", cfg.Metrics.Listen,
		"store", cfg.Store.Path,
	)

	// A bad metrics address fails startup before the socket is served.
	var metricsServer *service.HTTPServer
	if cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
		metricsServer, err = service.ListenHTTP(service.HTTPServerConfig{
			Address:         cfg.Metrics.Listen,
			Handler:         mux,
			ShutdownTimeout: metricsShutdownTimeout,
			Logger:          logger.With("component", "metrics"),
		})
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Serve(ctx)
	})
	if metricsServer != nil {
		group.Go(func() error {
			return metricsServer.Serve(ctx)
		})
	}

	err = group.Wait()
	logger.Info("cedarbridge stopped")
	return err
}
