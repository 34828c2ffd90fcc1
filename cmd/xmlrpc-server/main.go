// Command xmlrpc-server is a standalone XML-RPC server.
//
// It serves a set of sample methods over HTTP, with optional Basic
// authentication and a binary protocol event log.
//
// Usage:
//
//	xmlrpc-server [flags]
//
// Flags:
//
//	-config string   Configuration file path (YAML)
//	-listen string   Listen address, overrides the config file
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Serve the sample methods on the default port
//	xmlrpc-server
//
//	# Serve with a config file and protocol logging
//	xmlrpc-server -config /etc/xmlrpc/server.yaml
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/dispatch"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/log"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/service"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/transport"
)

func main() {
	var (
		configPath = flag.String("config", "", "Configuration file path (YAML)")
		listen     = flag.String("listen", "", "Listen address, overrides the config file")
		logLevel   = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	logger := newSlog(*logLevel)

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	protocolLogger, closeLog, err := buildProtocolLogger(cfg, logger)
	if err != nil {
		logger.Error("failed to open protocol log", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	table := dispatch.NewTable()
	if err := registerSampleMethods(table); err != nil {
		logger.Error("failed to register methods", "error", err)
		os.Exit(1)
	}

	rpc, err := service.NewServer(table, service.Config{
		Capabilities: cfg.Capabilities.Wire(),
		Logger:       protocolLogger,
	})
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	handlerCfg := transport.HandlerConfig{MaxRequestSize: cfg.MaxRequestSize}
	if len(cfg.Users) > 0 {
		auth := transport.NewBasicAuth()
		for _, u := range cfg.Users {
			hash, err := base64.StdEncoding.DecodeString(u.PasswordHash)
			if err != nil {
				// Hashes may be stored raw rather than base64.
				hash = []byte(u.PasswordHash)
			}
			auth.AddUserHash(u.Username, hash)
		}
		handlerCfg.Auth = auth
		logger.Info("basic auth enabled", "users", len(cfg.Users))
	}

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      transport.NewHandler(rpc, handlerCfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Listen, "methods", len(table.Methods()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func newSlog(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// buildProtocolLogger assembles the event logger: slog at debug level,
// plus the CBOR file log when configured.
func buildProtocolLogger(cfg Config, logger *slog.Logger) (log.Logger, func(), error) {
	slogAdapter := log.NewSlogAdapter(logger)
	if cfg.LogFile == "" {
		return slogAdapter, func() {}, nil
	}
	fileLogger, err := log.NewFileLogger(cfg.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.LogFile, err)
	}
	multi := log.NewMultiLogger(slogAdapter, fileLogger)
	return multi, func() { _ = fileLogger.Close() }, nil
}
