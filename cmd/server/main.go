// Package main - Entry point for the tolltariff API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tolltariff/internal/app"
	"tolltariff/internal/config"
	"tolltariff/internal/logging"
)

const version = "0.3.0"

func main() {
	cfgPath := flag.String("config", "tolltariff.yaml", "config file, YAML or JSON")
	addr := flag.String("addr", "", "server address (default: server.addr)")
	uiPath := flag.String("ui", "", "path to UI files")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *uiPath != "" {
		cfg.Server.UIDir = *uiPath
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		logging.Fatal("failed to open", zap.Error(err))
	}
	defer a.Close()

	logging.Info("tolltariff server",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("driver", cfg.Data.Driver))

	if err := a.Serve(ctx, version); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
