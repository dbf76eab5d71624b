// Package main runs the pricing editor API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hublishing/fnsretail-sub001/internal/api"
	"github.com/hublishing/fnsretail-sub001/internal/config"
	"github.com/hublishing/fnsretail-sub001/internal/editor"
	"github.com/hublishing/fnsretail-sub001/internal/logger"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("configuration loaded", cfg.LogFields()...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		log.Fatal("failed to create stores", zap.Error(err))
	}
	defer cleanup()

	registry := editor.NewRegistry(editor.RegistryConfig{
		Store:           stores.products,
		Channels:        stores.channels,
		DefaultChannel:  cfg.DefaultChannel,
		Logger:          log,
		HistoryCapacity: cfg.HistoryCapacity,
		EffectCapacity:  cfg.EffectCapacity,
		SaveTimeout:     cfg.SaveTimeout,
	})

	server := api.New(api.Config{
		Registry:   registry,
		Channels:   stores.channels,
		Sales:      stores.sales,
		SigningKey: cfg.JWTSigningKey,
		Logger:     log,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.HTTPAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("server error", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	go func() {
		// Second signal forces exit.
		select {
		case sig := <-sigCh:
			log.Warn("received second signal, forcing immediate shutdown", zap.String("signal", sig.String()))
			os.Exit(1)
		case <-shutdownCtx.Done():
		}
	}()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}

	// Flushes every session's pending save.
	start := time.Now()
	registry.Close()
	log.Info("shutdown complete", zap.Duration("flush", time.Since(start)))
}
