package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/chorequest/internal/config"
	"github.com/dukerupert/chorequest/internal/database"
	"github.com/dukerupert/chorequest/internal/logging"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/prayer"
	"github.com/dukerupert/chorequest/internal/server"
	"github.com/dukerupert/chorequest/internal/store"
	"github.com/dukerupert/chorequest/internal/suggest"
	"github.com/dukerupert/chorequest/internal/sync"
	"github.com/dukerupert/chorequest/internal/vault"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	stateStore := store.NewStateStore(db, model.DefaultCloud(cfg.Vault.Endpoint, cfg.Vault.Credential))
	state, err := stateStore.Load()
	if err != nil {
		logger.Error("load state", "error", err)
		os.Exit(1)
	}

	// Without a vault endpoint the app runs offline against an in-process
	// store; join and create still work but nothing leaves the device.
	var remote vault.Store
	if cfg.Vault.Endpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		natsStore, err := vault.DialNATS(ctx, cfg.Vault.Endpoint, cfg.Vault.Credential,
			logger.With("component", "vault"))
		cancel()
		if err != nil {
			logger.Error("connect vault", "endpoint", cfg.Vault.Endpoint, "error", err)
			os.Exit(1)
		}
		defer natsStore.Close()
		remote = natsStore
		logger.Info("vault connected", "endpoint", cfg.Vault.Endpoint)
	} else {
		remote = vault.NewMemoryStore()
		logger.Info("no vault endpoint configured, running offline")
	}

	manager := sync.New(state, stateStore, remote, logger.With("component", "sync"),
		sync.Options{Debounce: cfg.Vault.Debounce})
	defer manager.Close()
	if err := manager.Resume(); err != nil {
		logger.Error("resume vault watch", "error", err)
	}

	var suggestProvider suggest.Provider
	if cfg.Suggest.APIKey != "" {
		suggestProvider = suggest.NewOpenAIProvider(cfg.Suggest.APIKey, cfg.Suggest.BaseURL,
			cfg.Suggest.Model, logger.With("component", "suggest"))
	}

	var prayerSvc *prayer.Service
	if cfg.Prayer.Address != "" {
		prayerSvc = prayer.NewService(prayer.Config{
			Address: cfg.Prayer.Address,
			Method:  cfg.Prayer.Method,
		})
	}

	srv := server.New(manager, suggestProvider, prayerSvc, logger)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("chorequest running", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
