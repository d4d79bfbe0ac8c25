package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qnkhuat/quoriterm/pkg/config"
	"github.com/qnkhuat/quoriterm/pkg/gateway"
	"github.com/qnkhuat/quoriterm/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	log, closer, err := logger.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	s, err := gateway.New(gateway.Options{
		Addr:         cfg.SSH.Addr,
		IdleTimeout:  cfg.SSH.IdleTimeout,
		HostKey:      cfg.SSH.HostKey,
		ClientPath:   cfg.SSH.ClientPath,
		ClientConfig: cfg.SSH.ClientConfig,
		Logger:       log,
	})
	if err != nil {
		log.Error("Failed to create server", "error", err)
		return
	}

	go func() {
		log.Info("Server started", "addr", cfg.SSH.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, gateway.ErrServerClosed) {
			log.Error("Server stopped", "error", err)
		}
	}()

	// Wait for terminate signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Warn("Shutdown incomplete", "error", err)
	}
	log.Info("Server stopped")
}
