package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wtask/relay/internal/config"
	"github.com/wtask/relay/internal/relay"
	"github.com/wtask/relay/internal/relay/broker"
	"github.com/wtask/relay/internal/relay/wsbridge"
	"github.com/wtask/relay/pkg/logger"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s (v%s) error:\n\n\t%v\n", BinaryName, Version, err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s (v%s) error:\n\n\t%v\n", BinaryName, Version, err)
		os.Exit(1)
	}
	log = log.With(slog.String("app", BinaryName), slog.String("version", Version))
	log.Info("started with config", slog.String("config", cfg.String()))

	if err := run(cfg, log); err != nil {
		log.Error("relay server failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info("relay server stopped, bye")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CommandLine.ConfigFile, CommandLine.EnvFile)
	if err != nil {
		return nil, err
	}
	if CommandLine.Address != "" {
		cfg.Address = CommandLine.Address
	}
	if CommandLine.WebSocketAddress != "" {
		cfg.WebSocket.Address = CommandLine.WebSocketAddress
	}
	if CommandLine.LogLevel != "" {
		cfg.Logging.Level = CommandLine.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config, log *slog.Logger) error {
	framing, err := cfg.MessageFraming()
	if err != nil {
		return err
	}
	identify, err := cfg.ClientIdentifier()
	if err != nil {
		return err
	}

	b, err := broker.New(
		broker.WithBufferSize(cfg.BufferSize),
		broker.WithQueueSize(cfg.QueueSize),
		broker.WithFraming(framing),
		broker.WithIdentifier(identify),
		broker.WithReadTimeout(cfg.ReadTimeout),
		broker.WithWriteTimeout(cfg.WriteTimeout),
		broker.WithLogger(log),
	)
	if err != nil {
		return err
	}
	server, err := relay.NewServer(b, relay.WithLogger(log))
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("unable to listen TCP: %w", err)
	}
	log.Info("listen", slog.String("address", listener.Addr().String()))

	var bridge *wsbridge.Server
	if cfg.WebSocket.Address != "" {
		bridge, err = wsbridge.Listen(
			cfg.WebSocket.Address,
			cfg.WebSocket.Path,
			wsbridge.WithMaxMessageSize(cfg.BufferSize),
			wsbridge.WithFraming(framing),
			wsbridge.WithLogger(log),
		)
		if err != nil {
			listener.Close()
			return fmt.Errorf("unable to listen WebSocket: %w", err)
		}
		log.Info("listen", slog.String("address", bridge.Listener().Addr().String()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(b.Run(gctx))
	g.Go(server.Run(gctx, listener))
	if bridge != nil {
		g.Go(bridge.Run(gctx))
		g.Go(server.Run(gctx, bridge.Listener()))
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-gctx.Done():
	}

	log.Info("got stop signal, shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	select {
	case err := <-done:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-time.After(cfg.ShutdownTimeout):
		return fmt.Errorf("shutdown timeout (%v) exceeded", cfg.ShutdownTimeout)
	}
}
