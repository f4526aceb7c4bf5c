package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/exp/slog"
)

func main() {
	config_file := flag.String("config", "./config.yaml", "path of the config file")
	flag.Parse()

	slog.SetDefault(slog.New(NewLogHandler(os.Stderr, nil)))
	config, err := ReadConfig(*config_file)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	level, _ := ParseLevel(config.LogLevel)
	slog.SetDefault(slog.New(NewLogHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := NewRunManager(config)
	if config.Status.Address != "" {
		go func() {
			if err := manager.Status().Serve(ctx, config.Status.Address); err != nil {
				slog.Error("status server failed: " + err.Error())
			}
		}()
	}
	if _, err := manager.Run(ctx); err != nil {
		slog.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
