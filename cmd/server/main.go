package main

// cmd/server is the bare HTTP surface without the CLI, for containers:
// configuration comes from config/app.json, .env and the environment only.

import (
	"context"
	"log"
	"net"
	"os/signal"
	"syscall"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/app"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx, net.JoinHostPort("", config.AppPort()))
}
