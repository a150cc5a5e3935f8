// Package app boots a storefront session: it opens the configured slot
// driver, rehydrates the store and wires the API client and the screen
// services on top. The CLI and the HTTP surface both start here.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Close()
//	view, err := a.Services.Catalog.Home(ctx)
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/internal/server"
	"github.com/shashiranjanraj/storefront/pkg/api"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/schedule"
	"github.com/shashiranjanraj/storefront/pkg/slots"
	"github.com/shashiranjanraj/storefront/pkg/store"
)

type Application struct {
	Store    *store.Store
	API      *api.Client
	Services *services.Services
	Bus      *event.Bus

	bridge   *slots.Bridge
	closeLog func()
}

// Boot loads config and builds the application over the configured slot
// driver.
func Boot(ctx context.Context) (*Application, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	closeLog, err := mirrorLogs(ctx)
	if err != nil {
		return nil, err
	}
	bridge, err := slots.Open(ctx)
	if err != nil {
		closeLog()
		return nil, err
	}
	a, err := New(ctx, bridge, api.FromConfig())
	if err != nil {
		_ = bridge.Close()
		closeLog()
		return nil, err
	}
	a.closeLog = closeLog
	logger.WithCtx(ctx).Debug("app: booted", "slots", config.SlotDriver(), "api", a.API.BaseURL())
	return a, nil
}

// New builds the application over an explicit bridge and client.
func New(ctx context.Context, bridge *slots.Bridge, client *api.Client) (*Application, error) {
	bus := event.New()
	st, err := store.New(ctx, bridge, bus)
	if err != nil {
		return nil, err
	}
	return &Application{
		Store:    st,
		API:      client,
		Services: services.New(st, client),
		Bus:      bus,
		bridge:   bridge,
	}, nil
}

// Kernel builds the HTTP surface over the application.
func (a *Application) Kernel(ctx context.Context) (*kernel.HTTPKernel, error) {
	return kernel.NewHTTPKernel(ctx, a.Store, a.API)
}

// Serve runs the local HTTP surface on addr until ctx is done, along with
// the periodic cart refresh when CART_REFRESH is set.
func (a *Application) Serve(ctx context.Context, addr string) error {
	k, err := a.Kernel(ctx)
	if err != nil {
		return err
	}
	defer k.Close()

	sched := a.Schedule()
	sched.Start(ctx)
	defer sched.Wait()

	return server.Start(ctx, addr, k.Handler())
}

// Schedule builds the background tasks for a long-running process.
func (a *Application) Schedule() *schedule.Scheduler {
	s := schedule.New()
	s.Every(config.CartRefresh(), "cart.refresh", func(ctx context.Context) {
		ctx = reqid.Ensure(ctx)
		report, err := a.Services.Cart.Refresh(ctx)
		if err != nil {
			logger.WithCtx(ctx).Warn("cart refresh failed", "error", err)
			return
		}
		logger.WithCtx(ctx).Debug("cart refreshed", "updated", report.Updated, "shortages", len(report.Shortages))
	}).WithoutOverlapping()
	return s
}

// Close drops bus listeners, releases the slot driver and flushes any log
// mirror.
func (a *Application) Close() error {
	a.Bus.Flush()
	err := a.bridge.Close()
	if a.closeLog != nil {
		a.closeLog()
	}
	return err
}

// mirrorLogs adds the LOG_SINK destination to the base logger.
func mirrorLogs(ctx context.Context) (func(), error) {
	if config.LogSink() != "mongo" {
		return func() {}, nil
	}
	h, err := logger.NewMongoHandler(ctx, config.MongoURI(), config.MongoDatabase(), "storefront_logs", slog.LevelInfo)
	if err != nil {
		return nil, fmt.Errorf("log sink: %w", err)
	}
	logger.SetOutput(slog.New(logger.NewMultiHandler(logger.L.Handler(), h)))
	return h.Close, nil
}
