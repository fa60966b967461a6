// Package app assembles the fx application and ties the bot to its lifecycle.
package app

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/bot"
)

// Joining voice in every guild happens after start, so startup only covers
// opening the gateway and registering commands.
const (
	startTimeout = 30 * time.Second
	stopTimeout  = 30 * time.Second
)

// Application represents the main application with its lifecycle.
type Application struct {
	app *fx.App
}

// New creates a new Application with the provided modules and options.
func New(modules ...fx.Option) *Application {
	options := append([]fx.Option{
		fx.StartTimeout(startTimeout),
		fx.StopTimeout(stopTimeout),
	}, modules...)
	options = append(options, fx.Invoke(registerLifecycleHooks))

	return &Application{app: fx.New(options...)}
}

// Err reports a dependency graph error found while building the application.
func (a *Application) Err() error {
	return a.app.Err()
}

// Run starts the application and blocks until it's stopped.
func (a *Application) Run() {
	a.app.Run()
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	return a.app.Stop(ctx)
}

// registerLifecycleHooks starts the bot after the gateway session is open and
// stops it before the session closes.
func registerLifecycleHooks(lc fx.Lifecycle, b *bot.Bot, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := b.Start(ctx); err != nil {
				logger.Error("Failed to start bot", zap.Error(err))
				return err
			}
			logger.Info("Clipper started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := b.Stop(ctx); err != nil {
				logger.Error("Failed to stop bot", zap.Error(err))
				return err
			}
			logger.Info("Clipper stopped")
			return nil
		},
	})
}
