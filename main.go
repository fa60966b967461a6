// Package main provides the entry point for the Discord voice clipper bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/Raikerian/go-discord-clipper/internal/app"
	"github.com/Raikerian/go-discord-clipper/internal/bot"
	"github.com/Raikerian/go-discord-clipper/internal/capture"
	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/commands"
	"github.com/Raikerian/go-discord-clipper/internal/config"
	"github.com/Raikerian/go-discord-clipper/internal/discord"
	"github.com/Raikerian/go-discord-clipper/internal/infrastructure"
	"github.com/Raikerian/go-discord-clipper/internal/observe"
	"github.com/Raikerian/go-discord-clipper/internal/openai"
	"github.com/Raikerian/go-discord-clipper/internal/trigger"
	"github.com/Raikerian/go-discord-clipper/internal/voice"
)

func main() {
	configPath := "config.yaml"
	if p := os.Getenv("CLIPPER_CONFIG"); p != "" {
		configPath = p
	}

	application := app.New(
		// Core modules
		config.Module,
		infrastructure.LoggerModule,
		observe.Module,

		// External service modules
		discord.Module,
		openai.Module,

		// Application modules
		capture.Module,
		clip.Module,
		trigger.Module,
		voice.Module,
		commands.Module,
		bot.Module,

		fx.Supply(configPath),
		fx.WithLogger(infrastructure.NewFxLoggerAdapter),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go application.Run()

	sig := <-sigCh
	fmt.Printf("Received signal: %s, initiating shutdown.\n", sig)

	// Pending clips get up to 30 seconds to finish delivering.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	err := application.Stop(shutdownCtx)
	cancel()

	if err != nil {
		fmt.Printf("Error during shutdown: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Application has shut down gracefully.")
}
