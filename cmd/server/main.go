package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbeisheim/chess-rules/internal/config"
	"github.com/benbeisheim/chess-rules/internal/controller"
	"github.com/benbeisheim/chess-rules/internal/service"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(logLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	gameManager := service.NewGameManager(cfg.ClockTime)
	gameService := service.NewGameService(gameManager)
	app := controller.NewApp(cfg, gameService)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("listening on %s", cfg.Addr)
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		return gameManager.RunMatchmaking(ctx, cfg.MatchmakingInterval)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("server: %v", err)
	}
}

func logLevel(name string) log.Level {
	switch name {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	}
	return log.LevelInfo
}
