// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/sortonym/backend/internal/auth"
	"github.com/sortonym/backend/internal/cache"
	"github.com/sortonym/backend/internal/config"
	"github.com/sortonym/backend/internal/database"
	"github.com/sortonym/backend/internal/game"
	"github.com/sortonym/backend/internal/handlers"
	"github.com/sortonym/backend/internal/lobby"
	"github.com/sortonym/backend/internal/models"
	"github.com/sortonym/backend/internal/words"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	if err := auth.Init(cfg.TokenExpire); err != nil {
		logger.Fatalf("auth init: %v", err)
	}

	ctx := context.Background()
	if err := database.ConnectDB(ctx, cfg.DatabaseURL()); err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer database.DB.Close()
	if err := database.EnsureSchema(ctx); err != nil {
		logger.Fatalf("schema: %v", err)
	}

	if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB, cfg.ResultQueue); err != nil {
		logger.Fatalf("redis: %v", err)
	}

	store := database.NewLobbyStore()
	lobbies := lobby.NewService(store, cfg.RoundTarget, game.LevelNames())

	source := words.NewCachedSource(words.NewDatamuseClient(), cache.Rdb)
	go source.WarmUp(ctx)

	engine := game.NewEngine(source, cache.Rdb, lobbies)
	engine.PersistResult = func(ctx context.Context, lobbyCode string, r models.RoundResult) error {
		return database.InsertRoundResult(ctx, lobbyCode, r)
	}
	engine.PublishResult = cache.PublishResult

	srv := &handlers.Server{
		Lobbies:     lobbies,
		Engine:      engine,
		JoinBaseURL: cfg.JoinBaseURL,
		Logger:      logger,
	}

	// no WriteTimeout: the lobby status stream holds websockets open
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.HTTPAddr)
		errc <- server.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server exited: %v", err)
		}
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}
}
