package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"fourinarow/internal/analytics"
	"fourinarow/internal/config"
	"fourinarow/internal/logging"
	"fourinarow/internal/server"
	"fourinarow/internal/storage"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := config.RegisterFlag(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, storage.Options{
		PostgresURL: cfg.Storage.PostgresURL,
		SQLitePath:  cfg.Storage.SQLitePath,
	})
	if err != nil {
		log.Warn().Err(err).Msg("storage disabled, leaderboard kept in memory")
		store = nil
	}
	if store != nil {
		defer store.Close(context.Background())
	}

	producer := analytics.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()

	srv, err := server.New(server.Config{
		BoardSize:      cfg.Game.BoardSize,
		SearchDepth:    cfg.Game.SearchDepth,
		MaxBoardSize:   cfg.Game.MaxBoardSize,
		MaxSearchDepth: cfg.Game.MaxSearchDepth,
		MaxSessions:    cfg.Game.MaxSessions,
		IdleTimeout:    cfg.Game.IdleTimeout,
		SweepInterval:  cfg.Server.SweepInterval,
		AllowOrigins:   cfg.Server.AllowOrigins,
		Store:          store,
		Analytics:      producer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create server")
	}

	if err := srv.Run(ctx, cfg.ListenAddr()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}
