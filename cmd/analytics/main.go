package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fourinarow/internal/analytics"
	"fourinarow/internal/config"
	"fourinarow/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

func main() {
	configPath := config.RegisterFlag(flag.CommandLine)
	every := flag.Duration("summary-every", 30*time.Second, "how often to log the summary")
	flag.Parse()

	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Strs("brokers", brokers).Str("topic", cfg.Kafka.Topic).Msg("analytics consumer listening")

	metrics := analytics.NewMetrics()
	go func() {
		ticker := time.NewTicker(*every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logSummary(metrics.Summary())
			}
		}
	}()

	if err := analytics.Consume(ctx, reader, metrics); err != nil {
		log.Fatal().Err(err).Msg("read events")
	}
	logSummary(metrics.Summary())
}

func logSummary(s analytics.Summary) {
	log.Info().
		Int("total_games", s.TotalGames).
		Int("total_moves", s.TotalMoves).
		Float64("average_duration_s", s.AverageDuration).
		Interface("outcomes", s.Outcomes).
		Interface("games_per_day", s.GamesPerDay).
		Interface("games_per_hour", s.GamesPerHour).
		Interface("players", s.Players).
		Msg("analytics summary")
}
