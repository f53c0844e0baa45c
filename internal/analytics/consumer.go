package analytics

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Metrics struct {
	mu            sync.Mutex
	totalGames    int
	totalMoves    int
	outcomeCounts map[string]int
	gameDurations []float64
	gamesPerDay   map[string]int
	gamesPerHour  map[string]int
	playerGames   map[string]int
	playerWins    map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{
		outcomeCounts: make(map[string]int),
		gamesPerDay:   make(map[string]int),
		gamesPerHour:  make(map[string]int),
		playerGames:   make(map[string]int),
		playerWins:    make(map[string]int),
	}
}

// Record folds one event into the aggregates.
func (m *Metrics) Record(e Event) {
	switch e.Event {
	case EventMovePlayed:
		m.mu.Lock()
		m.totalMoves++
		m.mu.Unlock()
	case EventGameFinished:
		m.RecordGameFinished(e.Payload, e.Timestamp)
	}
}

func (m *Metrics) RecordGameFinished(payload map[string]any, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalGames++
	outcome, _ := payload["outcome"].(string)
	if outcome == "" {
		outcome = "unknown"
	}
	m.outcomeCounts[outcome]++

	if d, ok := payload["duration"].(float64); ok {
		m.gameDurations = append(m.gameDurations, d)
	}

	m.gamesPerDay[at.Format("2006-01-02")]++
	m.gamesPerHour[at.Format("2006-01-02 15:00")]++

	if player, ok := payload["player"].(string); ok && player != "" {
		m.playerGames[player]++
		if outcome == "human_won" {
			m.playerWins[player]++
		}
	}
}

func (m *Metrics) AverageDuration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.averageDuration()
}

func (m *Metrics) averageDuration() float64 {
	if len(m.gameDurations) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range m.gameDurations {
		sum += d
	}
	return sum / float64(len(m.gameDurations))
}

type PlayerStats struct {
	Player string `json:"player"`
	Games  int    `json:"games"`
	Wins   int    `json:"wins"`
}

type Summary struct {
	TotalGames      int            `json:"total_games"`
	TotalMoves      int            `json:"total_moves"`
	AverageDuration float64        `json:"average_duration"`
	Outcomes        map[string]int `json:"outcomes"`
	GamesPerDay     map[string]int `json:"games_per_day"`
	GamesPerHour    map[string]int `json:"games_per_hour"`
	Players         []PlayerStats  `json:"players"`
}

// Summary copies the current aggregates. Players are ordered by wins, then
// games, then name.
func (m *Metrics) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		TotalGames:      m.totalGames,
		TotalMoves:      m.totalMoves,
		AverageDuration: m.averageDuration(),
		Outcomes:        copyCounts(m.outcomeCounts),
		GamesPerDay:     copyCounts(m.gamesPerDay),
		GamesPerHour:    copyCounts(m.gamesPerHour),
	}
	for player, games := range m.playerGames {
		s.Players = append(s.Players, PlayerStats{Player: player, Games: games, Wins: m.playerWins[player]})
	}
	sort.Slice(s.Players, func(i, j int) bool {
		a, b := s.Players[i], s.Players[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		return a.Player < b.Player
	})
	return s
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Consume reads events into m until ctx is done. Undecodable messages are
// logged and skipped.
func Consume(ctx context.Context, r MessageReader, m *Metrics) error {
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		var e Event
		if err := sonic.Unmarshal(msg.Value, &e); err != nil {
			log.Warn().Err(err).Msg("failed to decode event")
			continue
		}
		m.Record(e)
		log.Debug().Str("event", e.Event).Interface("game", e.Payload["gameId"]).Interface("outcome", e.Payload["outcome"]).Msg("event consumed")
	}
}
