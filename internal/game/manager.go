package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

const (
	StatusActive    = "active"
	StatusFinished  = "finished"
	StatusAbandoned = "abandoned"
)

var (
	ErrNotFound      = errors.New("game not found")
	ErrGameFinished  = errors.New("game already finished")
	ErrOutOfBounds   = errors.New("move out of bounds")
	ErrOccupied      = errors.New("cell occupied")
	ErrSizeTooLarge  = errors.New("board size above the configured maximum")
	ErrDepthTooLarge = errors.New("search depth above the configured maximum")
)

const (
	DefaultMaxBoardSize   = 8
	DefaultMaxSearchDepth = 4
)

type session struct {
	mu         sync.Mutex
	id         string
	player     string
	game       *Game
	status     string
	outcome    Outcome
	humanMoves int
	startedAt  time.Time
	endedAt    time.Time
	lastMoveAt time.Time
}

// Snapshot is a copy of a session taken under its lock.
type Snapshot struct {
	ID           string    `json:"id"`
	Player       string    `json:"player"`
	Size         int       `json:"size"`
	Depth        int       `json:"depth"`
	Status       string    `json:"status"`
	Outcome      Outcome   `json:"outcome"`
	Board        [][]Cell  `json:"board"`
	Dump         string    `json:"dump"`
	HumanMoves   int       `json:"human_moves"`
	ComputerMove *Move     `json:"computer_move,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	LastMoveAt   time.Time `json:"last_move_at"`
}

// Turn is the result of one human move and the computer reply it triggered.
type Turn struct {
	Human        Outcome  `json:"human"`
	ComputerMove *Move    `json:"computer_move,omitempty"`
	Outcome      Outcome  `json:"outcome"`
	State        Snapshot `json:"state"`
}

type ManagerConfig struct {
	MaxSessions    int
	MaxBoardSize   int
	MaxSearchDepth int
	IdleAfter      time.Duration
	OnFinish       func(Snapshot)
}

// Manager owns the running sessions. Sessions beyond MaxSessions are evicted
// least recently used first.
type Manager struct {
	sessions  *lru.Cache
	maxSize   int
	maxDepth  int
	idleAfter time.Duration
	onFinish  func(Snapshot)
}

func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1024
	}
	if cfg.MaxBoardSize <= 0 {
		cfg.MaxBoardSize = DefaultMaxBoardSize
	}
	if cfg.MaxSearchDepth <= 0 {
		cfg.MaxSearchDepth = DefaultMaxSearchDepth
	}
	m := &Manager{
		maxSize:   cfg.MaxBoardSize,
		maxDepth:  cfg.MaxSearchDepth,
		idleAfter: cfg.IdleAfter,
		onFinish:  cfg.OnFinish,
	}
	cache, err := lru.NewWithEvict(cfg.MaxSessions, m.evicted)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	m.sessions = cache
	return m, nil
}

// evicted abandons a session pushed out of the cache while still in play.
// Sessions that already ended were reported when they ended.
func (m *Manager) evicted(key, value interface{}) {
	s := value.(*session)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return
	}
	s.status = StatusAbandoned
	s.endedAt = time.Now()
	log.Info().Interface("game", key).Msg("unfinished game evicted")
	m.finish(s.snapshot())
}

// StartGame opens a new session for player. Size and depth must not exceed
// the configured maximums.
func (m *Manager) StartGame(player string, size, depth int) (Snapshot, error) {
	if size > m.maxSize {
		return Snapshot{}, fmt.Errorf("%w: %d > %d", ErrSizeTooLarge, size, m.maxSize)
	}
	if depth > m.maxDepth {
		return Snapshot{}, fmt.Errorf("%w: %d > %d", ErrDepthTooLarge, depth, m.maxDepth)
	}
	g, err := NewGame(size, depth)
	if err != nil {
		return Snapshot{}, err
	}
	now := time.Now()
	s := &session{
		id:         uuid.NewString(),
		player:     player,
		game:       g,
		status:     StatusActive,
		startedAt:  now,
		lastMoveAt: now,
	}
	m.sessions.Add(s.id, s)
	log.Info().Str("game", s.id).Str("player", player).Int("size", size).Int("depth", depth).Msg("game started")
	return s.snapshot(), nil
}

func (m *Manager) lookup(id string) (*session, bool) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*session), true
}

func (m *Manager) Get(id string) (Snapshot, bool) {
	s, ok := m.lookup(id)
	if !ok {
		return Snapshot{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), true
}

// Play validates and applies the human move at (row, column), then lets the
// computer answer when the game goes on.
func (m *Manager) Play(id string, row, column int) (Turn, error) {
	s, ok := m.lookup(id)
	if !ok {
		return Turn{}, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return Turn{State: s.snapshot()}, ErrGameFinished
	}
	board := s.game.Board()
	if !board.InBounds(row, column) {
		return Turn{State: s.snapshot()}, ErrOutOfBounds
	}
	if board.At(row, column) != Empty {
		return Turn{State: s.snapshot()}, ErrOccupied
	}

	turn := Turn{Human: s.game.HumanMove(row, column)}
	s.humanMoves++
	turn.Outcome = turn.Human
	if !turn.Human.Finished() {
		turn.Outcome = s.game.ComputerMove()
		if mv, ok := s.game.LastComputerMove(); ok {
			turn.ComputerMove = &mv
		}
	}
	s.lastMoveAt = time.Now()

	if turn.Outcome.Finished() {
		s.status = StatusFinished
		s.outcome = turn.Outcome
		s.endedAt = s.lastMoveAt
		log.Info().Str("game", s.id).Stringer("outcome", turn.Outcome).Msg("game finished")
		m.finish(s.snapshot())
	}
	turn.State = s.snapshot()
	return turn, nil
}

// SweepIdle abandons active sessions without a move inside the idle window.
func (m *Manager) SweepIdle() int {
	if m.idleAfter <= 0 {
		return 0
	}
	now := time.Now()
	swept := 0
	for _, key := range m.sessions.Keys() {
		v, ok := m.sessions.Peek(key)
		if !ok {
			continue
		}
		s := v.(*session)
		s.mu.Lock()
		if s.status == StatusActive && now.Sub(s.lastMoveAt) > m.idleAfter {
			s.status = StatusAbandoned
			s.endedAt = now
			swept++
			log.Info().Str("game", s.id).Msg("game abandoned after idle timeout")
			m.finish(s.snapshot())
		}
		s.mu.Unlock()
	}
	return swept
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}

func (m *Manager) finish(snap Snapshot) {
	if m.onFinish != nil {
		go m.onFinish(snap)
	}
}

func (s *session) snapshot() Snapshot {
	snap := Snapshot{
		ID:         s.id,
		Player:     s.player,
		Size:       s.game.Size(),
		Depth:      s.game.Depth(),
		Status:     s.status,
		Outcome:    s.outcome,
		Board:      s.game.Board().Cells(),
		Dump:       s.game.String(),
		HumanMoves: s.humanMoves,
		StartedAt:  s.startedAt,
		EndedAt:    s.endedAt,
		LastMoveAt: s.lastMoveAt,
	}
	if mv, ok := s.game.LastComputerMove(); ok {
		snap.ComputerMove = &mv
	}
	return snap
}
