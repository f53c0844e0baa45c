package server

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"fourinarow/internal/analytics"
	"fourinarow/internal/game"
	"fourinarow/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const leaderboardLimit = 10

type Config struct {
	BoardSize      int
	SearchDepth    int
	MaxBoardSize   int
	MaxSearchDepth int
	MaxSessions    int
	IdleTimeout    time.Duration
	SweepInterval  time.Duration
	AllowOrigins   []string
	Store          storage.Store
	Analytics      *analytics.Producer
}

type Server struct {
	router        *gin.Engine
	manager       *game.Manager
	store         storage.Store
	analytics     *analytics.Producer
	boardSize     int
	searchDepth   int
	sweepInterval time.Duration
	allowOrigins  []string
	upgrader      *websocket.Upgrader

	statsMu sync.Mutex
	wins    map[string]int
	games   map[string]int
}

func New(cfg Config) (*Server, error) {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Second
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	s := &Server{
		store:         cfg.Store,
		analytics:     cfg.Analytics,
		boardSize:     cfg.BoardSize,
		searchDepth:   cfg.SearchDepth,
		sweepInterval: cfg.SweepInterval,
		allowOrigins:  cfg.AllowOrigins,
		wins:          make(map[string]int),
		games:         make(map[string]int),
	}
	s.upgrader = s.newUpgrader()
	manager, err := game.NewManager(game.ManagerConfig{
		MaxSessions:    cfg.MaxSessions,
		MaxBoardSize:   cfg.MaxBoardSize,
		MaxSearchDepth: cfg.MaxSearchDepth,
		IdleAfter:      cfg.IdleTimeout,
		OnFinish:       s.onFinish,
	})
	if err != nil {
		return nil, err
	}
	s.manager = manager

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.POST("/games", s.handleCreateGame)
	router.GET("/games/:id", s.handleGetGame)
	router.GET("/games/:id/board", s.handleGetBoard)
	router.POST("/games/:id/moves", s.handleMove)
	router.GET("/leaderboard", s.handleLeaderboard)
	router.GET("/ws", s.handleWS)
	s.router = router
	return s, nil
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.allowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go s.sweeper(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) sweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.manager.SweepIdle(); n > 0 {
				log.Debug().Int("abandoned", n).Msg("idle sweep")
			}
		}
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

type createGameRequest struct {
	Player string `json:"player"`
	Size   *int   `json:"size"`
	Depth  *int   `json:"depth"`
}

type moveRequest struct {
	Row    *int `json:"row" binding:"required"`
	Column *int `json:"column" binding:"required"`
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	size, depth := s.boardSize, s.searchDepth
	if req.Size != nil {
		size = *req.Size
	}
	if req.Depth != nil {
		depth = *req.Depth
	}
	snap, err := s.manager.StartGame(req.Player, size, depth)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (s *Server) handleGetGame(c *gin.Context) {
	snap, ok := s.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleGetBoard(c *gin.Context) {
	snap, ok := s.manager.Get(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, game.ErrNotFound.Error())
		return
	}
	c.String(http.StatusOK, snap.Dump)
}

func (s *Server) handleMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	turn, err := s.play(c.Request.Context(), c.Param("id"), *req.Row, *req.Column)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, turn)
}

// play applies one human move and publishes the turn.
func (s *Server) play(ctx context.Context, id string, row, column int) (game.Turn, error) {
	turn, err := s.manager.Play(id, row, column)
	if err != nil {
		return turn, err
	}
	payload := map[string]any{
		"gameId":  id,
		"player":  turn.State.Player,
		"row":     row,
		"column":  column,
		"outcome": turn.Outcome.String(),
	}
	if turn.ComputerMove != nil {
		payload["computerRow"] = turn.ComputerMove.Row
		payload["computerColumn"] = turn.ComputerMove.Column
	}
	s.analytics.Publish(ctx, analytics.EventMovePlayed, payload)
	return turn, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrOccupied), errors.Is(err, game.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrInvalidSize), errors.Is(err, game.ErrInvalidDepth),
		errors.Is(err, game.ErrSizeTooLarge), errors.Is(err, game.ErrDepthTooLarge):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	limit := leaderboardLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if s.store != nil {
		rows, err := s.store.GetLeaderboard(c.Request.Context(), limit)
		if err == nil {
			if rows == nil {
				rows = []storage.LeaderboardRow{}
			}
			c.JSON(http.StatusOK, rows)
			return
		}
		log.Error().Err(err).Msg("leaderboard query failed, using in-memory tally")
	}
	c.JSON(http.StatusOK, s.memoryLeaderboard(limit))
}

func (s *Server) memoryLeaderboard(limit int) []storage.LeaderboardRow {
	s.statsMu.Lock()
	rows := make([]storage.LeaderboardRow, 0, len(s.games))
	for player, games := range s.games {
		rows = append(rows, storage.LeaderboardRow{Player: player, Wins: s.wins[player], Games: games})
	}
	s.statsMu.Unlock()
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].Player < rows[j].Player
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func (s *Server) onFinish(snap game.Snapshot) {
	if snap.Player != "" {
		s.statsMu.Lock()
		s.games[snap.Player]++
		if snap.Outcome == game.HumanWon {
			s.wins[snap.Player]++
		}
		s.statsMu.Unlock()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.store != nil {
		if err := s.store.SaveGame(ctx, storage.FromSnapshot(snap)); err != nil {
			log.Error().Err(err).Str("game", snap.ID).Msg("persist finished game")
		}
	}
	s.analytics.Publish(ctx, analytics.EventGameFinished, map[string]any{
		"gameId":    snap.ID,
		"player":    snap.Player,
		"outcome":   snap.Outcome.String(),
		"status":    snap.Status,
		"size":      snap.Size,
		"depth":     snap.Depth,
		"moves":     snap.HumanMoves,
		"duration":  snap.EndedAt.Sub(snap.StartedAt).Seconds(),
		"startedAt": snap.StartedAt,
		"endedAt":   snap.EndedAt,
	})
}
