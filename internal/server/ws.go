package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
	gameID string
}

type wsMessage struct {
	Type   string `json:"type"`
	Row    *int   `json:"row"`
	Column *int   `json:"column"`
}

func (s *Server) newUpgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originAllowed,
	}
}

// originAllowed matches the Origin header against the configured origins.
// Requests without an Origin header do not come from a browser and pass.
func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.allowOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *Server) handleWS(c *gin.Context) {
	if !s.originAllowed(c.Request) {
		c.JSON(http.StatusForbidden, gin.H{"error": "origin not allowed"})
		return
	}
	size, err := queryInt(c, "size", s.boardSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be an integer"})
		return
	}
	depth, err := queryInt(c, "depth", s.searchDepth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth must be an integer"})
		return
	}
	snap, err := s.manager.StartGame(c.Query("player"), size, depth)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{
		conn:   conn,
		send:   make(chan []byte, 8),
		server: s,
		gameID: snap.ID,
	}
	client.sendJSON(gin.H{"type": "init", "game": snap})

	go client.writePump()
	go client.readPump()
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *wsClient) readPump() {
	defer close(c.send)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug().Str("game", c.gameID).Err(err).Msg("websocket closed")
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("malformed message")
			continue
		}
		if msg.Type != "move" {
			c.sendError("unknown message type")
			continue
		}
		if msg.Row == nil || msg.Column == nil {
			c.sendError("row and column are required")
			continue
		}
		turn, err := c.server.play(context.Background(), c.gameID, *msg.Row, *msg.Column)
		if err != nil {
			c.sendError(err.Error())
			continue
		}
		c.sendJSON(gin.H{"type": "state", "turn": turn})
	}
}

func (c *wsClient) sendError(message string) {
	c.sendJSON(gin.H{"type": "error", "message": message})
}

func (c *wsClient) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("encode websocket message")
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("game", c.gameID).Msg("websocket send buffer full, dropping message")
	}
}
