package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-rules/internal/middleware"
	"github.com/benbeisheim/chess-rules/internal/model"
	"github.com/benbeisheim/chess-rules/internal/service"
	"github.com/benbeisheim/chess-rules/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// lockedConn serializes writes: the game's broadcaster and this
// controller's replies share one socket.
type lockedConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteJSON(v)
}

func (l *lockedConn) WriteMessage(messageType int, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteMessage(messageType, data)
}

func (l *lockedConn) Close() error {
	return l.conn.Close()
}

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	conn := &lockedConn{conn: c}

	err := wsc.gameService.RegisterConnection(gameID, playerID, conn)
	if errors.Is(err, model.ErrDuplicateConnection) {
		// already closed by the game
		return
	}
	if err != nil {
		log.Warnf("game %s: failed to register connection for %s: %v", gameID, playerID, err)
		conn.WriteJSON(ws.ErrorMessage(err.Error()))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read from %s ended: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			conn.WriteJSON(ws.ErrorMessage("malformed message"))
			continue
		}
		if err := wsc.handleMessage(conn, gameID, playerID, msg); err != nil {
			log.Debugf("game %s: %s message from %s rejected: %v", gameID, msg.Type, playerID, err)
			conn.WriteJSON(ws.ErrorMessage(err.Error()))
		}
	}
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(conn model.Conn, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var req model.SelectRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		moves, err := wsc.gameService.SelectSquare(gameID, playerID, req.Square)
		if err != nil {
			return err
		}
		reply, err := ws.NewMessage(ws.MessageTypeLegalMoves, map[string]interface{}{
			"square":     req.Square,
			"legalMoves": moves,
		})
		if err != nil {
			return err
		}
		return conn.WriteJSON(reply)

	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypePromote:
		var req model.PromotionRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		return wsc.gameService.HandlePromotion(gameID, playerID, req.Piece)

	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking queues the player and holds the connection open until
// a match is found or the client goes away.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	events := make(chan string, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, events)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, events)

	// a player already queued over REST just waits for the match here
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		c.WriteJSON(ws.ErrorMessage(err.Error()))
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-events:
		if !ok {
			// replaced by a newer matchmaking connection
			return
		}
		if err := c.WriteJSON(ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}); err != nil {
			log.Warnf("matchmaking: notifying %s: %v", playerID, err)
		}
	case <-closed:
		log.Debugf("matchmaking: %s left the queue", playerID)
	}
}
