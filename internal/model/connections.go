package model

import (
	"encoding/json"
	"sync"

	"github.com/benbeisheim/chess-rules/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex

	// writeMu serializes broadcasts so frames never interleave and an older
	// snapshot is never sent after a newer one.
	writeMu     sync.Mutex
	lastVersion int
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

func (gc *GameConnections) Count() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// remove deletes playerID only if it still maps to conn.
func (gc *GameConnections) remove(playerID string, conn Conn) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if current, ok := gc.connections[playerID]; ok && current == conn {
		delete(gc.connections, playerID)
		return true
	}
	return false
}

// RegisterConnection attaches a player's or spectator's websocket to the
// game. A second connection for the same player is closed and
// ErrDuplicateConnection is returned; the first connection stays attached.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	_, seated := g.state.Players.colorOf(playerID)
	isAuthorized := seated || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		log.Debugf("game %s: rejected duplicate connection for %s", g.ID, playerID)
		return ErrDuplicateConnection
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("game %s: registered connection %p for %s", g.ID, conn, playerID)

	// send the current state to everyone, the newcomer included
	g.mu.Lock()
	g.publish()
	g.mu.Unlock()
	return nil
}

// UnregisterConnection detaches conn. A newer connection registered for
// the same player is left alone.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	if g.connections.remove(playerID, conn) {
		log.Infof("game %s: unregistered connection for %s", g.ID, playerID)
	}
}

func (g *Game) broadcastState(state GameState) {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	if state.Version < g.connections.lastVersion {
		return
	}
	g.connections.lastVersion = state.Version

	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}

	g.connections.mu.RLock()
	active := make(map[string]Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: failed to send state to %s: %v", g.ID, playerID, err)
			g.connections.remove(playerID, conn)
		}
	}
}
