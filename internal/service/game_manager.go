// service/game_manager.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chess-rules/internal/engine"
	"github.com/benbeisheim/chess-rules/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	clockTime        time.Duration
	mu               sync.RWMutex
}

func NewGameManager(clockTime time.Duration) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		clockTime:        clockTime,
	}
}

// RunMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for gm.matchNextPair() {
			}
		}
	}
}

// matchNextPair creates a game for the two longest waiting players and
// notifies them. It reports whether a pair was matched.
func (gm *GameManager) matchNextPair() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, ok := gm.queue.GetNextPair()
	if !ok {
		return false
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID, gm.clockTime)
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("matchmaking: adding %s to %s: %v", player1.ID, gameID, err)
		return true
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("matchmaking: adding %s to %s: %v", player2.ID, gameID, err)
		return true
	}
	gm.games[gameID] = game
	log.Infof("matchmaking: %s (%s) vs %s (%s) in %s", player1.ID, p1Color, player2.ID, p2Color, gameID)

	gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	return true
}

// notifyMatch sends event on the player's channel, if one is registered,
// and closes it. Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		log.Warnf("matchmaking: no channel for %s, they must poll for %s", playerID, event.GameID)
		return
	}
	select {
	case ch <- mustJSON(event):
	default:
		log.Warnf("matchmaking: channel for %s is full", playerID)
	}
	delete(gm.matchingChannels, playerID)
	close(ch)
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, ok := gm.matchingChannels[playerID]; ok {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets ch if it is still the player's
// channel and takes the player out of the queue.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.Remove(playerID)
	}
}

// Helper function for JSON marshaling
func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	gm.games[gameID] = model.NewGame(gameID, gm.clockTime)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (engine.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}
