package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/chess-rules/internal/engine"
	"github.com/benbeisheim/chess-rules/internal/model"
	"github.com/google/go-cmp/cmp"
)

func TestCreateAndJoinGame(t *testing.T) {
	gs := NewGameService(NewGameManager(time.Minute))
	gameID, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if color, err := gs.JoinGame(gameID, "alice"); err != nil || color != engine.White {
		t.Fatalf("JoinGame(alice) = %v, %v", color, err)
	}
	if color, err := gs.JoinGame(gameID, "bob"); err != nil || color != engine.Black {
		t.Fatalf("JoinGame(bob) = %v, %v", color, err)
	}
	if _, err := gs.JoinGame("missing", "bob"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("missing game err = %v; want ErrGameNotFound", err)
	}
	if err := gs.gameManager.CreateGame(gameID); !errors.Is(err, ErrGameExists) {
		t.Errorf("duplicate create err = %v; want ErrGameExists", err)
	}

	e2, _ := engine.ParseSquare("e2")
	e4, _ := engine.ParseSquare("e4")
	moves, err := gs.SelectSquare(gameID, "alice", e2)
	if err != nil {
		t.Fatalf("SelectSquare: %v", err)
	}
	if len(moves) != 2 {
		t.Errorf("e2 has %d moves; want 2", len(moves))
	}
	if err := gs.HandleMove(gameID, "alice", model.WSMove{From: e2, To: e4}); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	state, err := gs.GetGameState(gameID)
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if state.ToMove != engine.Black {
		t.Errorf("ToMove = %s; want black", state.ToMove)
	}
	if err := gs.HandlePromotion(gameID, "bob", engine.Queen); !errors.Is(err, model.ErrNoPendingPromotion) {
		t.Errorf("promotion err = %v; want ErrNoPendingPromotion", err)
	}
	if err := gs.Resign(gameID, "bob"); err != nil {
		t.Fatalf("Resign: %v", err)
	}
}

func TestMatchmakingPairsQueuedPlayers(t *testing.T) {
	gm := NewGameManager(time.Minute)
	alice := make(chan string, 1)
	bob := make(chan string, 1)
	gm.RegisterMatchmakingChannel("alice", alice)
	gm.RegisterMatchmakingChannel("bob", bob)
	if err := gm.JoinMatchmaking("alice"); err != nil {
		t.Fatalf("JoinMatchmaking: %v", err)
	}
	if err := gm.JoinMatchmaking("alice"); !errors.Is(err, model.ErrAlreadyQueued) {
		t.Errorf("double join err = %v; want ErrAlreadyQueued", err)
	}
	if gm.matchNextPair() {
		t.Fatal("matched a single player")
	}
	if err := gm.JoinMatchmaking("bob"); err != nil {
		t.Fatalf("JoinMatchmaking: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gm.RunMatchmaking(ctx, 5*time.Millisecond) }()

	var events []model.MatchFoundEvent
	for _, ch := range []chan string{alice, bob} {
		select {
		case raw := <-ch:
			var ev model.MatchFoundEvent
			if err := json.Unmarshal([]byte(raw), &ev); err != nil {
				t.Fatalf("decode event: %v", err)
			}
			events = append(events, ev)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for match")
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("RunMatchmaking: %v", err)
	}

	if events[0].GameID != events[1].GameID {
		t.Errorf("players sent to different games: %s, %s", events[0].GameID, events[1].GameID)
	}
	colors := []engine.Color{events[0].Color, events[1].Color}
	if diff := cmp.Diff([]engine.Color{engine.White, engine.Black}, colors); diff != "" {
		t.Errorf("colors (-want +got):\n%s", diff)
	}
	if _, err := gm.GetGame(events[0].GameID); err != nil {
		t.Errorf("GetGame: %v", err)
	}
	if _, open := <-alice; open {
		t.Error("alice's channel left open")
	}
	if gm.QueueSize() != 0 {
		t.Errorf("QueueSize() = %d; want 0", gm.QueueSize())
	}
}

func TestUnregisterMatchmakingLeavesQueue(t *testing.T) {
	gm := NewGameManager(time.Minute)
	ch := make(chan string, 1)
	gm.RegisterMatchmakingChannel("alice", ch)
	if err := gm.JoinMatchmaking("alice"); err != nil {
		t.Fatalf("JoinMatchmaking: %v", err)
	}
	gm.UnregisterMatchmakingChannel("alice", ch)
	if gm.QueueSize() != 0 {
		t.Errorf("QueueSize() = %d; want 0", gm.QueueSize())
	}
}
