package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbeisheim/chess-rules/internal/config"
	"github.com/benbeisheim/chess-rules/internal/engine"
	"github.com/benbeisheim/chess-rules/internal/model"
	"github.com/benbeisheim/chess-rules/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestServer(t *testing.T) (*fiber.App, *service.GameManager) {
	t.Helper()
	gm := service.NewGameManager(time.Minute)
	return NewApp(config.Default(), service.NewGameService(gm)), gm
}

// call performs a request as playerID and decodes a JSON response into out
// when out is non-nil.
func call(t *testing.T, app *fiber.App, method, target, playerID string, body, out interface{}) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, target, err)
		}
	}
	return resp.StatusCode
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	var created struct {
		GameID string `json:"game_id"`
	}
	if status := call(t, app, "POST", "/api/game/create", "alice", nil, &created); status != fiber.StatusOK {
		t.Fatalf("create: status %d", status)
	}
	if created.GameID == "" {
		t.Fatal("create: empty game id")
	}
	return created.GameID
}

func mustSquare(t *testing.T, name string) engine.Square {
	t.Helper()
	sq, err := engine.ParseSquare(name)
	if err != nil {
		t.Fatal(err)
	}
	return sq
}

func TestJoinGame(t *testing.T) {
	app, _ := newTestServer(t)
	gameID := createGame(t, app)

	tests := []struct {
		player     string
		wantStatus int
		wantColor  engine.Color
	}{
		{"alice", fiber.StatusOK, engine.White},
		{"bob", fiber.StatusOK, engine.Black},
		{"alice", fiber.StatusOK, engine.White},
		{"carol", fiber.StatusConflict, ""},
	}
	for _, tt := range tests {
		var resp struct {
			Color engine.Color `json:"color"`
			Error string       `json:"error"`
		}
		status := call(t, app, "POST", "/api/game/join/"+gameID, tt.player, nil, &resp)
		if status != tt.wantStatus {
			t.Errorf("join as %s: status %d, want %d (%s)", tt.player, status, tt.wantStatus, resp.Error)
		}
		if resp.Color != tt.wantColor {
			t.Errorf("join as %s: color %q, want %q", tt.player, resp.Color, tt.wantColor)
		}
	}
}

func TestRequestsNeedPlayerID(t *testing.T) {
	app, _ := newTestServer(t)
	if status := call(t, app, "POST", "/api/game/create", "", nil, nil); status != fiber.StatusUnauthorized {
		t.Errorf("status %d, want %d", status, fiber.StatusUnauthorized)
	}
}

func TestUnknownGame(t *testing.T) {
	app, _ := newTestServer(t)
	for _, target := range []string{
		"/api/game/nope",
		"/api/game/nope/moves?square=e2",
	} {
		if status := call(t, app, "GET", target, "alice", nil, nil); status != fiber.StatusNotFound {
			t.Errorf("GET %s: status %d, want %d", target, status, fiber.StatusNotFound)
		}
	}
}

func TestLegalMovesEndpoint(t *testing.T) {
	app, _ := newTestServer(t)
	gameID := createGame(t, app)
	call(t, app, "POST", "/api/game/join/"+gameID, "alice", nil, nil)
	call(t, app, "POST", "/api/game/join/"+gameID, "bob", nil, nil)

	var resp struct {
		LegalMoves []engine.Square `json:"legalMoves"`
	}
	status := call(t, app, "GET", "/api/game/"+gameID+"/moves?square=e2", "alice", nil, &resp)
	if status != fiber.StatusOK {
		t.Fatalf("status %d", status)
	}
	want := []engine.Square{mustSquare(t, "e3"), mustSquare(t, "e4")}
	less := func(a, b engine.Square) bool { return a.String() < b.String() }
	if diff := cmp.Diff(want, resp.LegalMoves, cmpopts.SortSlices(less)); diff != "" {
		t.Errorf("legal moves mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name, target, player string
		wantStatus           int
	}{
		{"malformed square", "/moves?square=z9", "alice", fiber.StatusBadRequest},
		{"empty square", "/moves?square=e4", "alice", fiber.StatusUnprocessableEntity},
		{"enemy piece", "/moves?square=e7", "alice", fiber.StatusUnprocessableEntity},
		{"not your turn", "/moves?square=e7", "bob", fiber.StatusConflict},
		{"spectator", "/moves?square=e2", "carol", fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := call(t, app, "GET", "/api/game/"+gameID+tt.target, tt.player, nil, nil); status != tt.wantStatus {
				t.Errorf("status %d, want %d", status, tt.wantStatus)
			}
		})
	}
}

func TestMakeMoveEndpoint(t *testing.T) {
	app, _ := newTestServer(t)
	gameID := createGame(t, app)
	call(t, app, "POST", "/api/game/join/"+gameID, "alice", nil, nil)
	call(t, app, "POST", "/api/game/join/"+gameID, "bob", nil, nil)
	target := "/api/game/" + gameID + "/move"

	move := func(from, to string) model.WSMove {
		return model.WSMove{From: mustSquare(t, from), To: mustSquare(t, to)}
	}

	if status := call(t, app, "POST", target, "bob", move("e7", "e5"), nil); status != fiber.StatusConflict {
		t.Errorf("black moving first: status %d, want %d", status, fiber.StatusConflict)
	}
	if status := call(t, app, "POST", target, "alice", move("e2", "e5"), nil); status != fiber.StatusUnprocessableEntity {
		t.Errorf("illegal move: status %d, want %d", status, fiber.StatusUnprocessableEntity)
	}

	var state model.GameState
	if status := call(t, app, "POST", target, "alice", move("e2", "e4"), &state); status != fiber.StatusOK {
		t.Fatalf("e2-e4: status %d", status)
	}
	if state.ToMove != engine.Black {
		t.Errorf("to move = %s, want black", state.ToMove)
	}
	if len(state.MoveHistory) != 1 || state.MoveHistory[0].WhitePly == nil || state.MoveHistory[0].WhitePly.Notation != "e4" {
		t.Errorf("move history = %+v, want a single e4", state.MoveHistory)
	}
	wantEP := mustSquare(t, "e3")
	if state.EnPassantTarget == nil || *state.EnPassantTarget != wantEP {
		t.Errorf("en passant target = %v, want e3", state.EnPassantTarget)
	}
	if p := state.Board.At(mustSquare(t, "e4")); p == nil || p.Type != engine.Pawn || p.Color != engine.White {
		t.Errorf("e4 holds %+v, want a white pawn", p)
	}

	req := httptest.NewRequest("POST", target, bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Player-ID", "bob")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("malformed body: status %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
}

func TestResignAndPromoteEndpoints(t *testing.T) {
	app, _ := newTestServer(t)
	gameID := createGame(t, app)
	call(t, app, "POST", "/api/game/join/"+gameID, "alice", nil, nil)
	call(t, app, "POST", "/api/game/join/"+gameID, "bob", nil, nil)

	promote := model.PromotionRequest{Piece: engine.Queen}
	if status := call(t, app, "POST", "/api/game/"+gameID+"/promote", "alice", promote, nil); status != fiber.StatusConflict {
		t.Errorf("promote without pending promotion: status %d, want %d", status, fiber.StatusConflict)
	}

	var state model.GameState
	if status := call(t, app, "POST", "/api/game/"+gameID+"/resign", "bob", nil, &state); status != fiber.StatusOK {
		t.Fatalf("resign: status %d", status)
	}
	if state.Phase != model.PhaseOver || state.Resolve == nil || *state.Resolve != model.ResolveResignation {
		t.Errorf("phase %s resolve %v, want over by resignation", state.Phase, state.Resolve)
	}
	if state.Winner == nil || *state.Winner != engine.White {
		t.Errorf("winner = %v, want white", state.Winner)
	}
	if status := call(t, app, "POST", "/api/game/"+gameID+"/resign", "alice", nil, nil); status != fiber.StatusConflict {
		t.Errorf("resign after game over: status %d, want %d", status, fiber.StatusConflict)
	}
}

func TestJoinMatchmakingEndpoint(t *testing.T) {
	app, gm := newTestServer(t)
	if status := call(t, app, "POST", "/api/game/matchmaking/join", "alice", nil, nil); status != fiber.StatusOK {
		t.Fatalf("status %d", status)
	}
	if status := call(t, app, "POST", "/api/game/matchmaking/join", "alice", nil, nil); status != fiber.StatusConflict {
		t.Errorf("second join: status %d, want %d", status, fiber.StatusConflict)
	}
	if got := gm.QueueSize(); got != 1 {
		t.Errorf("queue size = %d, want 1", got)
	}
}
