package model

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/benbeisheim/chess-rules/internal/engine"
	"github.com/gofiber/fiber/v2/log"
)

// Phase is where the current half-move stands.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseSelected          Phase = "selected"
	PhaseAwaitingPromotion Phase = "awaitingPromotion"
	PhaseOver              Phase = "over"
)

const (
	ResolveCheckmate   = "checkmate"
	ResolveStalemate   = "stalemate"
	ResolveResignation = "resignation"
)

// The Game struct focuses on a single game's state and its observers.
// All state transitions happen under mu, one at a time.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

type GameState struct {
	Version         int             `json:"version"`
	Sound           string          `json:"sound"`
	Board           *engine.Board   `json:"board"`
	ToMove          engine.Color    `json:"toMove"`
	Phase           Phase           `json:"phase"`
	MoveHistory     []Move          `json:"moveHistory"`
	CapturedPieces  CapturedPieces  `json:"capturedPieces"`
	Material        engine.Material `json:"material"`
	IsCheck         bool            `json:"isCheck"`
	SelectedSquare  *engine.Square  `json:"selectedSquare"`
	LegalMoves      []engine.Square `json:"legalMoves"`
	EnPassantTarget *engine.Square  `json:"enPassantTarget"`
	PromotionSquare *engine.Square  `json:"promotionSquare"`
	Resolve         *string         `json:"resolve"`
	Winner          *engine.Color   `json:"winner"`
	Players         Players         `json:"players"`
	LastMove        *engine.Move    `json:"lastMove"`
}

// CapturedPieces lists pieces by the color that captured them.
type CapturedPieces struct {
	White []engine.Piece `json:"white"`
	Black []engine.Piece `json:"black"`
}

func NewGame(id string, clockTime time.Duration) *Game {
	return &Game{
		ID:          id,
		state:       newGameState(clockTime),
		connections: NewGameConnections(),
		whiteClock:  NewClock(clockTime),
		blackClock:  NewClock(clockTime),
	}
}

func newGameState(clockTime time.Duration) GameState {
	board := engine.NewBoard()
	return GameState{
		Board:          board,
		ToMove:         engine.White,
		Phase:          PhaseIdle,
		MoveHistory:    make([]Move, 0),
		CapturedPieces: CapturedPieces{White: make([]engine.Piece, 0), Black: make([]engine.Piece, 0)},
		Material:       engine.CountMaterial(board),
		LegalMoves:     make([]engine.Square, 0),
		Players: Players{
			White: ClientPlayer{TimeLeft: deciseconds(clockTime)},
			Black: ClientPlayer{TimeLeft: deciseconds(clockTime)},
		},
	}
}

// AddPlayer seats playerID in the first free seat, white first. A player
// who is already seated gets their existing color back.
func (g *Game) AddPlayer(playerID string) (engine.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.state.Players.colorOf(playerID); ok {
		return color, nil
	}
	for _, color := range []engine.Color{engine.White, engine.Black} {
		seat := g.state.Players.seat(color)
		if seat.ID == "" {
			seat.ID = playerID
			seat.Color = color
			log.Infof("game %s: player %s seated as %s", g.ID, playerID, color)
			g.publish()
			return color, nil
		}
	}
	return "", ErrGameFull
}

// GetState returns a snapshot that is safe to read after the lock is
// released.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.state.Players.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// actor checks that playerID may act now and returns their color.
func (g *Game) actor(playerID string) (engine.Color, error) {
	if g.state.Phase == PhaseOver {
		return "", ErrGameOver
	}
	color, ok := g.state.Players.colorOf(playerID)
	if !ok {
		return "", ErrNotInGame
	}
	if color != g.state.ToMove {
		return "", ErrNotYourTurn
	}
	return color, nil
}

// Select records sq as the selected square and returns its legal moves.
// Selecting an empty or enemy square clears the selection and fails.
func (g *Game) Select(playerID string, sq engine.Square) ([]engine.Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, err := g.actor(playerID)
	if err != nil {
		return nil, err
	}
	if g.state.Phase == PhaseAwaitingPromotion {
		return nil, ErrAwaitingPromotion
	}
	if !sq.Valid() {
		return nil, fmt.Errorf("%w: %v", engine.ErrInvalidSquare, sq)
	}

	piece := g.state.Board.At(sq)
	if piece == nil || piece.Color != color {
		g.clearSelection()
		g.publish()
		if piece == nil {
			return nil, fmt.Errorf("%w: %v", engine.ErrNoPieceAtSource, sq)
		}
		return nil, fmt.Errorf("%w: %v", engine.ErrWrongTurn, sq)
	}

	moves, err := engine.LegalMoves(g.state.Board, sq, g.state.EnPassantTarget)
	if err != nil {
		return nil, err
	}
	g.state.SelectedSquare = &sq
	g.state.LegalMoves = moves
	g.state.Phase = PhaseSelected
	g.publish()
	return slices.Clone(moves), nil
}

func (g *Game) clearSelection() {
	g.state.SelectedSquare = nil
	g.state.LegalMoves = make([]engine.Square, 0)
	if g.state.Phase == PhaseSelected {
		g.state.Phase = PhaseIdle
	}
}

// MakeMove validates and commits a move for playerID. Legality is derived
// again from the current board; a previously returned selection is never
// trusted.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	mover, err := g.actor(playerID)
	if err != nil {
		return err
	}
	if g.state.Phase == PhaseAwaitingPromotion {
		return ErrAwaitingPromotion
	}
	if move.Promotion != "" && !move.Promotion.IsPromotionChoice() {
		return fmt.Errorf("%w: %q", engine.ErrInvalidPromotion, move.Promotion)
	}

	board, ep := g.state.Board, g.state.EnPassantTarget
	v, err := engine.ValidateMove(board, move.From, move.To, mover, ep)
	if err != nil {
		return err
	}
	if !v.Valid {
		return fmt.Errorf("%w: %w", ErrIllegalMove, v.Reason.Err())
	}

	res, err := engine.ApplyMove(board, move.From, move.To, ep)
	if err != nil {
		return err
	}
	notation, err := engine.MoveNotation(board, ep, res)
	if err != nil {
		return err
	}
	ply := newPly(res, notation)
	next := res.Board
	nextEP := engine.ComputeEnPassantTarget(next, move.From, move.To)

	var status engine.GameStatus
	switch {
	case res.IsPromotion && move.Promotion != "":
		next, status, err = engine.CompletePromotion(next, move.To, move.Promotion, mover)
		if err != nil {
			return err
		}
		nextEP = nil
		ply.Promotion = move.Promotion
		ply.Notation += engine.PromotionSuffix(move.Promotion)
	case !res.IsPromotion:
		status, err = engine.GetGameStatus(next, mover.Opponent(), nextEP)
		if err != nil {
			return err
		}
	}

	log.Debugf("game %s: %s plays %s", g.ID, mover, ply.Notation)
	g.clockFor(mover).Stop()
	g.state.Board = next
	g.state.EnPassantTarget = nextEP
	g.state.LastMove = &engine.Move{From: move.From, To: move.To}
	g.clearSelection()
	if res.CapturedPiece != nil {
		g.addCaptured(mover, *res.CapturedPiece)
	}
	g.state.Sound = soundFor(res)

	// Both clocks stay stopped until the piece is chosen. The mover cannot
	// be in check after a legal move and the opponent's status is not known
	// yet, so no side is reported in check.
	if res.IsPromotion && move.Promotion == "" {
		g.recordPly(mover, ply)
		g.state.IsCheck = false
		g.state.PromotionSquare = &move.To
		g.state.Phase = PhaseAwaitingPromotion
		g.state.Material = engine.CountMaterial(next)
		g.publish()
		return nil
	}

	g.finishTurn(mover, ply, status)
	return nil
}

// Promote completes a pending promotion with the chosen piece.
func (g *Game) Promote(playerID string, kind engine.PieceType) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	mover, err := g.actor(playerID)
	if err != nil {
		return err
	}
	if g.state.Phase != PhaseAwaitingPromotion || g.state.PromotionSquare == nil {
		return ErrNoPendingPromotion
	}

	next, status, err := engine.CompletePromotion(g.state.Board, *g.state.PromotionSquare, kind, mover)
	if err != nil {
		return err
	}

	ply := g.popPly(mover)
	ply.Promotion = kind
	ply.Notation += engine.PromotionSuffix(kind)

	g.state.Board = next
	g.state.EnPassantTarget = nil
	g.state.PromotionSquare = nil
	g.finishTurn(mover, ply, status)
	return nil
}

// Resign ends the game in the opponent's favour. A player may resign on
// either side's turn.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Phase == PhaseOver {
		return ErrGameOver
	}
	color, ok := g.state.Players.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	winner := color.Opponent()
	g.endGame(ResolveResignation, &winner)
	g.publish()
	return nil
}

// finishTurn records ply, hands the move to the opponent and applies the
// opponent's status.
func (g *Game) finishTurn(mover engine.Color, ply *Ply, status engine.GameStatus) {
	ply.Notation += engine.StatusSuffix(status)
	g.recordPly(mover, ply)

	g.state.ToMove = mover.Opponent()
	g.state.IsCheck = status.IsCheck
	g.state.Material = engine.CountMaterial(g.state.Board)
	g.state.Phase = PhaseIdle
	if status.IsCheck {
		g.state.Sound = "check"
	}

	switch {
	case status.IsCheckmate:
		g.endGame(ResolveCheckmate, &mover)
	case status.IsStalemate:
		g.endGame(ResolveStalemate, nil)
	default:
		g.clockFor(g.state.ToMove).Start()
	}
	g.publish()
}

func (g *Game) endGame(resolve string, winner *engine.Color) {
	g.whiteClock.Stop()
	g.blackClock.Stop()
	g.state.Resolve = &resolve
	g.state.Winner = winner
	g.state.Phase = PhaseOver
	g.state.SelectedSquare = nil
	g.state.LegalMoves = make([]engine.Square, 0)
	g.state.Sound = "gameOver"
	log.Infof("game %s: over by %s", g.ID, resolve)
}

// recordPly stores ply in the history. Entries are replaced, never
// modified, because snapshots share them.
func (g *Game) recordPly(mover engine.Color, ply *Ply) {
	if mover == engine.White {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{WhitePly: ply})
		return
	}
	last := len(g.state.MoveHistory) - 1
	if last < 0 {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{BlackPly: ply})
		return
	}
	g.state.MoveHistory[last] = Move{WhitePly: g.state.MoveHistory[last].WhitePly, BlackPly: ply}
}

// popPly removes mover's latest ply from the history and returns a copy.
func (g *Game) popPly(mover engine.Color) *Ply {
	last := len(g.state.MoveHistory) - 1
	entry := g.state.MoveHistory[last]
	var ply Ply
	if mover == engine.White {
		ply = *entry.WhitePly
		g.state.MoveHistory = g.state.MoveHistory[:last]
	} else {
		ply = *entry.BlackPly
		g.state.MoveHistory[last] = Move{WhitePly: entry.WhitePly}
	}
	return &ply
}

func (g *Game) addCaptured(by engine.Color, piece engine.Piece) {
	if by == engine.White {
		g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, piece)
		return
	}
	g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, piece)
}

func (g *Game) clockFor(color engine.Color) *Clock {
	if color == engine.White {
		return g.whiteClock
	}
	return g.blackClock
}

func soundFor(res engine.MoveResult) string {
	switch {
	case res.IsPromotion:
		return "promote"
	case res.IsCastling:
		return "castle"
	case res.CapturedPiece != nil:
		return "capture"
	}
	return "move"
}

// snapshot copies every slice so the result can be marshalled while the
// game keeps changing. Boards are never modified once stored, so they are
// shared.
func (g *Game) snapshot() GameState {
	s := g.state
	s.MoveHistory = slices.Clone(g.state.MoveHistory)
	s.LegalMoves = slices.Clone(g.state.LegalMoves)
	s.CapturedPieces = CapturedPieces{
		White: slices.Clone(g.state.CapturedPieces.White),
		Black: slices.Clone(g.state.CapturedPieces.Black),
	}
	s.Players.White.TimeLeft = deciseconds(g.whiteClock.GetTimeLeft())
	s.Players.Black.TimeLeft = deciseconds(g.blackClock.GetTimeLeft())
	return s
}

// publish bumps the state version and broadcasts a snapshot.
func (g *Game) publish() {
	g.state.Version++
	go g.broadcastState(g.snapshot())
}
