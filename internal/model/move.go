package model

import "github.com/benbeisheim/chess-rules/internal/engine"

// WSMove is a move request from a client. Promotion may be left empty, in
// which case a pawn reaching the last rank waits for a separate promote
// request.
type WSMove struct {
	From      engine.Square    `json:"from"`
	To        engine.Square    `json:"to"`
	Promotion engine.PieceType `json:"promotion,omitempty"`
}

type PromotionRequest struct {
	Piece engine.PieceType `json:"piece"`
}

type SelectRequest struct {
	Square engine.Square `json:"square"`
}

// Ply is one half-move as recorded in the move history.
type Ply struct {
	Piece          engine.Piece           `json:"piece"`
	From           engine.Square          `json:"from"`
	To             engine.Square          `json:"to"`
	CapturedPiece  *engine.Piece          `json:"capturedPiece"`
	CastleRookMove *engine.CastleRookMove `json:"castleRookMove"`
	IsEnPassant    bool                   `json:"isEnPassant"`
	Promotion      engine.PieceType       `json:"promotion,omitempty"`
	Notation       string                 `json:"notation"`
}

// Move pairs white's ply with black's reply. BlackPly is nil until black
// has moved.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

func newPly(res engine.MoveResult, notation string) *Ply {
	return &Ply{
		Piece:          res.Mover,
		From:           res.From,
		To:             res.To,
		CapturedPiece:  res.CapturedPiece,
		CastleRookMove: res.CastleRookMove,
		IsEnPassant:    res.IsEnPassant,
		Notation:       notation,
	}
}
