package model

import "github.com/benbeisheim/chess-rules/internal/engine"

type Player struct {
	ID    string
	Color engine.Color
}

type ClientPlayer struct {
	ID       string       `json:"name"`
	Color    engine.Color `json:"color"`
	TimeLeft int          `json:"timeLeft"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(color engine.Color) *ClientPlayer {
	if color == engine.White {
		return &p.White
	}
	return &p.Black
}

// colorOf returns the seat held by playerID.
func (p *Players) colorOf(playerID string) (engine.Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case p.White.ID == playerID:
		return engine.White, true
	case p.Black.ID == playerID:
		return engine.Black, true
	}
	return "", false
}

// MatchFoundEvent is sent to both players when the matchmaking queue pairs
// them.
type MatchFoundEvent struct {
	GameID string       `json:"gameId"`
	Color  engine.Color `json:"color"`
}
