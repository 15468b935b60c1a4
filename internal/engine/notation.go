package engine

// MoveNotation returns the algebraic notation of an applied move, without
// promotion or check suffixes. before is the board the move was applied to
// and ep the en-passant target that was in effect.
func MoveNotation(before *Board, ep *Square, res MoveResult) (string, error) {
	if res.IsCastling {
		if res.To.Col > res.From.Col {
			return "O-O", nil
		}
		return "O-O-O", nil
	}

	capture := ""
	if res.CapturedPiece != nil {
		capture = "x"
	}

	if res.Mover.Type == Pawn {
		if res.From.Col != res.To.Col {
			return res.From.file() + capture + res.To.String(), nil
		}
		return res.To.String(), nil
	}

	prefix, err := disambiguation(before, ep, res)
	if err != nil {
		return "", err
	}
	return res.Mover.Type.Notation() + prefix + capture + res.To.String(), nil
}

// disambiguation returns the file, rank or both of the origin square when
// another piece of the same type and color could also reach the destination.
func disambiguation(before *Board, ep *Square, res MoveResult) (string, error) {
	sameFile, sameRank, ambiguous := false, false, false
	for _, sq := range before.Pieces(res.Mover.Color) {
		if sq == res.From || before.at(sq).Type != res.Mover.Type {
			continue
		}
		targets, err := LegalMoves(before, sq, ep)
		if err != nil {
			return "", err
		}
		for _, t := range targets {
			if t != res.To {
				continue
			}
			ambiguous = true
			if sq.Col == res.From.Col {
				sameFile = true
			}
			if sq.Row == res.From.Row {
				sameRank = true
			}
		}
	}
	switch {
	case !ambiguous:
		return "", nil
	case !sameFile:
		return res.From.file(), nil
	case !sameRank:
		return res.From.rank(), nil
	}
	return res.From.String(), nil
}

// PromotionSuffix returns "=Q" style notation for a completed promotion.
func PromotionSuffix(kind PieceType) string {
	return "=" + kind.Notation()
}

// StatusSuffix returns "#" for mate, "+" for check, or nothing.
func StatusSuffix(s GameStatus) string {
	switch {
	case s.IsCheckmate:
		return "#"
	case s.IsCheck:
		return "+"
	}
	return ""
}
