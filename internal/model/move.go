package model

import (
	"bytes"
	"encoding/json"

	"github.com/benbeisheim/grandmaster-backend/internal/chess"
)

// SquareRef is a board square as sent by clients: either {"row":6,"col":4}
// or the algebraic name "e2".
type SquareRef chess.Position

func (s *SquareRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		pos, err := chess.ParseSquare(name)
		if err != nil {
			return err
		}
		*s = SquareRef(pos)
		return nil
	}
	var pos chess.Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return err
	}
	*s = SquareRef(pos)
	return nil
}

type MoveRequest struct {
	From SquareRef `json:"from"`
	To   SquareRef `json:"to"`
}

func (m MoveRequest) Move() chess.Move {
	return chess.Move{From: chess.Position(m.From), To: chess.Position(m.To)}
}

type KingInCheck struct {
	Color    chess.Color    `json:"color"`
	Position chess.Position `json:"position"`
}

// CapturedPieces is keyed by the side that made the capture.
type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]chess.Piece, 0),
		Black: make([]chess.Piece, 0),
	}
}

func (c *CapturedPieces) add(by chess.Color, p chess.Piece) {
	if by == chess.White {
		c.White = append(c.White, p)
	} else {
		c.Black = append(c.Black, p)
	}
}

func (c CapturedPieces) clone() CapturedPieces {
	return CapturedPieces{
		White: append(make([]chess.Piece, 0, len(c.White)), c.White...),
		Black: append(make([]chess.Piece, 0, len(c.Black)), c.Black...),
	}
}
