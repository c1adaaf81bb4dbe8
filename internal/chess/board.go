package chess

import (
	"encoding/json"
	"fmt"
)

const Size = 8

// Position addresses a square by zero-based row and column. Row 0 is black's
// back rank, row 7 is white's.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Square returns the algebraic name of the position, e.g. "e2".
func (p Position) Square() string {
	return fmt.Sprintf("%c%d", 'a'+p.Col, Size-p.Row)
}

func (p Position) String() string {
	return p.Square()
}

// ParseSquare converts an algebraic square name into a Position.
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return Position{Row: Size - int(s[1]-'0'), Col: int(s[0] - 'a')}, nil
}

// Board is an 8x8 grid of pieces. It is a plain value: assigning a Board
// copies every square, so a derived board never aliases its source.
type Board [Size][Size]Piece

var backRank = [Size]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position.
func NewBoard() Board {
	var b Board
	for col := 0; col < Size; col++ {
		b[0][col] = Piece{Type: backRank[col], Color: Black}
		b[1][col] = Piece{Type: Pawn, Color: Black}
		b[6][col] = Piece{Type: Pawn, Color: White}
		b[7][col] = Piece{Type: backRank[col], Color: White}
	}
	return b
}

// At returns the piece on pos, or the empty piece when pos is off the board.
func (b *Board) At(pos Position) Piece {
	if !pos.InBounds() {
		return Piece{}
	}
	return b[pos.Row][pos.Col]
}

// Place puts p on pos. Only for building positions; play goes through ApplyMove.
func (b *Board) Place(pos Position, p Piece) {
	b[pos.Row][pos.Col] = p
}

func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, Size)
	for row := 0; row < Size; row++ {
		rows[row] = make([]*Piece, Size)
		for col := 0; col < Size; col++ {
			if p := b[row][col]; !p.IsEmpty() {
				rows[row][col] = &p
			}
		}
	}
	return json.Marshal(rows)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*Piece
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != Size {
		return fmt.Errorf("board has %d rows", len(rows))
	}
	var nb Board
	for row, squares := range rows {
		if len(squares) != Size {
			return fmt.Errorf("board row %d has %d squares", row, len(squares))
		}
		for col, p := range squares {
			if p != nil {
				nb[row][col] = *p
			}
		}
	}
	*b = nb
	return nil
}
