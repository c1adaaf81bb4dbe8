package chess

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFEN indicates a malformed piece-placement string.
var ErrInvalidFEN = errors.New("invalid FEN placement")

var fenLetters = [...]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

// ParseFEN builds a board from the piece-placement field of a FEN string.
// Any further fields (side to move, castling, ...) are ignored since the rules
// here do not use them.
func ParseFEN(fen string) (Board, error) {
	var b Board
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return b, fmt.Errorf("%w: empty", ErrInvalidFEN)
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != Size {
		return b, fmt.Errorf("%w: %d ranks", ErrInvalidFEN, len(ranks))
	}
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			piece, ok := pieceFromLetter(c)
			if !ok {
				return b, fmt.Errorf("%w: unexpected %q", ErrInvalidFEN, c)
			}
			if col >= Size {
				return b, fmt.Errorf("%w: rank %d too long", ErrInvalidFEN, Size-row)
			}
			b[row][col] = piece
			col++
		}
		if col != Size {
			return b, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, Size-row, col)
		}
	}
	return b, nil
}

// MustParseFEN is ParseFEN for fixed positions known to be well formed.
func MustParseFEN(fen string) Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// FEN returns the piece-placement field describing the board.
func (b *Board) FEN() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < Size; col++ {
			p := b[row][col]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(letterFor(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

func pieceFromLetter(c byte) (Piece, bool) {
	color := Black
	lower := c
	if c >= 'A' && c <= 'Z' {
		color = White
		lower = c + ('a' - 'A')
	}
	for t := Pawn; t <= King; t++ {
		if fenLetters[t] == lower {
			return Piece{Type: t, Color: color}, true
		}
	}
	return Piece{}, false
}

func letterFor(p Piece) byte {
	c := fenLetters[p.Type]
	if p.Color == White {
		c -= 'a' - 'A'
	}
	return c
}
