package chess

import (
	"fmt"
	"sort"
)

type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func (m Move) String() string {
	return m.From.Square() + m.To.Square()
}

// ScoredMove is a legal move together with the material worth of whatever it
// captures (0 for quiet moves).
type ScoredMove struct {
	Move
	CaptureValue int `json:"captureValue"`
}

// ApplyMove returns a copy of the board with the piece on from relocated to
// to, and the piece that stood on to (empty if none). The receiver is never
// modified. Own-king safety is not enforced here.
func (b *Board) ApplyMove(from, to Position) (Board, Piece) {
	next := *b
	if !from.InBounds() || !to.InBounds() {
		return next, Piece{}
	}
	captured := next[to.Row][to.Col]
	next[to.Row][to.Col] = next[from.Row][from.Col]
	next[from.Row][from.Col] = Piece{}
	return next, captured
}

// LegalMoves returns every move of color that does not leave its own king in
// check, captures first. Moves of equal capture value keep scan order.
func (b *Board) LegalMoves(color Color) []ScoredMove {
	var moves []ScoredMove
	b.eachPseudoLegal(color, func(from, to Position) bool {
		if m, ok := b.legal(color, from, to); ok {
			moves = append(moves, m)
		}
		return true
	})
	sortByCapture(moves)
	return moves
}

// LegalMovesFrom is LegalMoves restricted to the piece on from.
func (b *Board) LegalMovesFrom(from Position) []ScoredMove {
	piece := b.At(from)
	if piece.IsEmpty() {
		return nil
	}
	var moves []ScoredMove
	b.eachTarget(from, func(from, to Position) bool {
		if m, ok := b.legal(piece.Color, from, to); ok {
			moves = append(moves, m)
		}
		return true
	})
	sortByCapture(moves)
	return moves
}

// HasLegalMoves stops at the first legal move of color.
func (b *Board) HasLegalMoves(color Color) bool {
	found := false
	b.eachPseudoLegal(color, func(from, to Position) bool {
		_, found = b.legal(color, from, to)
		return !found
	})
	return found
}

// IsLegalMove combines the movement rules with the own-king safety filter.
func (b *Board) IsLegalMove(from, to Position) bool {
	piece := b.At(from)
	if piece.IsEmpty() || !b.IsValidMove(from, to) {
		return false
	}
	_, ok := b.legal(piece.Color, from, to)
	return ok
}

func (b *Board) legal(color Color, from, to Position) (ScoredMove, bool) {
	next, captured := b.ApplyMove(from, to)
	if next.IsKingInCheck(color) {
		return ScoredMove{}, false
	}
	return ScoredMove{
		Move:         Move{From: from, To: to},
		CaptureValue: PieceValue(captured.Type),
	}, true
}

func sortByCapture(moves []ScoredMove) {
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].CaptureValue > moves[j].CaptureValue
	})
}

// Notation renders a move for the history list, e.g. "pawne2 to e4".
func Notation(piece Piece, m Move) string {
	return fmt.Sprintf("%s%s to %s", piece.Type, m.From.Square(), m.To.Square())
}
