package ai

import "github.com/benbeisheim/grandmaster-backend/internal/chess"

// Scores are from black's point of view: positive favours black.

// positionTables are indexed by piece type. Black reads table[row], white
// reads table[7-row], so one table serves both sides.
var positionTables = [...][chess.Size][chess.Size]int{
	chess.NoPieceType: {},
	chess.Pawn: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{50, 50, 50, 50, 50, 50, 50, 50},
		{10, 10, 20, 30, 30, 20, 10, 10},
		{5, 5, 10, 25, 25, 10, 5, 5},
		{0, 0, 0, 20, 20, 0, 0, 0},
		{5, -5, -10, 0, 0, -10, -5, 5},
		{5, 10, 10, -20, -20, 10, 10, 5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	},
	chess.Knight: {
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-30, 0, 10, 15, 15, 10, 0, -30},
		{-30, 5, 15, 20, 20, 15, 5, -30},
		{-30, 0, 15, 20, 20, 15, 0, -30},
		{-30, 5, 10, 15, 15, 10, 5, -30},
		{-40, -20, 0, 5, 5, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	},
	chess.Bishop: {
		{-20, -10, -10, -10, -10, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 10, 10, 5, 0, -10},
		{-10, 5, 5, 10, 10, 5, 5, -10},
		{-10, 0, 10, 10, 10, 10, 0, -10},
		{-10, 10, 10, 10, 10, 10, 10, -10},
		{-10, 5, 0, 0, 0, 0, 5, -10},
		{-20, -10, -10, -10, -10, -10, -10, -20},
	},
	chess.Rook: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{0, 0, 0, 5, 5, 0, 0, 0},
	},
	chess.Queen: {
		{-20, -10, -10, -5, -5, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 5, 5, 5, 0, -10},
		{-5, 0, 5, 5, 5, 5, 0, -5},
		{0, 0, 5, 5, 5, 5, 0, -5},
		{-10, 5, 5, 5, 5, 5, 0, -10},
		{-10, 0, 5, 0, 0, 0, 0, -10},
		{-20, -10, -10, -5, -5, -10, -10, -20},
	},
	chess.King: {
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-20, -30, -30, -40, -40, -30, -30, -20},
		{-10, -20, -20, -20, -20, -20, -20, -10},
		{20, 20, 0, 0, 0, 0, 20, 20},
		{20, 30, 10, 0, 0, 10, 30, 20},
	},
}

var centerSquares = [...]chess.Position{
	{Row: 3, Col: 3}, {Row: 3, Col: 4}, {Row: 4, Col: 3}, {Row: 4, Col: 4},
}

const (
	centerBonus      = 30
	developmentBonus = 20
	pawnShieldBonus  = 50
	missingKingScore = -1000
)

// Evaluate scores a position: material plus piece-square bonuses plus a
// strategic adjustment. Black contributions count positive, white negative.
func Evaluate(b *chess.Board) int {
	score := 0
	for row := 0; row < chess.Size; row++ {
		for col := 0; col < chess.Size; col++ {
			p := b[row][col]
			if p.IsEmpty() {
				continue
			}
			score += sideSign(p.Color) * pieceSquareValue(p, row, col)
		}
	}
	return score + strategicAdjustment(b)
}

func pieceSquareValue(p chess.Piece, row, col int) int {
	tableRow := row
	if p.Color == chess.White {
		tableRow = chess.Size - 1 - row
	}
	return chess.PieceValue(p.Type) + positionTables[p.Type][tableRow][col]
}

func strategicAdjustment(b *chess.Board) int {
	score := 0
	for _, pos := range centerSquares {
		if p := b.At(pos); !p.IsEmpty() {
			score += sideSign(p.Color) * centerBonus
		}
	}

	score += (developed(b, chess.Black) - developed(b, chess.White)) * developmentBonus
	score += kingSafety(b, chess.Black) - kingSafety(b, chess.White)
	return score
}

// developed counts home back-rank squares no longer holding one of color's
// pieces. It compares counts only, not which piece stood where.
func developed(b *chess.Board, color chess.Color) int {
	home := 0
	if color == chess.White {
		home = chess.Size - 1
	}
	count := 0
	for col := 0; col < chess.Size; col++ {
		if p := b[home][col]; p.IsEmpty() || p.Color != color {
			count++
		}
	}
	return count
}

// kingSafety awards a bonus per own pawn directly in front of the king,
// within one file either side.
func kingSafety(b *chess.Board, color chess.Color) int {
	king, ok := b.FindKing(color)
	if !ok {
		return missingKingScore
	}

	direction := 1
	if color == chess.White {
		direction = -1
	}
	shieldRow := king.Row + direction
	if shieldRow < 0 || shieldRow >= chess.Size {
		return 0
	}

	safety := 0
	for col := max(0, king.Col-1); col <= min(chess.Size-1, king.Col+1); col++ {
		if p := b[shieldRow][col]; p.Type == chess.Pawn && p.Color == color {
			safety += pawnShieldBonus
		}
	}
	return safety
}

func sideSign(c chess.Color) int {
	if c == chess.Black {
		return 1
	}
	return -1
}
