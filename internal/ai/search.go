package ai

import "github.com/benbeisheim/grandmaster-backend/internal/chess"

const (
	// SearchDepth is how many plies the computer looks ahead.
	SearchDepth = 3

	// Infinity bounds the alpha-beta window; no evaluation reaches it.
	Infinity = 1 << 30

	// NoMovesScore is returned when the side to move has no legal move.
	// Checkmate and stalemate are not told apart.
	NoMovesScore = 10000
)

// ComputerColor is the side the engine plays. Black is the maximizing side.
const ComputerColor = chess.Black

// Result is the outcome of a search. Move is only meaningful when HasMove is
// set; PV holds the line of play leading to the scored position.
type Result struct {
	Score   int
	Move    chess.ScoredMove
	HasMove bool
	PV      []chess.Move
	Nodes   int
}

// Minimax runs a depth-limited alpha-beta search. Black moves when maximizing
// is true, white otherwise. Candidate moves are tried captures first.
func Minimax(b *chess.Board, depth, alpha, beta int, maximizing bool) Result {
	nodes := 0
	res := minimax(b, depth, alpha, beta, maximizing, &nodes)
	res.Nodes = nodes
	return res
}

func minimax(b *chess.Board, depth, alpha, beta int, maximizing bool, nodes *int) Result {
	*nodes++
	if depth == 0 {
		return Result{Score: Evaluate(b)}
	}

	side := chess.White
	if maximizing {
		side = chess.Black
	}
	moves := b.LegalMoves(side)
	if len(moves) == 0 {
		if maximizing {
			return Result{Score: -NoMovesScore}
		}
		return Result{Score: NoMovesScore}
	}

	best := Result{Score: Infinity}
	if maximizing {
		best.Score = -Infinity
	}

	for _, m := range moves {
		next, _ := b.ApplyMove(m.From, m.To)
		child := minimax(&next, depth-1, alpha, beta, !maximizing, nodes)

		if maximizing {
			if child.Score > best.Score {
				best = Result{Score: child.Score, Move: m, HasMove: true, PV: line(m.Move, child.PV)}
			}
			alpha = max(alpha, child.Score)
		} else {
			if child.Score < best.Score {
				best = Result{Score: child.Score, Move: m, HasMove: true, PV: line(m.Move, child.PV)}
			}
			beta = min(beta, child.Score)
		}
		if beta <= alpha {
			break
		}
	}
	return best
}

func line(first chess.Move, rest []chess.Move) []chess.Move {
	pv := make([]chess.Move, 0, len(rest)+1)
	pv = append(pv, first)
	return append(pv, rest...)
}

// SelectComputerMove picks black's move. When the search yields nothing it
// falls back to the most valuable capture bands, then to the first legal
// move. The boolean is false only if black has no legal move at all.
func SelectComputerMove(b *chess.Board) (chess.Move, Result, bool) {
	res := Minimax(b, SearchDepth, -Infinity, Infinity, true)
	if res.HasMove {
		return res.Move.Move, res, true
	}

	m, ok := fallbackMove(b.LegalMoves(ComputerColor))
	return m, res, ok
}

func fallbackMove(moves []chess.ScoredMove) (chess.Move, bool) {
	if len(moves) == 0 {
		return chess.Move{}, false
	}
	for _, threshold := range []int{500, 300, 0} {
		for _, m := range moves {
			if m.CaptureValue > threshold {
				return m.Move, true
			}
		}
	}
	return moves[0].Move, true
}
