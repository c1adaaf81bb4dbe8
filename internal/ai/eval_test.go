package ai

import (
	"testing"

	"github.com/benbeisheim/grandmaster-backend/internal/chess"
	"github.com/benbeisheim/grandmaster-backend/internal/testutil"
)

func TestEvaluateStartingPositionIsBalanced(t *testing.T) {
	b := chess.NewBoard()
	testutil.AssertEqual(t, Evaluate(&b), 0)
}

func TestEvaluateMaterialSign(t *testing.T) {
	b := chess.NewBoard()
	noBlackQueen := b
	noBlackQueen.Place(chess.Position{Row: 0, Col: 3}, chess.Piece{})
	noWhiteQueen := b
	noWhiteQueen.Place(chess.Position{Row: 7, Col: 3}, chess.Piece{})

	testutil.AssertTrue(t, Evaluate(&noBlackQueen) < 0, "black down a queen should score negative")
	testutil.AssertTrue(t, Evaluate(&noWhiteQueen) > 0, "white down a queen should score positive")
}

func TestEvaluateComponents(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		{
			// both kings read king table row 0 and cancel out; each side has
			// seven empty home squares.
			name: "bare kings",
			fen:  "4k3/8/8/8/8/8/8/4K3",
			want: 0,
		},
		{
			// black knight on d5: 320 + table[3][3] 20 + center 30.
			name: "black knight in the center",
			fen:  "4k3/8/8/3n4/8/8/8/4K3",
			want: 320 + 20 + 30,
		},
		{
			// white pawn e4 reads table[7-4][4] = 25, plus center -30.
			name: "white pawn on e4",
			fen:  "4k3/8/8/8/4P3/8/8/4K3",
			want: -(100 + 25) - 30,
		},
		{
			// white mirrors rows, so Kg1 reads king table row 0 (-40) and the
			// f2 g2 h2 pawns read pawn table row 1 (50 each). Shield 150.
			name: "white king behind pawn shield",
			fen:  "4k3/8/8/8/8/8/5PPP/6K1",
			want: (20000 - 50) - (20000 - 40) - 3*(100+50) - 150,
		},
		{
			// black king missing: king safety -1000 for black, black back rank
			// fully developed (8) against white's 7.
			name: "missing black king",
			fen:  "8/8/8/8/8/8/8/4K3",
			want: -(20000 - 50) - 1000 + (8-7)*20,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := chess.MustParseFEN(tt.fen)
			testutil.AssertEqual(t, Evaluate(&b), tt.want)
		})
	}
}

func TestKingSafety(t *testing.T) {
	b := chess.NewBoard()
	testutil.AssertEqual(t, kingSafety(&b, chess.White), 150)
	testutil.AssertEqual(t, kingSafety(&b, chess.Black), 150)

	edge := chess.MustParseFEN("7k/6pp/8/8/8/8/8/K7")
	testutil.AssertEqual(t, kingSafety(&edge, chess.Black), 100)
	testutil.AssertEqual(t, kingSafety(&edge, chess.White), 0)
}

func TestDevelopedCountsSquaresNotPieces(t *testing.T) {
	b := chess.NewBoard()
	testutil.AssertEqual(t, developed(&b, chess.White), 0)

	b.Place(chess.Position{Row: 7, Col: 1}, chess.Piece{})
	b.Place(chess.Position{Row: 5, Col: 2}, chess.Piece{Type: chess.Knight, Color: chess.White})
	testutil.AssertEqual(t, developed(&b, chess.White), 1)

	b.Place(chess.Position{Row: 7, Col: 0}, chess.Piece{Type: chess.Rook, Color: chess.Black})
	testutil.AssertEqual(t, developed(&b, chess.White), 2, "enemy piece on home rank counts as developed")
}
