package chess

import (
	"testing"

	"github.com/benbeisheim/grandmaster-backend/internal/testutil"
)

func TestIsKingInCheck(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		color Color
		want  bool
	}{
		{"starting position white", "", White, false},
		{"starting position black", "", Black, false},
		{"rook on open file", "4k3/8/8/8/8/8/8/4R1K1", Black, true},
		{"rook file blocked", "4k3/4p3/8/8/8/8/8/4R1K1", Black, false},
		{"knight check", "4k3/8/3N4/8/8/8/8/6K1", Black, true},
		{"pawn check", "4k3/3P4/8/8/8/8/8/6K1", Black, true},
		{"pawn straight ahead is no check", "4k3/4P3/8/8/8/8/8/6K1", Black, false},
		{"bishop check", "7k/8/8/8/8/8/8/B5K1", Black, true},
		{"kings adjacent", "8/8/8/8/8/8/5k2/6K1", White, true},
		{"missing king", "8/8/8/8/8/8/8/R5K1", Black, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewBoard()
			if tt.fen != "" {
				b = MustParseFEN(tt.fen)
			}
			if got := b.IsKingInCheck(tt.color); got != tt.want {
				t.Errorf("IsKingInCheck(%s) = %v, want %v", tt.color, got, tt.want)
			}
		})
	}
}

func TestFindKing(t *testing.T) {
	b := NewBoard()
	pos, ok := b.FindKing(White)
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, pos, Position{Row: 7, Col: 4})

	empty := MustParseFEN("8/8/8/8/8/8/8/8")
	_, ok = empty.FindKing(Black)
	testutil.AssertFalse(t, ok)
}

func TestQueenDeliversCheckmate(t *testing.T) {
	// White: Kg1, Rf1, pawns f2 g2. Black: Kg8, Bd6 covering h2, Qh5.
	b := MustParseFEN("6k1/8/3b4/7q/8/8/5PP1/5RK1")
	testutil.AssertFalse(t, b.IsKingInCheck(White), "no check before Qh2")

	from, to := Position{Row: 3, Col: 7}, Position{Row: 6, Col: 7}
	testutil.AssertTrue(t, b.IsLegalMove(from, to), "Qh5-h2")

	mated, _ := b.ApplyMove(from, to)
	testutil.AssertTrue(t, mated.IsKingInCheck(White))
	testutil.AssertTrue(t, mated.IsCheckmate(White))
	testutil.AssertFalse(t, mated.HasLegalMoves(White))
	testutil.AssertFalse(t, mated.IsCheckmate(Black))
}

func TestCheckWithEscapeIsNotMate(t *testing.T) {
	// Without the bishop guarding h2 the king simply takes the queen.
	b := MustParseFEN("6k1/8/8/8/8/8/5PPq/5RK1")
	testutil.AssertTrue(t, b.IsKingInCheck(White))
	testutil.AssertFalse(t, b.IsCheckmate(White))

	moves := b.LegalMoves(White)
	testutil.AssertEqual(t, moves, []ScoredMove{{
		Move:         Move{From: Position{Row: 7, Col: 6}, To: Position{Row: 6, Col: 7}},
		CaptureValue: 900,
	}})
}

func TestSingleEscapeAmongTwentyMoves(t *testing.T) {
	// Black is checked along the eighth rank; only Nf8 interposes.
	b := MustParseFEN("R6k/pppp1ppp/6n1/8/pp6/8/8/4K3")
	testutil.AssertTrue(t, b.IsKingInCheck(Black))

	pseudo := 0
	b.eachPseudoLegal(Black, func(from, to Position) bool {
		pseudo++
		return true
	})
	testutil.AssertEqual(t, pseudo, 20, "pseudo-legal move count")

	testutil.AssertFalse(t, b.IsCheckmate(Black))

	moves := b.LegalMoves(Black)
	testutil.AssertEqual(t, moves, []ScoredMove{{
		Move: Move{From: Position{Row: 2, Col: 6}, To: Position{Row: 0, Col: 5}},
	}})
}

func TestStalemateIsNotCheckmate(t *testing.T) {
	b := MustParseFEN("7k/5Q2/6K1/8/8/8/8/8")
	testutil.AssertFalse(t, b.IsKingInCheck(Black))
	testutil.AssertFalse(t, b.IsCheckmate(Black))
	testutil.AssertFalse(t, b.HasLegalMoves(Black))
}

func TestCheckmateImpliesCheck(t *testing.T) {
	positions := []string{
		"",
		"6k1/8/3b4/8/8/8/5PPq/5RK1",
		"R6k/pppp1ppp/6n1/8/pp6/8/8/4K3",
		"R6k/6pp/8/8/8/8/8/K7",
		"7k/5Q2/6K1/8/8/8/8/8",
	}
	for _, fen := range positions {
		b := NewBoard()
		if fen != "" {
			b = MustParseFEN(fen)
		}
		for _, c := range []Color{White, Black} {
			if b.IsCheckmate(c) && !b.IsKingInCheck(c) {
				t.Errorf("%q: %s checkmated without being in check", fen, c)
			}
		}
	}
}
