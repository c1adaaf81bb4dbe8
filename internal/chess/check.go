package chess

// FindKing returns the square of color's king. The second result is false
// when that king is not on the board.
func (b *Board) FindKing(color Color) (Position, bool) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b[row][col]; p.Type == King && p.Color == color {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// IsKingInCheck reports whether any opposing piece can move onto color's
// king. A board without that king is never in check.
func (b *Board) IsKingInCheck(color Color) bool {
	king, ok := b.FindKing(color)
	if !ok {
		return false
	}
	opponent := color.Opponent()
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b[row][col]; !p.IsEmpty() && p.Color == opponent {
				if b.IsValidMove(Position{Row: row, Col: col}, king) {
					return true
				}
			}
		}
	}
	return false
}

// IsCheckmate reports whether color is in check and no move of its pieces
// gets the king out. Stalemate is not classified here.
func (b *Board) IsCheckmate(color Color) bool {
	if !b.IsKingInCheck(color) {
		return false
	}
	escape := false
	b.eachPseudoLegal(color, func(from, to Position) bool {
		next, _ := b.ApplyMove(from, to)
		if !next.IsKingInCheck(color) {
			escape = true
			return false
		}
		return true
	})
	return !escape
}

// eachPseudoLegal calls fn for every (from, to) pair that IsValidMove accepts
// for color, in row-major order of from and then to. Iteration stops when fn
// returns false.
func (b *Board) eachPseudoLegal(color Color, fn func(from, to Position) bool) {
	for fromRow := 0; fromRow < Size; fromRow++ {
		for fromCol := 0; fromCol < Size; fromCol++ {
			if p := b[fromRow][fromCol]; p.IsEmpty() || p.Color != color {
				continue
			}
			from := Position{Row: fromRow, Col: fromCol}
			if !b.eachTarget(from, fn) {
				return
			}
		}
	}
}

func (b *Board) eachTarget(from Position, fn func(from, to Position) bool) bool {
	for toRow := 0; toRow < Size; toRow++ {
		for toCol := 0; toCol < Size; toCol++ {
			to := Position{Row: toRow, Col: toCol}
			if b.IsValidMove(from, to) && !fn(from, to) {
				return false
			}
		}
	}
	return true
}
