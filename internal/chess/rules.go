package chess

// IsValidMove reports whether the piece on from may travel to to under the
// movement rules. It does not look at the safety of the mover's own king.
func (b *Board) IsValidMove(from, to Position) bool {
	if !from.InBounds() || !to.InBounds() || from == to {
		return false
	}
	piece := b.At(from)
	if piece.IsEmpty() {
		return false
	}
	target := b.At(to)
	if !target.IsEmpty() && target.Color == piece.Color {
		return false
	}

	rowDiff := abs(to.Row - from.Row)
	colDiff := abs(to.Col - from.Col)

	switch piece.Type {
	case Pawn:
		return b.isValidPawnMove(piece.Color, from, to, target)
	case Knight:
		return (rowDiff == 2 && colDiff == 1) || (rowDiff == 1 && colDiff == 2)
	case Bishop:
		return rowDiff == colDiff && b.IsPathClear(from, to)
	case Rook:
		return (rowDiff == 0 || colDiff == 0) && b.IsPathClear(from, to)
	case Queen:
		return (rowDiff == 0 || colDiff == 0 || rowDiff == colDiff) && b.IsPathClear(from, to)
	case King:
		return rowDiff <= 1 && colDiff <= 1
	}
	return false
}

func (b *Board) isValidPawnMove(color Color, from, to Position, target Piece) bool {
	direction, startRow := -1, 6
	if color == Black {
		direction, startRow = 1, 1
	}

	if from.Col == to.Col {
		if !target.IsEmpty() {
			return false
		}
		if to.Row == from.Row+direction {
			return true
		}
		middle := Position{Row: from.Row + direction, Col: from.Col}
		return from.Row == startRow && to.Row == from.Row+2*direction && b.At(middle).IsEmpty()
	}

	// diagonal steps are captures only
	return abs(to.Col-from.Col) == 1 && to.Row == from.Row+direction && !target.IsEmpty()
}

// IsPathClear walks from toward to one square at a time and reports whether
// every square strictly between them is empty. Only straight and diagonal
// lines are meaningful.
func (b *Board) IsPathClear(from, to Position) bool {
	rowStep := sign(to.Row - from.Row)
	colStep := sign(to.Col - from.Col)

	current := Position{Row: from.Row + rowStep, Col: from.Col + colStep}
	for current != to {
		if !current.InBounds() {
			return false
		}
		if !b.At(current).IsEmpty() {
			return false
		}
		current = Position{Row: current.Row + rowStep, Col: current.Col + colStep}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
