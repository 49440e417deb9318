package board

// Movement vectors as (file, rank) steps.
var (
	knightOffsets = [8][2]int{
		{1, -2}, {2, -1}, {2, 1}, {1, 2},
		{-1, 2}, {-2, 1}, {-2, -1}, {-1, -2},
	}
	kingOffsets = [8][2]int{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
	rookDirections   = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	bishopDirections = [4][2]int{{1, -1}, {1, 1}, {-1, 1}, {-1, -1}}
	queenDirections  = [8][2]int{
		{0, -1}, {1, 0}, {0, 1}, {-1, 0},
		{1, -1}, {1, 1}, {-1, 1}, {-1, -1},
	}
)

// maxPieceMoves bounds the pseudo-legal moves of a single piece
// (a centralized queen has 27, a king at most 10).
const maxPieceMoves = 32

// MovesForPiece returns every pseudo-legal move of the piece on sq: moves that
// follow the piece's geometry and never capture a friendly piece, without
// regard to the mover's own king. Pawn moves onto the last rank appear once per
// promotion piece. An empty square yields no moves.
func (p Position) MovesForPiece(sq Square) []Move {
	return p.appendMovesForPiece(make([]Move, 0, maxPieceMoves), sq)
}

func (p Position) appendMovesForPiece(moves []Move, sq Square) []Move {
	piece := p.Squares[sq]
	if piece == NoPiece {
		return moves
	}
	c := piece.Color()

	switch piece.Type() {
	case Pawn:
		return p.appendPawnMoves(moves, sq, c)
	case Knight:
		return p.appendStepMoves(moves, sq, c, knightOffsets[:])
	case Bishop:
		return p.appendSlideMoves(moves, sq, c, bishopDirections[:])
	case Rook:
		return p.appendSlideMoves(moves, sq, c, rookDirections[:])
	case Queen:
		return p.appendSlideMoves(moves, sq, c, queenDirections[:])
	case King:
		moves = p.appendStepMoves(moves, sq, c, kingOffsets[:])
		return p.appendCastlingMoves(moves, sq, c)
	default:
		panic("board: unknown piece type " + piece.Type().String())
	}
}

// appendStepMoves adds single-step destinations (knight, king).
func (p Position) appendStepMoves(moves []Move, sq Square, c Color, offsets [][2]int) []Move {
	for _, o := range offsets {
		target, ok := sq.Offset(o[0], o[1])
		if !ok {
			continue
		}
		if victim := p.Squares[target]; victim == NoPiece || victim.Color() != c {
			moves = append(moves, NewMove(sq, target))
		}
	}
	return moves
}

// appendSlideMoves casts a ray per direction, stopping at the first piece.
func (p Position) appendSlideMoves(moves []Move, sq Square, c Color, directions [][2]int) []Move {
	for _, d := range directions {
		for target, ok := sq.Offset(d[0], d[1]); ok; target, ok = target.Offset(d[0], d[1]) {
			victim := p.Squares[target]
			if victim == NoPiece {
				moves = append(moves, NewMove(sq, target))
				continue
			}
			if victim.Color() != c {
				moves = append(moves, NewMove(sq, target))
			}
			break
		}
	}
	return moves
}

// appendCastlingMoves adds the king's two-file moves whose rights, rook and
// path are in place. Attacked transit squares are not examined.
func (p Position) appendCastlingMoves(moves []Move, sq Square, c Color) []Move {
	if sq != kingHome(c) {
		return moves
	}
	for _, kingSide := range [2]bool{true, false} {
		if !p.canCastle(c, kingSide) {
			continue
		}
		step := 2
		if !kingSide {
			step = -2
		}
		moves = append(moves, NewMove(sq, NewSquare(sq.File()+step, sq.Rank())))
	}
	return moves
}

// canCastle checks the castling preconditions other than the king's own square.
func (p Position) canCastle(c Color, kingSide bool) bool {
	if !p.CastlingRights.CanCastle(c, kingSide) {
		return false
	}
	rookSq := rookHome(c, kingSide)
	if p.Squares[rookSq] != NewPiece(Rook, c) {
		return false
	}
	return p.pathClear(kingHome(c), rookSq)
}

// appendPawnMoves adds pushes, double pushes, captures and en passant.
func (p Position) appendPawnMoves(moves []Move, sq Square, c Color) []Move {
	dir := c.Direction()

	if one, ok := sq.Offset(0, dir); ok && p.IsEmpty(one) {
		moves = appendPawnMove(moves, sq, one, c)
		if sq.Rank() == c.PawnRank() {
			if two, ok := one.Offset(0, dir); ok && p.IsEmpty(two) {
				moves = append(moves, NewMove(sq, two))
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		target, ok := sq.Offset(df, dir)
		if !ok {
			continue
		}
		victim := p.Squares[target]
		if victim != NoPiece {
			if victim.Color() != c {
				moves = appendPawnMove(moves, sq, target, c)
			}
			continue
		}
		if p.isEnPassantTarget(target, c) {
			moves = append(moves, NewMove(sq, target))
		}
	}
	return moves
}

// isEnPassantTarget reports whether a pawn of color c may capture onto the
// empty square target en passant: it must be the inherited en-passant square
// with the double-pushed enemy pawn right behind it.
func (p Position) isEnPassantTarget(target Square, c Color) bool {
	if target != p.EnPassant || p.EnPassant == NoSquare {
		return false
	}
	victim, ok := target.Offset(0, -c.Direction())
	return ok && p.Squares[victim] == NewPiece(Pawn, c.Other())
}

// appendPawnMove adds a pawn move, expanded into four promotions on the last rank.
func appendPawnMove(moves []Move, from, to Square, c Color) []Move {
	if to.Rank() != c.PromotionRank() {
		return append(moves, NewMove(from, to))
	}
	for _, pt := range PromotionTypes {
		moves = append(moves, NewPromotion(from, to, NewPiece(pt, c)))
	}
	return moves
}

// PseudoLegalMoves concatenates MovesForPiece over the color's pieces in square order.
func (p Position) PseudoLegalMoves(c Color) []Move {
	moves := make([]Move, 0, 64)
	for sq := Square(0); sq < NoSquare; sq++ {
		if piece := p.Squares[sq]; piece != NoPiece && piece.Color() == c {
			moves = p.appendMovesForPiece(moves, sq)
		}
	}
	return moves
}

// MovesForPlayer returns the legal moves of color c in generation order.
func (p Position) MovesForPlayer(c Color) []Move {
	pseudo := p.PseudoLegalMoves(c)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if p.leavesKingSafe(m, c) {
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalDestinations returns the legal moves starting on sq, promotion
// variants included. An empty square yields no moves.
func (p Position) LegalDestinations(sq Square) []Move {
	piece := p.Squares[sq]
	if piece == NoPiece {
		return nil
	}
	pseudo := p.MovesForPiece(sq)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if p.leavesKingSafe(m, piece.Color()) {
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMoves reports whether color c has at least one legal move.
func (p Position) HasLegalMoves(c Color) bool {
	var buf [maxPieceMoves]Move
	for sq := Square(0); sq < NoSquare; sq++ {
		piece := p.Squares[sq]
		if piece == NoPiece || piece.Color() != c {
			continue
		}
		for _, m := range p.appendMovesForPiece(buf[:0], sq) {
			if p.leavesKingSafe(m, c) {
				return true
			}
		}
	}
	return false
}

// leavesKingSafe reports whether playing m keeps c's king out of check.
func (p Position) leavesKingSafe(m Move, c Color) bool {
	return !p.Apply(m).IsInCheck(c)
}
