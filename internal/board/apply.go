package board

import "fmt"

// Apply returns the position after m. The receiver is left untouched.
//
// The move must be well formed: a piece on the origin square and distinct
// origin and destination. Anything else is a caller bug and panics; moves from
// untrusted sources go through CheckMove first.
func (p Position) Apply(m Move) Position {
	from, to := m.From(), m.To()
	piece := p.Squares[from]
	if piece == NoPiece {
		panic(fmt.Sprintf("board: apply %s: no piece on %s", m, from))
	}
	if from == to {
		panic(fmt.Sprintf("board: apply %s: origin equals destination", m))
	}

	us := piece.Color()
	them := us.Other()
	next := p
	captured := p.Squares[to]

	switch {
	case m.IsCastling(p):
		kingSide := to.File() > from.File()
		rookFrom := rookHome(us, kingSide)
		rook := NewPiece(Rook, us)
		if p.Squares[rookFrom] != rook {
			panic(fmt.Sprintf("board: apply %s: castling without a rook on %s", m, rookFrom))
		}
		rookTo := NewSquare(from.File()+sign(to.File()-from.File()), from.Rank())
		next.Squares[from] = NoPiece
		next.Squares[rookFrom] = NoPiece
		next.Squares[to] = piece
		next.Squares[rookTo] = rook
		next.CastlingRights = next.CastlingRights.WithoutColor(us)

	case m.IsPromotion():
		next.Squares[from] = NoPiece
		next.Squares[to] = m.Promotion()

	case piece.Type() == Pawn && captured == NoPiece && to == p.EnPassant:
		// The double-pushed pawn sits one rank behind the target, seen from the capturer.
		victim := NewSquare(to.File(), to.Rank()-us.Direction())
		if p.Squares[victim] == NewPiece(Pawn, them) {
			captured = p.Squares[victim]
			next.Squares[victim] = NoPiece
		}
		next.Squares[from] = NoPiece
		next.Squares[to] = piece

	default:
		next.Squares[from] = NoPiece
		next.Squares[to] = piece
	}

	next.EnPassant = NoSquare
	switch piece.Type() {
	case Pawn:
		if abs(to.Rank()-from.Rank()) == 2 {
			next.EnPassant = NewSquare(from.File(), (from.Rank()+to.Rank())/2)
		}
	case King:
		next.CastlingRights = next.CastlingRights.WithoutColor(us)
	case Rook:
		if from == rookHome(us, true) {
			next.CastlingRights = next.CastlingRights.Without(us, true)
		} else if from == rookHome(us, false) {
			next.CastlingRights = next.CastlingRights.Without(us, false)
		}
	}

	// A capture on an enemy corner removes the rook that right depended on.
	if to == rookHome(them, true) {
		next.CastlingRights = next.CastlingRights.Without(them, true)
	} else if to == rookHome(them, false) {
		next.CastlingRights = next.CastlingRights.Without(them, false)
	}

	if piece.Type() == Pawn || captured != NoPiece {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock++
	}
	if us == Black {
		next.FullMoveNumber++
	}
	next.SideToMove = them

	return next
}
