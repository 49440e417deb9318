package board

// IsMoveLegal checks a move against the movement rules of the piece on its
// origin square, independently of the generator: geometry, path clearance,
// pawn push and capture rules, en passant, castling preconditions and
// promotion. It does not look at check; see CheckMove for the full test.
func (p Position) IsMoveLegal(m Move) bool {
	from, to := m.From(), m.To()
	if from == to {
		return false
	}
	piece := p.Squares[from]
	if piece == NoPiece {
		return false
	}
	c := piece.Color()
	target := p.Squares[to]
	if target != NoPiece && target.Color() == c {
		return false
	}

	df := to.File() - from.File()
	dr := to.Rank() - from.Rank()

	if piece.Type() != Pawn && m.IsPromotion() {
		return false
	}

	switch piece.Type() {
	case Pawn:
		return p.isPawnMoveLegal(m, c, df, dr)
	case Knight:
		return (abs(df) == 1 && abs(dr) == 2) || (abs(df) == 2 && abs(dr) == 1)
	case Bishop:
		return abs(df) == abs(dr) && p.pathClear(from, to)
	case Rook:
		return (df == 0 || dr == 0) && p.pathClear(from, to)
	case Queen:
		return (df == 0 || dr == 0 || abs(df) == abs(dr)) && p.pathClear(from, to)
	case King:
		if abs(df) <= 1 && abs(dr) <= 1 {
			return true
		}
		if dr != 0 || abs(df) != 2 || from != kingHome(c) {
			return false
		}
		return p.canCastle(c, df > 0)
	default:
		return false
	}
}

func (p Position) isPawnMoveLegal(m Move, c Color, df, dr int) bool {
	from, to := m.From(), m.To()
	dir := c.Direction()

	promo := m.Promotion()
	if (to.Rank() == c.PromotionRank()) != (promo != NoPiece) {
		return false
	}
	if promo != NoPiece && (!promo.Type().IsPromotionTarget() || promo.Color() != c) {
		return false
	}

	switch {
	case df == 0 && dr == dir:
		return p.IsEmpty(to)
	case df == 0 && dr == 2*dir:
		middle := NewSquare(from.File(), from.Rank()+dir)
		return from.Rank() == c.PawnRank() && p.IsEmpty(middle) && p.IsEmpty(to)
	case abs(df) == 1 && dr == dir:
		if !p.IsEmpty(to) {
			return true
		}
		return p.isEnPassantTarget(to, c)
	default:
		return false
	}
}

// pathClear reports whether every square strictly between from and to is
// empty. The squares must share a rank, file or diagonal.
func (p Position) pathClear(from, to Square) bool {
	df := sign(to.File() - from.File())
	dr := sign(to.Rank() - from.Rank())
	sq, ok := from.Offset(df, dr)
	for ok && sq != to {
		if !p.IsEmpty(sq) {
			return false
		}
		sq, ok = sq.Offset(df, dr)
	}
	return ok
}

// IsInCheck reports whether c's king is attacked: some enemy piece has the
// king's square among its pseudo-legal destinations.
func (p Position) IsInCheck(c Color) bool {
	king := p.KingSquare(c)
	them := c.Other()

	var buf [maxPieceMoves]Move
	for sq := Square(0); sq < NoSquare; sq++ {
		piece := p.Squares[sq]
		if piece == NoPiece || piece.Color() != them {
			continue
		}
		for _, m := range p.appendMovesForPiece(buf[:0], sq) {
			if m.To() == king {
				return true
			}
		}
	}
	return false
}

// IsInCheckmate reports whether no pseudo-legal move of c leaves its king
// out of check. Stalemate is not told apart: a side with no legal move is
// reported as checkmated whether or not it is in check. Use IsStalemate or
// IsInCheck to separate the two.
func (p Position) IsInCheckmate(c Color) bool {
	return !p.HasLegalMoves(c)
}

// IsStalemate reports whether c has no legal move while not in check.
func (p Position) IsStalemate(c Color) bool {
	return !p.IsInCheck(c) && !p.HasLegalMoves(c)
}

// CheckMove validates a move from an untrusted source for the side to move.
// A nil error means Apply(m) is a legal continuation. Rejections are
// *MoveError values wrapping ErrNoPiece, ErrWrongSide or ErrIllegalMove.
func (p Position) CheckMove(m Move) error {
	piece := p.Squares[m.From()]
	if piece == NoPiece {
		return moveError(m, ErrNoPiece, "")
	}
	if piece.Color() != p.SideToMove {
		return moveError(m, ErrWrongSide, p.SideToMove.String()+" to move")
	}
	if !p.IsMoveLegal(m) {
		if piece.Type() == Pawn && m.To().Rank() == piece.Color().PromotionRank() && !m.IsPromotion() {
			return moveError(m, ErrIllegalMove, "promotion piece required")
		}
		return moveError(m, ErrIllegalMove, "not a legal "+piece.Type().String()+" move")
	}
	if !p.leavesKingSafe(m, piece.Color()) {
		return moveError(m, ErrIllegalMove, "leaves the king in check")
	}
	return nil
}
