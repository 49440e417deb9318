package board

import "fmt"

// Move encodes a chess move in 16 bits of a uint32:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-15: promotion piece + 1 (0 = no promotion)
type Move uint32

// NoMove represents an invalid or null move. It decodes as a8a8, which no
// generator ever produces.
const NoMove Move = 0

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move to the given piece (already colored).
func NewPromotion(from, to Square, promo Piece) Move {
	return Move(from) | Move(to)<<6 | Move(promo+1)<<12
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Promotion returns the promoted piece, or NoPiece for other moves.
func (m Move) Promotion() Piece {
	p := (m >> 12) & 0xF
	if p == 0 {
		return NoPiece
	}
	return Piece(p - 1)
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion() != NoPiece
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		s += string(m.Promotion().Type().Char())
	}

	return s
}

// ParseMove parses a UCI format move string. The position supplies the
// mover's color for promotion suffixes; the move is not validated.
func ParseMove(s string, pos Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}

	if len(s) == 5 {
		pt := PieceTypeFromChar(s[4])
		if !pt.IsPromotionTarget() {
			return NoMove, fmt.Errorf("%w: invalid promotion piece %q", ErrInvalidMove, s[4])
		}
		mover := pos.At(from)
		if mover == NoPiece {
			return NoMove, fmt.Errorf("%w: no piece at %s", ErrInvalidMove, from)
		}
		return NewPromotion(from, to, NewPiece(pt, mover.Color())), nil
	}

	return NewMove(from, to), nil
}

// IsCapture reports whether the move removes an enemy piece, en passant included.
func (m Move) IsCapture(pos Position) bool {
	if !pos.IsEmpty(m.To()) {
		return true
	}
	return pos.At(m.From()).Type() == Pawn && m.To() == pos.EnPassant && m.From().File() != m.To().File()
}

// IsCastling reports whether the move is a king moving two files on its home rank.
func (m Move) IsCastling(pos Position) bool {
	p := pos.At(m.From())
	return p.Type() == King &&
		m.From().Rank() == p.Color().HomeRank() &&
		m.From().Rank() == m.To().Rank() &&
		abs(m.To().File()-m.From().File()) == 2
}

// ContainsMove reports whether moves contains m.
func ContainsMove(moves []Move, m Move) bool {
	for _, mv := range moves {
		if mv == m {
			return true
		}
	}
	return false
}
