package board

import (
	"fmt"
	"strings"
)

// SAN converts a legal move to Standard Algebraic Notation.
func (m Move) SAN(pos Position) string {
	if m == NoMove {
		return "-"
	}

	from := m.From()
	to := m.To()
	piece := pos.At(from)

	if piece == NoPiece {
		return m.String() // Fallback to UCI
	}

	var sb strings.Builder

	if m.IsCastling(pos) {
		if to.File() > from.File() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m, pt))
		}

		if m.IsCapture(pos) {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion().Type()])
		}
	}

	// Check/checkmate marker
	next := pos.Apply(m)
	them := piece.Color().Other()
	// IsInCheckmate also holds on stalemate, so check is tested first.
	if next.IsInCheck(them) {
		if next.HasLegalMoves(them) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func disambiguation(pos Position, m Move, pt PieceType) string {
	from := m.From()
	to := m.To()
	us := pos.At(from).Color()

	var candidates []Square
	for _, other := range pos.MovesForPlayer(us) {
		if other.To() != to || other.From() == from {
			continue
		}
		if pos.At(other.From()).Type() == pt {
			candidates = append(candidates, other.From())
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		return string(rune('8' - from.Rank()))
	}
	return from.String()
}

// ParseSAN parses a SAN string and returns the matching legal move for the
// side to move.
func ParseSAN(s string, pos Position) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	us := pos.SideToMove
	legal := pos.MovesForPlayer(us)

	switch s {
	case "O-O", "0-0", "O-O-O", "0-0-0":
		kingSide := len(s) == 3
		for _, m := range legal {
			if m.IsCastling(pos) && (m.To().File() > m.From().File()) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
	}

	// Parse promotion
	promo := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		if idx+1 < len(s) {
			promo = PieceTypeFromChar(s[idx+1])
		}
		if !promo.IsPromotionTarget() {
			return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
		}
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	// Piece letters are uppercase; a lowercase b is a file.
	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt = PieceTypeFromChar(s[0])
		if pt == NoPieceType || pt == Pawn {
			return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int('8' - c)
		default:
			return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
		}
	}

	found := NoMove
	for _, m := range legal {
		from := m.From()
		if m.To() != dest || pos.At(from).Type() != pt {
			continue
		}
		if disambigFile >= 0 && from.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && from.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture(pos) {
			continue
		}
		// A pawn push never reads as a capture.
		if pt == Pawn && !isCapture && m.IsCapture(pos) {
			continue
		}
		if m.IsPromotion() != (promo != NoPieceType) {
			continue
		}
		if promo != NoPieceType && m.Promotion().Type() != promo {
			continue
		}
		if found != NoMove {
			return NoMove, fmt.Errorf("%w: %q is ambiguous", ErrInvalidMove, orig)
		}
		found = m
	}

	if found == NoMove {
		return NoMove, fmt.Errorf("%w: no legal move matches %q", ErrInvalidMove, orig)
	}
	return found, nil
}

// MovesToSAN converts a sequence of moves played from pos to SAN.
func MovesToSAN(pos Position, moves []Move) []string {
	result := make([]string, len(moves))
	for i, m := range moves {
		result[i] = m.SAN(pos)
		pos = pos.Apply(m)
	}
	return result
}
