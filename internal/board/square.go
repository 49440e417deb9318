// Package board implements the chess rules: a 64-cell position, move
// generation, legality checking and FEN conversion.
package board

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Square represents a square on the chess board (0-63).
// Index is 8*rank + file, rank-major. Rank 0 is Black's back rank ("8"),
// rank 7 is White's back rank ("1"): A8=0, H8=7, A1=56, H1=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank index of the square (0-7, where 0 is the 8th rank).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '8'-sq.Rank())
}

// NewSquare creates a square from file and rank index (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// onBoard reports whether file and rank both lie in 0-7.
func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	file := int(s[0]) - 'a'
	rank := '8' - int(s[1])

	if !onBoard(file, rank) {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	return NewSquare(file, rank), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror returns the square mirrored vertically (rank -> 7-rank).
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// Offset returns the square df files and dr ranks away, and false when it
// falls off the board.
func (sq Square) Offset(df, dr int) (Square, bool) {
	file, rank := sq.File()+df, sq.Rank()+dr
	if !onBoard(file, rank) {
		return NoSquare, false
	}
	return NewSquare(file, rank), true
}

// RelativeRank returns the rank from a given color's perspective,
// 0 being that color's own back rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return 7 - sq.Rank()
	}
	return sq.Rank()
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func sign[T constraints.Signed](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
