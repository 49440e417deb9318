package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// castlingRight returns the single right for a color and side.
func castlingRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castlingRight(c, kingSide) != 0
}

// Without returns the rights with the given color's side cleared.
func (cr CastlingRights) Without(c Color, kingSide bool) CastlingRights {
	return cr &^ castlingRight(c, kingSide)
}

// WithoutColor returns the rights with both of the color's sides cleared.
func (cr CastlingRights) WithoutColor(c Color) CastlingRights {
	return cr.Without(c, true).Without(c, false)
}

// Home squares of the king and the castling rooks.
func kingHome(c Color) Square {
	return NewSquare(4, c.HomeRank())
}

func rookHome(c Color, kingSide bool) Square {
	if kingSide {
		return NewSquare(7, c.HomeRank())
	}
	return NewSquare(0, c.HomeRank())
}

// Position represents a complete chess position. It is a plain value:
// copying it yields an independent position.
type Position struct {
	// Squares holds the piece on each square, NoPiece when empty.
	Squares [64]Piece

	// Game state
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture
	FullMoveNumber int    // Full move counter, starts at 1
}

// EmptyPosition returns a position with no pieces, White to move.
func EmptyPosition() Position {
	var p Position
	p.Clear()
	return p
}

// NewPosition creates the starting position.
func NewPosition() Position {
	p := EmptyPosition()
	back := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < 8; file++ {
		p.SetFileRank(file, Black.HomeRank(), NewPiece(back[file], Black))
		p.SetFileRank(file, Black.PawnRank(), BlackPawn)
		p.SetFileRank(file, White.PawnRank(), WhitePawn)
		p.SetFileRank(file, White.HomeRank(), NewPiece(back[file], White))
	}
	p.CastlingRights = AllCastling
	return p
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for i := range p.Squares {
		p.Squares[i] = NoPiece
	}
}

// At returns the piece at the given square, or NoPiece if empty.
func (p Position) At(sq Square) Piece {
	return p.Squares[sq]
}

// AtFileRank returns the piece at (file, rank).
func (p Position) AtFileRank(file, rank int) Piece {
	return p.Squares[NewSquare(file, rank)]
}

// Set places a piece on a square; NoPiece empties it.
func (p *Position) Set(sq Square, piece Piece) {
	p.Squares[sq] = piece
}

// SetFileRank places a piece on (file, rank).
func (p *Position) SetFileRank(file, rank int, piece Piece) {
	p.Squares[NewSquare(file, rank)] = piece
}

// IsEmpty returns true if the square is empty.
func (p Position) IsEmpty(sq Square) bool {
	return p.Squares[sq] == NoPiece
}

// findKing returns the square of the color's king, or NoSquare.
func (p Position) findKing(c Color) Square {
	king := NewPiece(King, c)
	for sq := Square(0); sq < NoSquare; sq++ {
		if p.Squares[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// KingSquare returns the square of the color's king.
// A position without that king is a programming error and panics.
func (p Position) KingSquare(c Color) Square {
	sq := p.findKing(c)
	if sq == NoSquare {
		panic(fmt.Sprintf("board: no %s king on the board: %s", c, p.FEN()))
	}
	return sq
}

// Validate checks that the position satisfies the invariants the rules rely on.
func (p Position) Validate() error {
	var kings [2]int
	for sq := Square(0); sq < NoSquare; sq++ {
		piece := p.Squares[sq]
		if piece == NoPiece {
			continue
		}
		if piece > NoPiece {
			return fmt.Errorf("%w: corrupt piece value %d on %s", ErrInvalidFEN, piece, sq)
		}
		switch piece.Type() {
		case King:
			kings[piece.Color()]++
		case Pawn:
			if sq.Rank() == 0 || sq.Rank() == 7 {
				return fmt.Errorf("%w: pawn on back rank at %s", ErrInvalidFEN, sq)
			}
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("%w: white must have exactly one king", ErrInvalidFEN)
	}
	if kings[Black] != 1 {
		return fmt.Errorf("%w: black must have exactly one king", ErrInvalidFEN)
	}
	if p.EnPassant != NoSquare {
		r := p.EnPassant.Rank()
		if r != 2 && r != 5 {
			return fmt.Errorf("%w: en passant square %s on wrong rank", ErrInvalidFEN, p.EnPassant)
		}
	}
	return nil
}

// Pieces returns the squares holding pieces of the given color, in square order.
func (p Position) Pieces(c Color) []Square {
	squares := make([]Square, 0, 16)
	for sq := Square(0); sq < NoSquare; sq++ {
		if piece := p.Squares[sq]; piece != NoPiece && piece.Color() == c {
			squares = append(squares, sq)
		}
	}
	return squares
}

// Material returns the material balance (positive favors white), kings excluded.
func (p Position) Material() int {
	score := 0
	for _, piece := range p.Squares {
		if piece == NoPiece || piece.Type() == King {
			continue
		}
		if piece.Color() == White {
			score += piece.Value()
		} else {
			score -= piece.Value()
		}
	}
	return score
}

// String returns a visual representation of the position.
func (p Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 0; rank < 8; rank++ {
		fmt.Fprintf(&sb, "%d  ", 8-rank)
		for file := 0; file < 8; file++ {
			piece := p.AtFileRank(file, rank)
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	return sb.String()
}
