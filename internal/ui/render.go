package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// BoardPrinter draws positions as text, from the point of view of one side.
type BoardPrinter struct {
	flipped bool
}

// NewBoardPrinter creates a printer. A flipped printer puts Black at the
// bottom.
func NewBoardPrinter() *BoardPrinter {
	return &BoardPrinter{}
}

// SetFlipped sets whether the board is shown from Black's side.
func (bp *BoardPrinter) SetFlipped(flipped bool) {
	bp.flipped = flipped
}

// IsFlipped returns whether the board is shown from Black's side.
func (bp *BoardPrinter) IsFlipped() bool {
	return bp.flipped
}

// Print writes pos to w. Squares in marks are shown with '*' when empty
// and with the piece in brackets when occupied, the way destinations are
// highlighted on the graphical board.
func (bp *BoardPrinter) Print(w io.Writer, pos board.Position, lastMove board.Move, marks []board.Square) {
	marked := make(map[board.Square]bool, len(marks))
	for _, sq := range marks {
		marked[sq] = true
	}

	var sb strings.Builder
	sb.WriteString("  +------------------------+\n")
	for row := 0; row < 8; row++ {
		rank := row
		if bp.flipped {
			rank = 7 - row
		}
		fmt.Fprintf(&sb, "%d |", 8-rank)
		for col := 0; col < 8; col++ {
			file := col
			if bp.flipped {
				file = 7 - col
			}
			sq := board.NewSquare(file, rank)
			sb.WriteString(bp.cell(pos.At(sq), marked[sq], lastMove != board.NoMove && (sq == lastMove.From() || sq == lastMove.To())))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("  +------------------------+\n")
	files := "abcdefgh"
	if bp.flipped {
		files = "hgfedcba"
	}
	sb.WriteString("   ")
	for _, f := range files {
		fmt.Fprintf(&sb, " %c ", f)
	}
	sb.WriteString("\n")
	io.WriteString(w, sb.String())
}

func (bp *BoardPrinter) cell(piece board.Piece, marked, last bool) string {
	ch := "."
	if piece != board.NoPiece {
		ch = piece.String()
	}
	switch {
	case marked && piece == board.NoPiece:
		return " * "
	case marked:
		return "[" + ch + "]"
	case last:
		return "(" + ch + ")"
	default:
		return " " + ch + " "
	}
}
