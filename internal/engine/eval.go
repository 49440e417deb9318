// Package engine implements position evaluation and the minimax search.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// MateScore is the magnitude of a terminal score. A mated White scores
// -MateScore, a mated Black +MateScore.
const MateScore = 1_000_000

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Piece values array for quick lookup
var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Piece-square tables, indexed by PieceType then square. Row 0 is the 8th
// rank: the tables are written from White's side of the board and Black
// reads them mirrored.
var pieceSquareTables = [6][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	board.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	board.Rook: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	},
	board.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	board.King: {
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	},
}

// StalematePolicy decides how a side with no legal moves that is not in
// check is scored.
type StalematePolicy int

const (
	// StalemateAsLoss scores every position without legal moves like
	// checkmate. This is the long-standing behavior; it makes the engine
	// avoid stalemating its opponent and walk into stalemates itself.
	StalemateAsLoss StalematePolicy = iota

	// StalemateAsDraw scores stalemate as 0.
	StalemateAsDraw
)

// String returns the policy name used in configuration.
func (p StalematePolicy) String() string {
	switch p {
	case StalemateAsLoss:
		return "loss"
	case StalemateAsDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// ParseStalematePolicy converts a configuration name to a policy.
func ParseStalematePolicy(s string) (StalematePolicy, bool) {
	switch s {
	case "loss":
		return StalemateAsLoss, true
	case "draw":
		return StalemateAsDraw, true
	default:
		return StalemateAsLoss, false
	}
}

// TerminalScore is the score of a position in which c has been mated.
func TerminalScore(c board.Color) int {
	if c == board.White {
		return -MateScore
	}
	return MateScore
}

// Evaluator scores positions from White's point of view.
type Evaluator struct {
	Stalemate StalematePolicy
}

// Evaluate scores pos with toMove to play using the default policy.
func Evaluate(pos board.Position, toMove board.Color) int {
	return Evaluator{}.Evaluate(pos, toMove)
}

// Evaluate returns the terminal score when toMove cannot move, and the
// material plus piece-square sum otherwise.
func (e Evaluator) Evaluate(pos board.Position, toMove board.Color) int {
	if !pos.HasLegalMoves(toMove) {
		return e.terminal(pos, toMove)
	}
	return Static(pos)
}

// terminal scores a position where c has no legal moves.
func (e Evaluator) terminal(pos board.Position, c board.Color) int {
	if e.Stalemate == StalemateAsDraw && !pos.IsInCheck(c) {
		return 0
	}
	return TerminalScore(c)
}

// Static returns the material and positional balance, ignoring mate.
func Static(pos board.Position) int {
	score := 0
	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		piece := pos.At(sq)
		if piece == board.NoPiece {
			continue
		}
		v := pieceValues[piece.Type()] + pieceSquareBonus(piece, sq)
		if piece.Color() == board.White {
			score += v
		} else {
			score -= v
		}
	}
	return score
}

// pieceSquareBonus reads the table for the piece, mirrored for Black.
func pieceSquareBonus(piece board.Piece, sq board.Square) int {
	if piece.Color() == board.Black {
		sq = sq.Mirror()
	}
	return pieceSquareTables[piece.Type()][sq]
}
