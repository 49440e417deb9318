// Package game tracks a single game: the current position, the moves played
// and the outcome once the side to move has no legal moves.
package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/hailam/chesscore/internal/board"
)

var (
	// ErrGameOver is returned when a move is played after the game ended.
	ErrGameOver = errors.New("game is over")
	// ErrNothingToUndo is returned by Undo at the starting position.
	ErrNothingToUndo = errors.New("no moves to undo")
)

// Outcome is the result of a game.
type Outcome int

const (
	InProgress Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

// String returns the PGN result token.
func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Method is how a finished game ended.
type Method int

const (
	NoMethod Method = iota
	Checkmate
	Stalemate
)

func (m Method) String() string {
	switch m {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return ""
	}
}

// Game is a chess game played from a starting position.
type Game struct {
	start    board.Position
	position board.Position
	history  []board.Move
	outcome  Outcome
	method   Method
}

// New creates a game from the standard initial position.
func New() *Game {
	return newGame(board.NewPosition())
}

// FromFEN creates a game starting from the given FEN.
func FromFEN(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return newGame(pos), nil
}

func newGame(pos board.Position) *Game {
	g := &Game{start: pos, position: pos}
	g.checkGameEnd()
	return g
}

// Position returns the current position.
func (g *Game) Position() board.Position {
	return g.position
}

// StartPosition returns the position the game started from.
func (g *Game) StartPosition() board.Position {
	return g.start
}

// SideToMove returns the color to play.
func (g *Game) SideToMove() board.Color {
	return g.position.SideToMove
}

// LegalDestinations returns the legal moves from sq, promotions included.
func (g *Game) LegalDestinations(sq board.Square) []board.Move {
	return g.position.LegalDestinations(sq)
}

// LegalMoves returns every legal move of the side to move.
func (g *Game) LegalMoves() []board.Move {
	return g.position.MovesForPlayer(g.position.SideToMove)
}

// InCheck reports whether c is in check.
func (g *Game) InCheck(c board.Color) bool {
	return g.position.IsInCheck(c)
}

// InCheckmate reports whether c has no move that leaves its king out of
// check. Like Position.IsInCheckmate it is also true on stalemate; Outcome
// and Method tell the two apart.
func (g *Game) InCheckmate(c board.Color) bool {
	return g.position.IsInCheckmate(c)
}

// PromotionPending reports whether moving from → to is a promotion, so the
// caller has to ask which piece to promote to.
func (g *Game) PromotionPending(from, to board.Square) bool {
	for _, m := range g.position.LegalDestinations(from) {
		if m.To() == to && m.IsPromotion() {
			return true
		}
	}
	return false
}

// FindMove resolves a from/to pair to a legal move. promo is only consulted
// for promotions. A king dropped onto its own rook is read as castling.
func (g *Game) FindMove(from, to board.Square, promo board.PieceType) (board.Move, error) {
	moves := g.position.LegalDestinations(from)
	for _, m := range moves {
		if m.To() != to {
			continue
		}
		if m.IsPromotion() && m.Promotion().Type() != promo {
			continue
		}
		return m, nil
	}

	// Castling entered as king takes own rook: e1h1 → e1g1, e1a1 → e1c1.
	mover := g.position.At(from)
	target := g.position.At(to)
	if mover.Type() == board.King && target.Type() == board.Rook && target.Color() == mover.Color() {
		castleTo := from.File() + 2
		if to.File() < from.File() {
			castleTo = from.File() - 2
		}
		for _, m := range moves {
			if m.To() == board.NewSquare(castleTo, from.Rank()) {
				return m, nil
			}
		}
	}

	return board.NoMove, g.position.CheckMove(board.NewMove(from, to))
}

// Play validates and plays m. An illegal move leaves the game unchanged and
// returns a *board.MoveError.
func (g *Game) Play(m board.Move) error {
	if g.Over() {
		return ErrGameOver
	}
	if err := g.position.CheckMove(m); err != nil {
		return err
	}
	g.position = g.position.Apply(m)
	g.history = append(g.history, m)
	g.checkGameEnd()
	return nil
}

// PlayUCI parses a move in UCI notation and plays it.
func (g *Game) PlayUCI(s string) error {
	m, err := board.ParseMove(s, g.position)
	if err != nil {
		return err
	}
	return g.Play(m)
}

// PlaySAN parses a move in Standard Algebraic Notation and plays it.
func (g *Game) PlaySAN(s string) error {
	if g.Over() {
		return ErrGameOver
	}
	m, err := board.ParseSAN(s, g.position)
	if err != nil {
		return err
	}
	return g.Play(m)
}

// Undo takes back the last move by replaying the history from the start.
func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return ErrNothingToUndo
	}
	history := g.history[:len(g.history)-1]
	pos := g.start
	for _, m := range history {
		pos = pos.Apply(m)
	}
	g.position = pos
	g.history = history
	g.outcome, g.method = InProgress, NoMethod
	g.checkGameEnd()
	return nil
}

// History returns the moves played so far.
func (g *Game) History() []board.Move {
	return append([]board.Move(nil), g.history...)
}

// HistoryStrings returns the moves played so far in UCI notation.
func (g *Game) HistoryStrings() []string {
	moves := make([]string, len(g.history))
	for i, m := range g.history {
		moves[i] = m.String()
	}
	return moves
}

// HistorySAN returns the moves played so far in Standard Algebraic Notation.
func (g *Game) HistorySAN() []string {
	return board.MovesToSAN(g.start, g.history)
}

// LastMove returns the most recent move, or NoMove.
func (g *Game) LastMove() board.Move {
	if len(g.history) == 0 {
		return board.NoMove
	}
	return g.history[len(g.history)-1]
}

// FEN returns the FEN of the current position.
func (g *Game) FEN() string {
	return g.position.FEN()
}

// Outcome returns the game result.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Method returns how the game ended.
func (g *Game) Method() Method {
	return g.method
}

// Over reports whether the game has ended.
func (g *Game) Over() bool {
	return g.outcome != InProgress
}

// Description returns a human-readable result, or "" while in progress.
func (g *Game) Description() string {
	switch g.outcome {
	case WhiteWins:
		return "White wins by checkmate"
	case BlackWins:
		return "Black wins by checkmate"
	case Draw:
		return fmt.Sprintf("Draw by %s", g.method)
	default:
		return ""
	}
}

// checkGameEnd checks if the game is over.
func (g *Game) checkGameEnd() {
	side := g.position.SideToMove
	if g.position.HasLegalMoves(side) {
		return
	}
	if g.position.IsInCheck(side) {
		g.method = Checkmate
		if side == board.White {
			g.outcome = BlackWins
		} else {
			g.outcome = WhiteWins
		}
	} else {
		g.outcome, g.method = Draw, Stalemate
	}
	log.Printf("[GAME] %s after %d moves", g.Description(), len(g.history))
}
