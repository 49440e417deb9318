package board

import (
	"errors"
	"fmt"
)

// Sentinel errors for rejected input. Use these with errors.Is().
var (
	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoPiece indicates a move whose origin square is empty.
	ErrNoPiece = errors.New("no piece on origin square")

	// ErrWrongSide indicates a move of a piece that does not belong to the side to move.
	ErrWrongSide = errors.New("piece belongs to the other side")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidSquare indicates malformed square notation.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidMove indicates malformed move notation.
	ErrInvalidMove = errors.New("invalid move notation")
)

// MoveError reports why a move was rejected. It wraps one of the sentinel
// errors above so callers can test the cause with errors.Is().
type MoveError struct {
	Move   Move
	Reason string
	Err    error
}

// Error returns the move, the cause and the optional reason.
func (e *MoveError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Move, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Move, e.Err, e.Reason)
}

// Unwrap returns the underlying sentinel error.
func (e *MoveError) Unwrap() error {
	return e.Err
}

func moveError(m Move, err error, reason string) *MoveError {
	return &MoveError{Move: m, Reason: reason, Err: err}
}
