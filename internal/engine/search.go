package engine

import (
	"errors"
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// Infinity bounds the alpha-beta window. It is larger than any score the
// evaluator can produce.
const Infinity = 1 << 30

// ErrSearchStopped is reported when a search is cancelled before it
// finishes. Its partial result must not be played.
var ErrSearchStopped = errors.New("search stopped")

// Searcher performs a depth-limited minimax search with alpha-beta pruning.
// White maximizes and Black minimizes. A Searcher is not safe for
// concurrent use; create one per search.
type Searcher struct {
	eval     Evaluator
	nodes    uint64
	stopFlag *atomic.Bool
	stopped  bool
}

// NewSearcher creates a searcher. stop may be nil; when set, the search
// polls it between moves and unwinds once it becomes true.
func NewSearcher(eval Evaluator, stop *atomic.Bool) *Searcher {
	return &Searcher{eval: eval, stopFlag: stop}
}

// Nodes returns the number of nodes visited so far.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Stopped reports whether the last search was cut short.
func (s *Searcher) Stopped() bool {
	return s.stopped
}

// Search runs Minimax with a full window.
func (s *Searcher) Search(pos board.Position, depth int, c board.Color) (board.Move, int) {
	s.stopped = false
	return s.Minimax(pos, depth, c, -Infinity, Infinity)
}

// Minimax returns the best move for c and its score, searching depth plies.
// At depth 0 it returns NoMove and the static evaluation. A later move only
// replaces the best one when it scores strictly better, so ties keep the
// earliest move in generation order.
func (s *Searcher) Minimax(pos board.Position, depth int, c board.Color, alpha, beta int) (board.Move, int) {
	s.nodes++
	if depth <= 0 {
		return board.NoMove, s.eval.Evaluate(pos, c)
	}

	moves := pos.MovesForPlayer(c)
	if len(moves) == 0 {
		return board.NoMove, s.eval.terminal(pos, c)
	}

	maximizing := c == board.White
	bestMove := board.NoMove
	bestScore := Infinity
	if maximizing {
		bestScore = -Infinity
	}

	for _, m := range moves {
		if s.shouldStop() {
			break
		}
		_, score := s.Minimax(pos.Apply(m), depth-1, c.Other(), alpha, beta)

		if maximizing {
			if score > bestScore {
				bestScore, bestMove = score, m
			}
			alpha = max(alpha, bestScore)
		} else {
			if score < bestScore {
				bestScore, bestMove = score, m
			}
			beta = min(beta, bestScore)
		}

		if beta <= alpha {
			break
		}
	}

	return bestMove, bestScore
}

func (s *Searcher) shouldStop() bool {
	if s.stopped {
		return true
	}
	if s.stopFlag != nil && s.stopFlag.Load() {
		s.stopped = true
	}
	return s.stopped
}
