package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// ErrInvalidDepth is returned for searches with a depth below one.
var ErrInvalidDepth = errors.New("search depth must be at least 1")

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth int // Search depth in plies
}

// Result is the outcome of a search.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	Nodes uint64
	Time  time.Duration
	Err   error // set by SearchAsync only
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 3 ply
	Hard                     // 4 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2},
	Medium: {Depth: 3},
	Hard:   {Depth: 4},
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty converts a difficulty name to its level.
func ParseDifficulty(s string) (Difficulty, bool) {
	for d := Easy; d <= Hard; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return Medium, false
}

// Engine is the chess AI engine.
type Engine struct {
	mu         sync.Mutex
	difficulty Difficulty
	evaluator  Evaluator
	cancels    map[uint64]context.CancelFunc
	nextID     uint64

	// Callbacks
	OnInfo func(SearchInfo)
}

// Option configures an Engine.
type Option func(*Engine)

// WithDifficulty sets the initial difficulty.
func WithDifficulty(d Difficulty) Option {
	return func(e *Engine) { e.difficulty = d }
}

// WithStalematePolicy sets how stalemate is scored.
func WithStalematePolicy(p StalematePolicy) Option {
	return func(e *Engine) { e.evaluator.Stalemate = p }
}

// NewEngine creates a new chess engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		difficulty: Medium,
		cancels:    make(map[uint64]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.difficulty
}

// SetStalematePolicy changes how stalemate is scored in later searches.
func (e *Engine) SetStalematePolicy(p StalematePolicy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.evaluator.Stalemate = p
}

// Limits returns the search limits for the current difficulty.
func (e *Engine) Limits() SearchLimits {
	return DifficultySettings[e.Difficulty()]
}

// Search finds the best move for c at the current difficulty.
func (e *Engine) Search(ctx context.Context, pos board.Position, c board.Color) (Result, error) {
	return e.SearchWithLimits(ctx, pos, c, e.Limits())
}

// SearchWithLimits finds the best move for c with specific search limits.
// A search cancelled through ctx or Stop returns ErrSearchStopped.
func (e *Engine) SearchWithLimits(ctx context.Context, pos board.Position, c board.Color, limits SearchLimits) (Result, error) {
	ctx, done := e.begin(ctx)
	defer done()
	return e.run(ctx, pos, c, limits)
}

// SearchAsync runs Search on its own goroutine. The channel receives
// exactly one Result, with Err set if the search failed or was stopped.
func (e *Engine) SearchAsync(ctx context.Context, pos board.Position, c board.Color) <-chan Result {
	limits := e.Limits()
	ch := make(chan Result, 1)
	// Register before starting so a Stop issued right away is not lost.
	ctx, done := e.begin(ctx)
	go func() {
		defer done()
		res, err := e.run(ctx, pos, c, limits)
		res.Err = err
		ch <- res
	}()
	return ch
}

// Stop cancels every search in progress.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, cancel := range e.cancels {
		cancel()
	}
}

// begin registers a cancellable search context.
func (e *Engine) begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.cancels[id] = cancel
	e.mu.Unlock()
	return ctx, func() {
		e.mu.Lock()
		delete(e.cancels, id)
		e.mu.Unlock()
		cancel()
	}
}

func (e *Engine) run(ctx context.Context, pos board.Position, c board.Color, limits SearchLimits) (Result, error) {
	if limits.Depth < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidDepth, limits.Depth)
	}

	var stop atomic.Bool
	release := context.AfterFunc(ctx, func() { stop.Store(true) })
	defer release()
	// AfterFunc fires on its own goroutine, so an already cancelled
	// context is caught here.
	if ctx.Err() != nil {
		stop.Store(true)
	}

	e.mu.Lock()
	evaluator := e.evaluator
	e.mu.Unlock()

	startTime := time.Now()
	searcher := NewSearcher(evaluator, &stop)
	move, score := searcher.Search(pos, limits.Depth, c)
	elapsed := time.Since(startTime)

	if searcher.Stopped() {
		return Result{Nodes: searcher.Nodes(), Time: elapsed}, fmt.Errorf("%w: %w", ErrSearchStopped, context.Cause(ctx))
	}

	res := Result{Move: move, Score: score, Depth: limits.Depth, Nodes: searcher.Nodes(), Time: elapsed}
	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: res.Depth,
			Score: res.Score,
			Nodes: res.Nodes,
			Time:  res.Time,
			Move:  res.Move,
		})
	}
	return res, nil
}

// Perft counts the leaf nodes of the legal move tree (for debugging move generation).
func (e *Engine) Perft(pos board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.MovesForPlayer(pos.SideToMove)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		nodes += e.Perft(pos.Apply(m), depth-1)
	}
	return nodes
}

// DivideEntry is the perft count below one root move.
type DivideEntry struct {
	Move  board.Move
	Nodes uint64
}

// Divide runs Perft below each root move, in generation order.
func (e *Engine) Divide(pos board.Position, depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}
	moves := pos.MovesForPlayer(pos.SideToMove)
	entries := make([]DivideEntry, 0, len(moves))
	for _, m := range moves {
		entries = append(entries, DivideEntry{Move: m, Nodes: e.Perft(pos.Apply(m), depth-1)})
	}
	return entries
}

// Evaluate returns the evaluation of a position with c to move.
func (e *Engine) Evaluate(pos board.Position, c board.Color) int {
	e.mu.Lock()
	evaluator := e.evaluator
	e.mu.Unlock()
	return evaluator.Evaluate(pos, c)
}

// IsMateScore reports whether score is a terminal score.
func IsMateScore(score int) bool {
	return score >= MateScore || score <= -MateScore
}

// ScoreString converts a White-relative score to a human-readable string.
func ScoreString(score int) string {
	if score >= MateScore {
		return "White mates"
	}
	if score <= -MateScore {
		return "Black mates"
	}

	// Convert centipawns to pawns
	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}

// UCIScore formats a White-relative score from c's point of view for a
// UCI info line.
func UCIScore(score int, c board.Color) string {
	if c == board.Black {
		score = -score
	}
	// Mate distance is not tracked, so terminal scores go out as centipawns.
	return "cp " + strconv.Itoa(score)
}
