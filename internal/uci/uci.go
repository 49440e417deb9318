// Package uci implements the Universal Chess Interface text protocol on top
// of the engine.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position board.Position

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serializes writes to out

	// Search state, owned by the Run loop. Only the search goroutine's
	// close of searchDone crosses goroutines; mu does not guard these.
	searching  bool
	searchDone chan struct{}
	cancel     context.CancelFunc
}

// New creates a UCI handler on stdin and stdout.
func New(eng *engine.Engine) *UCI {
	return NewWithIO(eng, os.Stdin, os.Stdout)
}

// NewWithIO creates a UCI handler reading commands from in and writing
// responses to out.
func NewWithIO(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		in:       in,
		out:      out,
	}
}

// Run starts the UCI main loop. It returns after "quit", or once the input
// ends and any running search has finished.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.position.String())
			u.println("Fen: " + u.position.FEN())
		case "perft":
			u.handlePerft(args)
		default:
			log.Printf("[UCI] Unknown command: %s", line)
		}
	}

	u.waitSearch()
	return scanner.Err()
}

func (u *UCI) println(s string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessCore")
	u.println("id author ChessCore Team")
	u.println("")
	u.println("option name Difficulty type combo default medium var easy var medium var hard")
	u.println("option name Stalemate type combo default loss var loss var draw")
	u.println("uciok")
}

// handleNewGame resets the position for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	// Find "moves" keyword
	setupEnd, moveStart := len(args), len(args)
	for i, arg := range args {
		if arg == "moves" {
			setupEnd, moveStart = i, i+1
			break
		}
	}

	var pos board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		p, err := board.ParseFEN(strings.Join(args[1:setupEnd], " "))
		if err != nil {
			log.Printf("[UCI] Invalid FEN: %v", err)
			return
		}
		pos = p
	default:
		return
	}

	// Apply moves
	for _, moveStr := range args[moveStart:] {
		m, err := board.ParseMove(moveStr, pos)
		if err == nil {
			err = pos.CheckMove(m)
		}
		if err != nil {
			log.Printf("[UCI] Invalid move %s: %v", moveStr, err)
			return
		}
		pos = pos.Apply(m)
	}

	u.position = pos
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth int
}

// parseGoOptions parses "go" command arguments. Clock and node limits are
// accepted but ignored: the engine always searches to a fixed depth.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				i++
				opts.Depth, _ = strconv.Atoi(args[i])
			}
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "nodes", "mate":
			i++ // skip the value
		}
	}

	return opts
}

// calculateLimits converts GoOptions to engine.SearchLimits. Without a
// depth the engine's difficulty decides.
func (u *UCI) calculateLimits(opts GoOptions) engine.SearchLimits {
	limits := u.engine.Limits()
	if opts.Depth > 0 {
		limits.Depth = opts.Depth
	}
	return limits
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	u.handleStop()

	limits := u.calculateLimits(parseGoOptions(args))

	pos := u.position

	// Configure info callback
	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info, pos.SideToMove)
	}

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)

		res, err := u.engine.SearchWithLimits(ctx, pos, pos.SideToMove, limits)
		if err != nil && !errors.Is(err, engine.ErrSearchStopped) {
			log.Printf("[UCI] Search failed: %v", err)
		}
		u.printf("bestmove %s\n", bestMove(pos, res.Move))
	}()
}

// bestMove validates the search result, falling back to the first legal
// move when the search was stopped before finishing a single depth.
func bestMove(pos board.Position, m board.Move) board.Move {
	legal := pos.MovesForPlayer(pos.SideToMove)
	if m != board.NoMove && board.ContainsMove(legal, m) {
		return m
	}
	if len(legal) > 0 {
		return legal[0]
	}
	// Only send 0000 for checkmate/stalemate (no legal moves)
	return board.NoMove
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo, us board.Color) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + engine.UCIScore(info.Score, us),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if info.Move != board.NoMove {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.searching {
		u.cancel()
		u.waitSearch()
	}
}

func (u *UCI) waitSearch() {
	if u.searching {
		<-u.searchDone
		u.cancel()
		u.searching = false
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	// Handle options
	switch strings.ToLower(name) {
	case "difficulty":
		d, ok := engine.ParseDifficulty(strings.ToLower(value))
		if !ok {
			log.Printf("[UCI] Unknown difficulty %q", value)
			return
		}
		u.engine.SetDifficulty(d)
	case "stalemate":
		p, ok := engine.ParseStalematePolicy(strings.ToLower(value))
		if !ok {
			log.Printf("[UCI] Unknown stalemate policy %q", value)
			return
		}
		u.engine.SetStalematePolicy(p)
	default:
		log.Printf("[UCI] Unknown option %q", name)
	}
}

// handlePerft runs a perft test, printing the count below each root move.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}

	start := time.Now()
	var nodes uint64
	for _, entry := range u.engine.Divide(u.position, depth) {
		u.printf("%s: %d\n", entry.Move, entry.Nodes)
		nodes += entry.Nodes
	}
	elapsed := time.Since(start)

	u.println("")
	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}
