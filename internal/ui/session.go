// Package ui implements the interactive terminal game.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/diagram"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// errQuit ends the command loop.
var errQuit = errors.New("quit")

// Session is one terminal game between a human and the engine, or between
// two humans sharing the terminal.
type Session struct {
	cfg     *config.Config
	engine  *engine.Engine
	storage *storage.Storage // nil when running without persistence
	prefs   *storage.UserPreferences

	game     *game.Game
	printer  *BoardPrinter
	started  time.Time
	recorded bool

	in  *bufio.Scanner
	out io.Writer
}

// NewSession creates a session reading commands from in and writing to out.
// store may be nil.
func NewSession(cfg *config.Config, eng *engine.Engine, store *storage.Storage, in io.Reader, out io.Writer) (*Session, error) {
	s := &Session{
		cfg:     cfg,
		engine:  eng,
		storage: store,
		printer: NewBoardPrinter(),
		in:      bufio.NewScanner(in),
		out:     out,
	}
	s.loadPreferences()
	if err := s.newGame(); err != nil {
		return nil, err
	}
	return s, nil
}

// Game returns the game in progress.
func (s *Session) Game() *game.Game {
	return s.game
}

// loadPreferences loads user preferences from storage.
func (s *Session) loadPreferences() {
	s.prefs = storage.DefaultPreferences()
	if s.storage == nil {
		return
	}
	prefs, err := s.storage.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
		return
	}
	s.prefs = prefs
}

// savePreferences saves current preferences to storage.
func (s *Session) savePreferences() {
	if s.storage == nil {
		return
	}
	s.prefs = s.cfg.Preferences(s.prefs)
	s.prefs.LastPlayed = time.Now()
	if err := s.storage.SavePreferences(s.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
}

func (s *Session) newGame() error {
	g := game.New()
	if s.cfg.StartFEN != "" {
		var err error
		if g, err = game.FromFEN(s.cfg.StartFEN); err != nil {
			return err
		}
	}
	s.game = g
	s.started = time.Now()
	s.recorded = false
	s.printer.SetFlipped(!s.cfg.TwoPlayer && s.cfg.HumanColor == board.Black)
	return nil
}

func (s *Session) computerToMove() bool {
	return !s.cfg.TwoPlayer && !s.game.Over() && s.game.SideToMove() != s.cfg.HumanColor
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// readLine prints prompt and returns the next input line.
func (s *Session) readLine(prompt string) (string, bool) {
	s.printf("%s", prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// Run plays until the input ends, the user quits or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer s.savePreferences()

	s.welcome()
	s.showBoard(nil)
	if err := s.afterMove(ctx); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, ok := s.readLine(s.prompt())
		if !ok {
			return s.in.Err()
		}
		if line == "" {
			continue
		}
		err := s.execute(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) welcome() {
	s.printf("chesscore: type a move like e2e4, or 'help'.\n")
	if s.storage == nil {
		return
	}
	first, err := s.storage.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: Failed to check first launch: %v", err)
		return
	}
	if !first {
		s.printf("Welcome back, %s.\n", s.prefs.Username)
		return
	}
	if name, ok := s.readLine("What is your name? "); ok && name != "" {
		s.prefs.Username = name
	}
	if err := s.storage.MarkFirstLaunchComplete(); err != nil {
		log.Printf("Warning: Failed to mark first launch complete: %v", err)
	}
}

func (s *Session) prompt() string {
	if s.game.Over() {
		return "game over> "
	}
	return fmt.Sprintf("%s> ", strings.ToLower(s.game.SideToMove().String()))
}

func (s *Session) showBoard(marks []board.Square) {
	s.printer.Print(s.out, s.game.Position(), s.game.LastMove(), marks)
	switch {
	case s.game.Over():
		s.printf("%s (%s)\n", s.game.Description(), s.game.Outcome())
	case s.game.InCheck(s.game.SideToMove()):
		s.printf("%s is in check.\n", s.game.SideToMove())
	}
}

const helpText = `Commands:
  e2e4, Nf3      play a move (UCI or SAN notation)
  moves <sq>     list the legal destinations of the piece on sq
  board          show the board
  hint           ask the engine for a move
  undo           take back your last move
  fen            print the position as FEN
  history        print the moves played
  diagram <file> save the position as .svg or .png
  level <name>   set the difficulty: easy, medium or hard
  new            start a new game
  stats          show your results
  games          list saved games
  quit           leave
`

func (s *Session) execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		s.printf("%s", helpText)
	case "quit", "exit", "q":
		return errQuit
	case "board", "b":
		s.showBoard(nil)
	case "moves":
		s.handleMoves(args)
	case "hint":
		return s.handleHint(ctx)
	case "undo":
		s.handleUndo()
	case "fen":
		s.printf("%s\n", s.game.FEN())
	case "history":
		s.printf("%s\n", formatHistory(s.game.HistorySAN(), s.game.StartPosition()))
	case "diagram":
		s.handleDiagram(args)
	case "level":
		s.handleLevel(args)
	case "new":
		if err := s.newGame(); err != nil {
			return err
		}
		s.showBoard(nil)
		return s.afterMove(ctx)
	case "stats":
		s.handleStats()
	case "games":
		s.handleGames()
	default:
		return s.handleMove(ctx, fields[0])
	}
	return nil
}

func (s *Session) handleMoves(args []string) {
	if len(args) != 1 {
		s.printf("usage: moves <square>\n")
		return
	}
	sq, err := board.ParseSquare(strings.ToLower(args[0]))
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	moves := s.game.LegalDestinations(sq)
	if len(moves) == 0 {
		s.printf("No legal moves from %s.\n", sq)
		return
	}
	seen := make(map[board.Square]bool)
	var marks []board.Square
	var names []string
	for _, m := range moves {
		if seen[m.To()] {
			continue // one entry per promotion square
		}
		seen[m.To()] = true
		marks = append(marks, m.To())
		names = append(names, m.To().String())
	}
	s.showBoard(marks)
	s.printf("%s: %s\n", sq, strings.Join(names, " "))
}

// handleMove parses and plays a move typed by the user.
func (s *Session) handleMove(ctx context.Context, text string) error {
	if s.game.Over() {
		s.printf("The game is over. Type 'new' to play again.\n")
		return nil
	}
	if s.computerToMove() {
		s.printf("It is not your turn.\n")
		return nil
	}
	from, to, ok := parseSquares(text)
	if !ok {
		return s.handleSAN(ctx, text)
	}

	promo := board.Queen
	if len(text) == 5 {
		promo = board.PieceTypeFromChar(text[4])
		if !promo.IsPromotionTarget() {
			s.printf("Illegal move: cannot promote to %q\n", text[4:])
			return nil
		}
	} else if s.game.PromotionPending(from, to) {
		var err error
		if promo, err = s.askPromotion(); err != nil {
			return err
		}
	}

	m, err := s.game.FindMove(from, to, promo)
	if err != nil {
		s.printf("Illegal move: %v\n", err)
		return nil
	}
	if err := s.game.Play(m); err != nil {
		s.printf("Illegal move: %v\n", err)
		return nil
	}
	s.showBoard(nil)
	return s.afterMove(ctx)
}

// parseSquares splits UCI-style input such as e2e4 or e7e8q.
func parseSquares(text string) (from, to board.Square, ok bool) {
	if len(text) != 4 && len(text) != 5 {
		return board.NoSquare, board.NoSquare, false
	}
	from, err := board.ParseSquare(strings.ToLower(text[0:2]))
	if err != nil {
		return board.NoSquare, board.NoSquare, false
	}
	to, err = board.ParseSquare(strings.ToLower(text[2:4]))
	if err != nil {
		return board.NoSquare, board.NoSquare, false
	}
	return from, to, true
}

// handleSAN plays input that is not in UCI form as a SAN move.
func (s *Session) handleSAN(ctx context.Context, text string) error {
	if err := s.game.PlaySAN(text); err != nil {
		if errors.Is(err, board.ErrInvalidMove) && !looksLikeSAN(text) {
			s.printf("Unknown command %q. Type 'help' for a list.\n", text)
			return nil
		}
		s.printf("Illegal move: %v\n", err)
		return nil
	}
	s.showBoard(nil)
	return s.afterMove(ctx)
}

// looksLikeSAN reports whether text could be a SAN move, so typos in
// commands are reported as unknown commands rather than illegal moves.
func looksLikeSAN(text string) bool {
	if strings.HasPrefix(text, "O-O") || strings.HasPrefix(text, "0-0") {
		return true
	}
	t := strings.TrimRight(text, "+#!?")
	if len(t) < 2 || len(t) > 7 {
		return false
	}
	_, err := board.ParseSquare(t[len(t)-2:])
	if i := strings.IndexByte(t, '='); i > 0 {
		_, err = board.ParseSquare(t[i-2 : i])
	}
	return err == nil
}

func (s *Session) askPromotion() (board.PieceType, error) {
	for {
		answer, ok := s.readLine("Promote to (q/r/b/n)? ")
		if !ok {
			if err := s.in.Err(); err != nil {
				return board.NoPieceType, err
			}
			return board.NoPieceType, errQuit
		}
		if len(answer) == 1 {
			if pt := board.PieceTypeFromChar(answer[0]); pt.IsPromotionTarget() {
				return pt, nil
			}
		}
		s.printf("Please answer q, r, b or n.\n")
	}
}

// afterMove lets the computer reply and records a finished game.
func (s *Session) afterMove(ctx context.Context) error {
	for s.computerToMove() {
		if err := s.computerMove(ctx); err != nil {
			return err
		}
	}
	if s.game.Over() && !s.recorded {
		s.recordGame()
	}
	return nil
}

func (s *Session) computerMove(ctx context.Context) error {
	pos := s.game.Position()
	log.Printf("[AI] Starting AI search - SideToMove=%v", pos.SideToMove)

	res := <-s.engine.SearchAsync(ctx, pos, pos.SideToMove)
	if res.Err != nil {
		return fmt.Errorf("engine search: %w", res.Err)
	}
	log.Printf("[AI] Received move from engine: %v depth=%d nodes=%d", res.Move, res.Depth, res.Nodes)
	if res.Move == board.NoMove {
		return nil
	}
	san := res.Move.SAN(pos)
	if err := s.game.Play(res.Move); err != nil {
		return fmt.Errorf("engine move %v: %w", res.Move, err)
	}

	s.printf("Computer plays %s (%s, %s, depth %d, %d nodes)\n",
		san, res.Move, engine.ScoreString(res.Score), res.Depth, res.Nodes)
	s.showBoard(nil)
	return nil
}

func (s *Session) handleHint(ctx context.Context) error {
	if s.game.Over() {
		s.printf("The game is over.\n")
		return nil
	}
	pos := s.game.Position()
	res := <-s.engine.SearchAsync(ctx, pos, pos.SideToMove)
	if res.Err != nil {
		return fmt.Errorf("engine search: %w", res.Err)
	}
	s.printf("Hint: %s (%s)\n", res.Move.SAN(pos), engine.ScoreString(res.Score))
	return nil
}

// handleUndo takes back the last move, and the computer's reply before it
// when playing against the engine.
func (s *Session) handleUndo() {
	plies := 1
	if !s.cfg.TwoPlayer && len(s.game.History()) >= 2 && s.game.SideToMove() == s.cfg.HumanColor {
		plies = 2
	}
	for range plies {
		if err := s.game.Undo(); err != nil {
			s.printf("%v\n", err)
			return
		}
	}
	s.recorded = false
	s.showBoard(nil)
}

// formatHistory numbers SAN moves the way score sheets do: "1. e4 e5 2. Nf3".
func formatHistory(moves []string, start board.Position) string {
	var sb strings.Builder
	number := start.FullMoveNumber
	black := start.SideToMove == board.Black
	for i, m := range moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case !black:
			fmt.Fprintf(&sb, "%d. ", number)
		case i == 0:
			fmt.Fprintf(&sb, "%d... ", number)
		}
		sb.WriteString(m)
		if black {
			number++
		}
		black = !black
	}
	return sb.String()
}

func (s *Session) handleDiagram(args []string) {
	if len(args) != 1 {
		s.printf("usage: diagram <file.svg|file.png>\n")
		return
	}
	opts := diagram.DefaultOptions()
	opts.Flip = s.printer.IsFlipped()
	opts.LastMove = s.game.LastMove()
	if err := diagram.SaveFile(args[0], s.game.Position(), opts); err != nil {
		s.printf("Could not save diagram: %v\n", err)
		return
	}
	s.printf("Saved %s\n", args[0])
}

func (s *Session) handleLevel(args []string) {
	if len(args) != 1 {
		s.printf("Difficulty: %s\n", s.engine.Difficulty())
		return
	}
	d, ok := engine.ParseDifficulty(strings.ToLower(args[0]))
	if !ok {
		s.printf("Unknown difficulty %q.\n", args[0])
		return
	}
	s.cfg.Difficulty = d
	s.engine.SetDifficulty(d)
	s.printf("Difficulty: %s\n", d)
}
