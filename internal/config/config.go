// Package config holds the runtime configuration shared by the binaries.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

// ErrInvalidConfig is wrapped by every validation and flag parsing error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of a session.
type Config struct {
	Difficulty engine.Difficulty
	Stalemate  engine.StalematePolicy
	HumanColor board.Color
	TwoPlayer  bool // both sides entered at the terminal

	StartFEN  string // empty means the standard initial position
	DataDir   string // empty means the platform data directory
	NoStorage bool
	Verbose   bool

	explicit map[string]bool // flags given on the command line
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Difficulty: engine.Medium,
		Stalemate:  engine.StalemateAsLoss,
		HumanColor: board.White,
		explicit:   make(map[string]bool),
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// ParseColor converts "white" or "black" to a color.
func ParseColor(s string) (board.Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return board.White, nil
	case "black", "b":
		return board.Black, nil
	default:
		return board.NoColor, invalid("unknown color %q", s)
	}
}

// RegisterFlags adds the configuration flags to fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Func("difficulty", "engine strength: easy, medium or hard (default medium)", func(s string) error {
		d, ok := engine.ParseDifficulty(strings.ToLower(s))
		if !ok {
			return invalid("unknown difficulty %q", s)
		}
		c.Difficulty = d
		return nil
	})
	fs.Func("stalemate", "how the engine scores stalemate: loss or draw (default loss)", func(s string) error {
		p, ok := engine.ParseStalematePolicy(strings.ToLower(s))
		if !ok {
			return invalid("unknown stalemate policy %q", s)
		}
		c.Stalemate = p
		return nil
	})
	fs.Func("color", "color played by the human: white or black (default white)", func(s string) error {
		col, err := ParseColor(s)
		if err != nil {
			return err
		}
		c.HumanColor = col
		return nil
	})
	fs.BoolVar(&c.TwoPlayer, "two-player", c.TwoPlayer, "both sides are played at the terminal")
	fs.StringVar(&c.StartFEN, "fen", c.StartFEN, "start from this FEN instead of the initial position")
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "data directory (overrides $"+storage.DataDirEnv+")")
	fs.BoolVar(&c.NoStorage, "no-storage", c.NoStorage, "do not load or save preferences and games")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log engine activity to stderr")
}

// Parse parses args with the flags registered on fs, remembers which
// flags were given and validates the result.
func (c *Config) Parse(fs *flag.FlagSet, args []string) error {
	// flag reports value errors with %v, so the sentinel is wrapped here.
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	fs.Visit(func(f *flag.Flag) {
		c.explicit[f.Name] = true
	})
	return c.Validate()
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, ok := engine.DifficultySettings[c.Difficulty]; !ok {
		return invalid("difficulty %d out of range", c.Difficulty)
	}
	if c.Stalemate != engine.StalemateAsLoss && c.Stalemate != engine.StalemateAsDraw {
		return invalid("stalemate policy %d out of range", c.Stalemate)
	}
	if c.HumanColor != board.White && c.HumanColor != board.Black {
		return invalid("human color %v", c.HumanColor)
	}
	if c.StartFEN != "" {
		if _, err := board.ParseFEN(c.StartFEN); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// EngineOptions returns the engine options for this configuration.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithDifficulty(c.Difficulty),
		engine.WithStalematePolicy(c.Stalemate),
	}
}

// ApplyPreferences copies stored preferences into the configuration.
// Settings given as flags win over stored ones.
func (c *Config) ApplyPreferences(prefs *storage.UserPreferences) {
	if prefs == nil {
		return
	}
	if !c.explicit["difficulty"] {
		switch prefs.Difficulty {
		case storage.DifficultyEasy:
			c.Difficulty = engine.Easy
		case storage.DifficultyHard:
			c.Difficulty = engine.Hard
		default:
			c.Difficulty = engine.Medium
		}
	}
	if !c.explicit["stalemate"] {
		c.Stalemate = engine.StalemateAsLoss
		if prefs.StalemateAsDraw {
			c.Stalemate = engine.StalemateAsDraw
		}
	}
	if !c.explicit["color"] {
		c.HumanColor = board.White
		if prefs.PlayerColor == storage.ColorBlack {
			c.HumanColor = board.Black
		}
	}
	if !c.explicit["two-player"] {
		c.TwoPlayer = prefs.GameMode == storage.ModeHumanVsHuman
	}
}

// Preferences returns prefs updated with the current settings, ready to be
// saved. A nil prefs starts from the defaults.
func (c *Config) Preferences(prefs *storage.UserPreferences) *storage.UserPreferences {
	if prefs == nil {
		prefs = storage.DefaultPreferences()
	}
	switch c.Difficulty {
	case engine.Easy:
		prefs.Difficulty = storage.DifficultyEasy
	case engine.Hard:
		prefs.Difficulty = storage.DifficultyHard
	default:
		prefs.Difficulty = storage.DifficultyMedium
	}
	prefs.StalemateAsDraw = c.Stalemate == engine.StalemateAsDraw
	prefs.PlayerColor = storage.ColorWhite
	if c.HumanColor == board.Black {
		prefs.PlayerColor = storage.ColorBlack
	}
	prefs.GameMode = storage.ModeHumanVsComputer
	if c.TwoPlayer {
		prefs.GameMode = storage.ModeHumanVsHuman
	}
	return prefs
}

// StorageDir returns the BadgerDB directory to open.
func (c *Config) StorageDir() (string, error) {
	if c.DataDir == "" {
		return storage.GetDatabaseDir()
	}
	return storage.DatabaseDir(c.DataDir)
}
