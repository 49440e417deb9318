// ChessCore - play chess against the engine in a terminal
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/ui"
)

func main() {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("chesscore", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	if err := cfg.Parse(fs, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	store := openStorage(cfg)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng := engine.NewEngine(cfg.EngineOptions()...)
	session, err := ui.NewSession(cfg, eng, store, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openStorage opens the database and applies the stored preferences. The
// game still runs when storage is unavailable.
func openStorage(cfg *config.Config) *storage.Storage {
	if cfg.NoStorage {
		return nil
	}
	dir, err := cfg.StorageDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: storage unavailable: %v\n", err)
		return nil
	}
	store, err := storage.Open(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: storage unavailable: %v\n", err)
		return nil
	}

	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
		return store
	}
	cfg.ApplyPreferences(prefs)
	return store
}
