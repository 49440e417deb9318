package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/uci"
)

func main() {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("chesscore-uci", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	cpuprofile := fs.String("cpuprofile", "", "write cpu profile to file")
	if err := cfg.Parse(fs, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// stdout belongs to the GUI.
	log.SetOutput(os.Stderr)
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine(cfg.EngineOptions()...)
	log.Printf("[UCI] difficulty=%s stalemate=%s", cfg.Difficulty, cfg.Stalemate)

	protocol := uci.New(eng)
	if err := protocol.Run(); err != nil {
		log.Printf("[UCI] %v", err)
	}
}
