package ui

import (
	"log"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// recordGame stores the finished game and updates the player's statistics.
func (s *Session) recordGame() {
	s.recorded = true
	if s.storage == nil {
		return
	}

	prefs := s.cfg.Preferences(nil)
	duration := time.Since(s.started)

	humanWins := game.WhiteWins
	if s.cfg.HumanColor == board.Black {
		humanWins = game.BlackWins
	}
	result := storage.GameResult{
		Won:        s.game.Outcome() == humanWins,
		Draw:       s.game.Outcome() == game.Draw,
		Mode:       prefs.GameMode,
		Difficulty: prefs.Difficulty,
		Duration:   duration,
	}
	if err := s.storage.RecordGame(result); err != nil {
		log.Printf("Warning: Failed to record game: %v", err)
	}

	rec := &storage.GameRecord{
		StartFEN:   s.game.StartPosition().FEN(),
		Moves:      s.game.HistoryStrings(),
		SAN:        s.game.HistorySAN(),
		Result:     s.game.Outcome().String(),
		Method:     s.game.Method().String(),
		FinalFEN:   s.game.FEN(),
		Mode:       prefs.GameMode,
		Difficulty: prefs.Difficulty,
		HumanColor: prefs.PlayerColor,
		PlayedAt:   time.Now(),
		Duration:   duration,
	}
	id, err := s.storage.SaveGame(rec)
	if err != nil {
		log.Printf("Warning: Failed to save game: %v", err)
		return
	}
	log.Printf("[GAME] Saved game %s", id)
}

func (s *Session) handleStats() {
	if s.storage == nil {
		s.printf("Statistics are not kept without storage.\n")
		return
	}
	stats, err := s.storage.LoadStats()
	if err != nil {
		s.printf("Could not load statistics: %v\n", err)
		return
	}
	s.printf("Games: %d  Wins: %d  Losses: %d  Draws: %d  Win rate: %.0f%%\n",
		stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.GetWinRate())
	s.printf("Longest win streak: %d  Time played: %s\n",
		stats.LongestWinStrk, stats.TotalPlayTime.Round(time.Second))
}

func (s *Session) handleGames() {
	if s.storage == nil {
		s.printf("Games are not kept without storage.\n")
		return
	}
	games, err := s.storage.ListGames()
	if err != nil {
		s.printf("Could not list games: %v\n", err)
		return
	}
	if len(games) == 0 {
		s.printf("No saved games.\n")
		return
	}
	for _, rec := range games {
		s.printf("%s  %s  %-7s %-9s %d moves\n",
			rec.PlayedAt.Format("2006-01-02 15:04"), rec.ID, rec.Result, rec.Method, len(rec.Moves))
	}
}
