package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.Difficulty != DifficultyMedium {
			t.Errorf("Expected medium difficulty")
		}
		if prefs.StalemateAsDraw {
			t.Errorf("Expected stalemate scored as a loss by default")
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTemp(t)

	prefs, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, DifficultyMedium, prefs.Difficulty, "defaults when nothing is stored")

	prefs.Difficulty = DifficultyHard
	prefs.PlayerColor = ColorBlack
	prefs.StalemateAsDraw = true
	require.NoError(t, s.SavePreferences(prefs))

	loaded, err := s.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, loaded.Difficulty)
	assert.Equal(t, ColorBlack, loaded.PlayerColor)
	assert.True(t, loaded.StalemateAsDraw)
}

func TestFirstLaunch(t *testing.T) {
	s := openTemp(t)

	first, err := s.IsFirstLaunch()
	require.NoError(t, err)
	assert.True(t, first)

	require.NoError(t, s.MarkFirstLaunchComplete())
	first, err = s.IsFirstLaunch()
	require.NoError(t, err)
	assert.False(t, first)
}

func TestRecordGameUpdatesStats(t *testing.T) {
	s := openTemp(t)

	results := []GameResult{
		{Won: true, Mode: ModeHumanVsComputer, Difficulty: DifficultyEasy, Duration: time.Minute},
		{Won: true, Mode: ModeHumanVsComputer, Difficulty: DifficultyHard, Duration: time.Minute},
		{Draw: true, Mode: ModeHumanVsComputer, Duration: time.Minute},
		{Mode: ModeHumanVsHuman, Duration: time.Minute},
	}
	for _, r := range results {
		require.NoError(t, s.RecordGame(r))
	}

	stats, err := s.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.GamesPlayed)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 2, stats.LongestWinStrk)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 2, stats.WinsByMode["hvc"])
	assert.Equal(t, 1, stats.WinsByDiff["hard"])
	assert.Equal(t, 4*time.Minute, stats.TotalPlayTime)
}

func TestGameRecords(t *testing.T) {
	s := openTemp(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	second := &GameRecord{
		StartFEN: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		Moves:    []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		Result:   "0-1",
		Method:   "checkmate",
		PlayedAt: base.Add(time.Hour),
	}
	first := &GameRecord{Result: "1/2-1/2", Method: "stalemate", PlayedAt: base}

	id2, err := s.SaveGame(second)
	require.NoError(t, err)
	id1, err := s.SaveGame(first)
	require.NoError(t, err)
	assert.Less(t, id1, id2)

	loaded, err := s.LoadGame(id2)
	require.NoError(t, err)
	assert.Equal(t, second.Moves, loaded.Moves)
	assert.Equal(t, "checkmate", loaded.Method)
	assert.True(t, second.PlayedAt.Equal(loaded.PlayedAt))

	games, err := s.ListGames()
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, id1, games[0].ID)
	assert.Equal(t, id2, games[1].ID)

	_, err = s.LoadGame("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)

	require.NoError(t, s.DeleteGame(id1))
	games, err = s.ListGames()
	require.NoError(t, err)
	assert.Len(t, games, 1)
	assert.ErrorIs(t, s.DeleteGame(id1), ErrGameNotFound)
}

func TestDataPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DataDirEnv, dir)

	dataDir, err := GetDataDir()
	require.NoError(t, err)
	assert.Equal(t, dir, dataDir)

	dbDir, err := GetDatabaseDir()
	require.NoError(t, err)

	// Verify directory exists
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("Database directory was not created: %s", dbDir)
	}

	s, err := NewStorage()
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
