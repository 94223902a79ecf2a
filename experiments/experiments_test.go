package experiments

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"checkers/arena"
	"checkers/game"
	"checkers/meta"
	"checkers/metrics"
	"checkers/rules"

	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	factory, err := rules.Factory(meta.BOARD_SIZE)
	require.NoError(t, err)
	g, err := game.New(factory)
	require.NoError(t, err)
	return g
}

func countRows(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return len(rows) - 1
}

func TestMatchUps(t *testing.T) {
	t.Run("parallel agents face the sequential baseline", func(t *testing.T) {
		configs, matchUps := Parallel()

		require.Len(t, matchUps, len(parallelConfigs))
		require.Len(t, configs, len(parallelConfigs)+1)
		for _, m := range matchUps {
			require.Equal(t, 1, m[0].Goroutines)
			require.Equal(t, 0, m[0].ID)
		}
	})

	t.Run("cutoff agents face full playouts", func(t *testing.T) {
		configs, matchUps := Cutoff()

		require.Len(t, matchUps, len(configs)-1)
		for _, m := range matchUps {
			require.Equal(t, meta.MaxPlies, m[0].Cutoff)
			require.Less(t, m[1].Cutoff, m[0].Cutoff)
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("writes every record", func(t *testing.T) {
		g := newGame(t)
		configs := []metrics.AgentConfig{
			{ID: 1, Goroutines: 1, Episodes: 4, Cutoff: 2},
			{ID: 2, Goroutines: 2, Episodes: 4, Cutoff: 4},
		}
		matchUps := []MatchUp{{configs[0], configs[1]}}

		dir, err := run(arena.New(g, arena.WithMaxMoves(6)), g, "tiny", configs, matchUps, 2, t.TempDir(), 1)

		require.NoError(t, err)
		require.Equal(t, "tiny", filepath.Base(filepath.Dir(dir)))
		require.Equal(t, 2, countRows(t, filepath.Join(dir, "agent_configs.csv")))
		require.Equal(t, 2, countRows(t, filepath.Join(dir, "game_records.csv")))
		require.Equal(t, 12, countRows(t, filepath.Join(dir, "move_records.csv")), "Both games run to the move limit")
	})

	t.Run("unknown experiment", func(t *testing.T) {
		_, err := Run(newGame(t), "nope", 1, t.TempDir(), 1)
		require.Error(t, err)
	})
}
