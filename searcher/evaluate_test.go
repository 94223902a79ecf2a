package searcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateMaterial(t *testing.T) {
	evaluate := EvaluateMaterial(DefaultWeights)

	t.Run("balanced start", func(t *testing.T) {
		g := newGame(t)
		require.Zero(t, evaluate(g.InitialState()))
	})

	t.Run("scores from the player to move", func(t *testing.T) {
		pieces := [][3]int{{5, 2, 1}, {5, 4, 2}, {0, 1, -1}}
		one := setupGame(t, 1, pieces...).InitialState()
		two := setupGame(t, 2, pieces...).InitialState()

		// 2.5 against 1
		require.InDelta(t, 1.5/3.5, evaluate(one), 1e-9)
		require.InDelta(t, -1.5/3.5, evaluate(two), 1e-9)
	})
}

func TestLoadCheckpoint(t *testing.T) {
	t.Run("valid weights", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "weights.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"man": 1, "king": 3}`), 0644))

		w, err := LoadCheckpoint(path)

		require.NoError(t, err)
		require.Equal(t, Weights{Man: 1, King: 3}, w)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCheckpoint(filepath.Join(t.TempDir(), "missing.json"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "weights.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"man": `), 0644))

		_, err := LoadCheckpoint(path)
		require.Error(t, err)
	})

	t.Run("non-positive weights", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "weights.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"man": 1}`), 0644))

		_, err := LoadCheckpoint(path)
		require.Error(t, err)
	})
}
