package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"checkers/arena"
	"checkers/config"
	"checkers/player"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"
)

func TestBuildPlayer(t *testing.T) {
	g, err := newGame(8)
	require.NoError(t, err)
	cfg := config.DefaultConfig
	cfg.Search.Episodes = 10

	t.Run("known kinds", func(t *testing.T) {
		for kind, name := range map[string]string{
			"random":                "random",
			"human":                 "human",
			"mcts":                  "mcts",
			"http://localhost:8080": "http://localhost:8080",
		} {
			p, err := buildPlayer(kind, &cfg, g, 1)
			require.NoError(t, err)
			require.Equal(t, name, p.Name())
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := buildPlayer("alphazero", &cfg, g, 1)
		require.Error(t, err)
	})

	t.Run("missing checkpoint", func(t *testing.T) {
		c := cfg
		c.Search.Checkpoint = filepath.Join(t.TempDir(), "missing.json")

		_, err := buildPlayer("mcts", &c, g, 1)
		require.Error(t, err)
	})

	t.Run("search player decides legally", func(t *testing.T) {
		p, err := buildPlayer("mcts", &cfg, g, 1)
		require.NoError(t, err)
		state := g.InitialState()

		action, err := p.Decide(state)

		require.NoError(t, err)
		mask, err := g.LegalActionMask(state, state.Player())
		require.NoError(t, err)
		require.True(t, mask.Legal(action))
	})
}

func TestRun(t *testing.T) {
	g, err := newGame(8)
	require.NoError(t, err)
	cfg := config.DefaultConfig
	cfg.PlayerOne, cfg.PlayerTwo = "random", "random"
	cfg.Games = 2
	cfg.MaxMoves = 20
	cfg.WriteRecords = true
	cfg.RecordsDir = t.TempDir()

	require.NoError(t, run(&cfg, g, false))

	files, err := filepath.Glob(filepath.Join(cfg.RecordsDir, "*", "*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 2, "Game and move records should be written")
}

func TestPrintResult(t *testing.T) {
	g, err := newGame(8)
	require.NoError(t, err)
	var out bytes.Buffer

	printResult(&out, player.NewRandom(g, 1), player.NewHuman(g, nil, nil), arena.Result{OneWon: 3, TwoWon: 1, Draws: 2})

	require.Equal(t, "random: 3 wins\nhuman: 1 wins\ndraws: 2\nerrors: 0\n", out.String())
}

func TestServeAndExperimentErrors(t *testing.T) {
	g, err := newGame(8)
	require.NoError(t, err)
	cfg := config.DefaultConfig
	cfg.RecordsDir = t.TempDir()

	t.Run("human cannot be served", func(t *testing.T) {
		c := cfg
		c.PlayerOne = "human"
		require.Error(t, serve(":0", &c, g))
	})

	t.Run("unknown experiment", func(t *testing.T) {
		require.Error(t, experiment("nope", &cfg, g))
	})
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(dir, "none"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	cfg := config.DefaultConfig
	cfg.Games = 4
	cfg.AgentTimeoutMs = 1500

	require.NoError(t, saveConfig(&cfg))

	got, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, cfg, *got, "Saved settings should be the next run's defaults")
	require.Equal(t, 1500*time.Millisecond, got.AgentTimeout())
}
