package arena

import (
	"testing"

	"checkers/game"
	"checkers/metrics"
	"checkers/player"
	"checkers/rules"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	factory, err := rules.Factory(8)
	require.NoError(t, err)
	g, err := game.New(factory)
	require.NoError(t, err)
	return g
}

// captureToWin starts from a position where player one wins with its only
// move, a capture of player two's last piece.
func captureToWin(t *testing.T) *game.Game {
	t.Helper()
	codec, err := game.NewCodec(8)
	require.NoError(t, err)
	board := make(game.Board, codec.Positions())
	for _, p := range [][3]int{{5, 2, 1}, {4, 3, -1}} {
		pos, err := codec.CoordToPosition(p[0], p[1])
		require.NoError(t, err)
		board[pos] = int8(p[2])
	}
	g, err := game.New(func() game.Engine {
		b, _ := rules.Setup(8, board, 1)
		return b
	})
	require.NoError(t, err)
	return g
}

// firstLegal always plays the lowest legal action.
type firstLegal struct {
	game   *game.Game
	name   string
	resets int
}

func (p *firstLegal) Decide(state *game.State) (int, error) {
	mask, err := p.game.LegalActionMask(state, state.Player())
	if err != nil {
		return 0, err
	}
	return mask.Actions()[0], nil
}

func (p *firstLegal) Name() string { return p.name }

func (p *firstLegal) Reset() { p.resets++ }

type illegal struct{}

func (illegal) Decide(state *game.State) (int, error) { return 0, nil }
func (illegal) Name() string                          { return "illegal" }

type failing struct{}

func (failing) Decide(state *game.State) (int, error) { return 0, errors.New("gave up") }
func (failing) Name() string                          { return "failing" }

type panicking struct{}

func (panicking) Decide(state *game.State) (int, error) { panic("engine exploded") }
func (panicking) Name() string                          { return "panicking" }

type countingDisplay struct {
	shows int
	err   error
}

func (d *countingDisplay) Show(b game.Board) error {
	d.shows++
	return d.err
}

type memoryRecorder struct {
	games []metrics.GameRecord
	moves []metrics.MoveRecord
}

func (r *memoryRecorder) WriteGameRecords(records []metrics.GameRecord) error {
	r.games = records
	return nil
}

func (r *memoryRecorder) WriteMoveRecords(records []metrics.MoveRecord) error {
	r.moves = records
	return nil
}

func TestPlayGames(t *testing.T) {
	t.Run("tallies sum to the number of games", func(t *testing.T) {
		g := newGame(t)
		a := New(g)

		result, err := a.PlayGames(4, player.NewRandom(g, 1), player.NewRandom(g, 2), true)

		require.NoError(t, err)
		require.Equal(t, 4, result.Total())
		require.Zero(t, result.Errors)
	})

	t.Run("same seeds same tallies", func(t *testing.T) {
		g := newGame(t)
		run := func() Result {
			result, err := New(g).PlayGames(4, player.NewRandom(g, 5), player.NewRandom(g, 6), true)
			require.NoError(t, err)
			return result
		}

		require.Equal(t, run(), run())
	})

	t.Run("tallies follow the players when swapping", func(t *testing.T) {
		g := captureToWin(t)
		one := &firstLegal{game: g, name: "one"}
		two := &firstLegal{game: g, name: "two"}

		swapped, err := New(g).PlayGames(4, one, two, true)
		require.NoError(t, err)
		require.Equal(t, Result{OneWon: 2, TwoWon: 2}, swapped, "The first mover wins every game")

		fixed, err := New(g).PlayGames(4, one, two, false)
		require.NoError(t, err)
		require.Equal(t, Result{OneWon: 4}, fixed)
	})

	t.Run("illegal actions abort the game", func(t *testing.T) {
		g := newGame(t)
		recorder := &memoryRecorder{}

		result, err := New(g, WithRecorder(recorder)).PlayGames(2, illegal{}, player.NewRandom(g, 1), false)

		require.NoError(t, err)
		require.Equal(t, Result{Errors: 2}, result, "Errors are never scored as losses")
		require.Len(t, recorder.games, 2)
		require.Contains(t, recorder.games[0].Err, "invalid action")
		require.Zero(t, recorder.games[0].Winner)
	})

	t.Run("player failures abort the game", func(t *testing.T) {
		g := newGame(t)

		result, err := New(g).PlayGames(3, player.NewRandom(g, 1), failing{}, true)

		require.NoError(t, err)
		require.Equal(t, 3, result.Errors)
	})

	t.Run("panics are contained", func(t *testing.T) {
		g := newGame(t)
		recorder := &memoryRecorder{}

		result, err := New(g, WithRecorder(recorder)).PlayGames(2, panicking{}, player.NewRandom(g, 1), false)

		require.NoError(t, err)
		require.Equal(t, Result{Errors: 2}, result)
		require.Contains(t, recorder.games[1].Err, "engine exploded")
	})

	t.Run("move limit ends games as draws", func(t *testing.T) {
		g := newGame(t)
		recorder := &memoryRecorder{}

		result, err := New(g, WithMaxMoves(3), WithRecorder(recorder)).PlayGames(2, player.NewRandom(g, 1), player.NewRandom(g, 2), false)

		require.NoError(t, err)
		require.Equal(t, Result{Draws: 2}, result)
		require.True(t, recorder.games[0].Capped)
		require.Equal(t, 3, recorder.games[0].Plies)
		require.Len(t, recorder.moves, 6)
	})

	t.Run("players are reset before every game", func(t *testing.T) {
		g := captureToWin(t)
		one := &firstLegal{game: g, name: "one"}
		two := &firstLegal{game: g, name: "two"}

		_, err := New(g).PlayGames(3, one, two, true)

		require.NoError(t, err)
		require.Equal(t, 3, one.resets)
		require.Equal(t, 3, two.resets)
	})

	t.Run("negative game count panics", func(t *testing.T) {
		g := newGame(t)
		one := &firstLegal{game: g, name: "one"}
		two := &firstLegal{game: g, name: "two"}

		require.PanicsWithValue(t, "number of games cannot be negative", func() {
			New(g).PlayGames(-1, one, two, false)
		})
	})

	t.Run("zero games", func(t *testing.T) {
		g := newGame(t)
		result, err := New(g).PlayGames(0, &firstLegal{game: g, name: "one"}, &firstLegal{game: g, name: "two"}, false)

		require.NoError(t, err)
		require.Zero(t, result.Total())
	})
}

func TestPlayGame(t *testing.T) {
	t.Run("records every move", func(t *testing.T) {
		g := captureToWin(t)
		one := &firstLegal{game: g, name: "one"}
		two := &firstLegal{game: g, name: "two"}
		a := New(g)

		record, err := a.PlayGame(one, two)

		require.NoError(t, err)
		require.Equal(t, int(game.PlayerOne), record.Game.Winner)
		require.Equal(t, 1, record.Game.Plies)
		require.Equal(t, "one", record.Game.PlayerOne)
		require.Len(t, record.Moves, 1)
		require.Equal(t, metrics.MoveRecord{Game: 0, Step: 1, Player: 1, Agent: "one", Action: record.Moves[0].Action, SearchMetric: metrics.SearchMetric{Duration: record.Moves[0].Duration}}, record.Moves[0])

		second, err := a.PlayGame(two, one)
		require.NoError(t, err)
		require.Equal(t, 1, second.Game.ID, "Game ids increase across calls")
	})

	t.Run("shows every ply", func(t *testing.T) {
		g := captureToWin(t)
		d := &countingDisplay{}

		record, err := New(g, WithDisplay(d)).PlayGame(&firstLegal{game: g}, &firstLegal{game: g})

		require.NoError(t, err)
		require.Equal(t, record.Game.Plies+1, d.shows, "Initial board plus one per ply")
	})

	t.Run("display failures abort the game", func(t *testing.T) {
		g := newGame(t)
		d := &countingDisplay{err: errors.New("terminal gone")}

		record, err := New(g, WithDisplay(d)).PlayGame(player.NewRandom(g, 1), player.NewRandom(g, 2))

		require.Error(t, err)
		require.Contains(t, record.Game.Err, "terminal gone")
		require.Zero(t, record.Game.Plies)
	})
}
