// Package arena plays full games between two players and tallies the
// results by player identity.
package arena

import (
	"time"

	"checkers/display"
	"checkers/game"
	"checkers/meta"
	"checkers/metrics"
	"checkers/player"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Option func(a *Arena)

// Recorder persists the records of a run. *metrics.Writer is a Recorder.
type Recorder interface {
	WriteGameRecords(records []metrics.GameRecord) error
	WriteMoveRecords(records []metrics.MoveRecord) error
}

// Result counts the games of a run from the point of view of the players
// passed to PlayGames, whichever colour they played.
type Result struct {
	OneWon int
	TwoWon int
	Draws  int
	Errors int // Games aborted by a player or rules failure
}

func (r Result) Total() int {
	return r.OneWon + r.TwoWon + r.Draws + r.Errors
}

// Record is one finished or aborted game.
type Record struct {
	Game  metrics.GameRecord
	Moves []metrics.MoveRecord
}

type Arena struct {
	game     *game.Game
	display  display.Display
	maxMoves int
	recorder Recorder
	played   int
}

func WithDisplay(d display.Display) Option {
	return func(a *Arena) {
		a.display = d
	}
}

// WithMaxMoves bounds the plies of a game. A game reaching the bound is a
// draw.
func WithMaxMoves(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.maxMoves = n
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(a *Arena) {
		a.recorder = r
	}
}

func New(g *game.Game, options ...Option) *Arena {
	a := &Arena{ // Default values
		game:     g,
		maxMoves: meta.MaxPlies,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// PlayGames plays n games between one and two. With swap, two moves first
// in every odd-numbered game. Failed games are counted in Result.Errors;
// the returned error only reports a failure to write the records.
func (a *Arena) PlayGames(n int, one, two player.Player, swap bool) (Result, error) {
	if n < 0 {
		panic("number of games cannot be negative")
	}
	var result Result
	games := make([]metrics.GameRecord, 0, n)
	moves := []metrics.MoveRecord{}

	for i := 0; i < n; i++ {
		first, second := one, two
		swapped := swap && i%2 == 1
		if swapped {
			first, second = two, one
		}

		record, err := a.PlayGame(first, second)
		games = append(games, record.Game)
		moves = append(moves, record.Moves...)
		if err != nil {
			result.Errors++
			log.Error().Stack().Err(err).Msgf("game %d aborted after %d plies", record.Game.ID, record.Game.Plies)
			continue
		}

		oneWon, twoWon := record.Game.Winner == int(game.PlayerOne), record.Game.Winner == int(game.PlayerTwo)
		if swapped {
			oneWon, twoWon = twoWon, oneWon
		}
		switch {
		case oneWon:
			result.OneWon++
		case twoWon:
			result.TwoWon++
		default:
			result.Draws++
		}
		log.Info().Msgf("game %d: %s vs %s, winner %d after %d plies", record.Game.ID, record.Game.PlayerOne, record.Game.PlayerTwo, record.Game.Winner, record.Game.Plies)
	}

	log.Info().Msgf("%s won %d, %s won %d, %d draws, %d errors", one.Name(), result.OneWon, two.Name(), result.TwoWon, result.Draws, result.Errors)

	if a.recorder != nil {
		if err := a.recorder.WriteGameRecords(games); err != nil {
			return result, err
		}
		if err := a.recorder.WriteMoveRecords(moves); err != nil {
			return result, err
		}
	}
	return result, nil
}

// PlayGame plays one game with first as player one. The error reports why
// the game was aborted; the record is filled up to that point.
func (a *Arena) PlayGame(first, second player.Player) (record Record, err error) {
	id := a.played
	a.played++
	record.Game = metrics.GameRecord{
		ID:        id,
		PlayerOne: first.Name(),
		PlayerTwo: second.Name(),
		StartTime: time.Now(),
	}
	var state *game.State
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("game %d panicked: %v", id, r)
		}
		if state != nil {
			record.Game.Plies = state.Plies()
		}
		record.Game.EndTime = time.Now()
		record.Game.Duration = record.Game.EndTime.Sub(record.Game.StartTime)
		if err != nil {
			record.Game.Winner = 0
			record.Game.Err = err.Error()
		}
	}()

	players := map[game.Player]player.Player{
		game.PlayerOne: first,
		game.PlayerTwo: second,
	}
	for _, p := range []player.Player{first, second} {
		if resetter, ok := p.(player.Resetter); ok {
			resetter.Reset()
		}
	}

	state = a.game.InitialState()
	if err := a.show(state); err != nil {
		return record, err
	}
	for {
		current := state.Player()
		if outcome := a.game.Outcome(state, current); outcome != game.Ongoing {
			record.Game.Winner = int(winner(outcome, current))
			return record, nil
		}
		if state.Plies() >= a.maxMoves {
			log.Warn().Msgf("game %d reached %d plies, scored as a draw", id, a.maxMoves)
			record.Game.Capped = true
			return record, nil
		}

		p := players[current]
		start := time.Now()
		action, err := p.Decide(state)
		if err != nil {
			return record, errors.Wrapf(err, "%s (%v) failed to decide at ply %d", p.Name(), current, state.Plies()+1)
		}
		move := metrics.MoveRecord{
			Game:   id,
			Step:   state.Plies() + 1,
			Player: int(current),
			Agent:  p.Name(),
			Action: action,
		}
		if reporter, ok := p.(metrics.Reporter); ok {
			move.SearchMetric = reporter.LastMetric()
		}
		move.Duration = time.Since(start)

		if _, _, err := a.game.ApplyAction(state, current, action); err != nil {
			return record, errors.Wrapf(err, "%s (%v) played action %d", p.Name(), current, action)
		}
		record.Moves = append(record.Moves, move)
		log.Debug().Msgf("game %d ply %d: %s (%v) played %d", id, move.Step, p.Name(), current, action)

		if err := a.show(state); err != nil {
			return record, err
		}
	}
}

func (a *Arena) show(state *game.State) error {
	if a.display == nil {
		return nil
	}
	return errors.Wrap(a.display.Show(state.Board()), "display failed")
}

// winner converts an outcome for the player to move into the winning
// player, 0 for a draw.
func winner(outcome float64, toMove game.Player) game.Player {
	switch outcome {
	case game.Won:
		return toMove
	case game.Lost:
		return toMove.Opponent()
	}
	return 0
}
