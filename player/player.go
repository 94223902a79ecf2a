// Package player provides the decision makers driven by the arena.
package player

import (
	"checkers/game"

	"github.com/pkg/errors"
)

var (
	ErrInputClosed   = errors.New("input closed")
	ErrNoLegalAction = errors.New("no legal action")
)

// Player chooses an action for the player to move in a state.
type Player interface {
	Decide(state *game.State) (int, error)
	Name() string
}

// Resetter is implemented by players that keep per-game state.
type Resetter interface {
	Reset()
}

// Searcher returns a probability distribution over the whole action space for
// the player to move.
type Searcher interface {
	Policy(state *game.State) ([]float64, error)
}

func legalActions(g *game.Game, state *game.State) ([]int, game.Mask, error) {
	mask, err := g.LegalActionMask(state, state.Player())
	if err != nil {
		return nil, nil, err
	}
	actions := mask.Actions()
	if len(actions) == 0 {
		return nil, nil, errors.Wrapf(ErrNoLegalAction, "%v", state.Player())
	}
	return actions, mask, nil
}
