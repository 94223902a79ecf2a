package player

import (
	"checkers/game"

	"golang.org/x/exp/rand"
)

type random struct {
	game *game.Game
	rng  *rand.Rand
}

// NewRandom returns a player picking uniformly among the legal actions. Two
// players built with the same seed make the same choices.
func NewRandom(g *game.Game, seed uint64) *random {
	return &random{game: g, rng: rand.New(rand.NewSource(seed))}
}

func (r *random) Decide(state *game.State) (int, error) {
	actions, _, err := legalActions(r.game, state)
	if err != nil {
		return 0, err
	}
	return actions[r.rng.Intn(len(actions))], nil
}

func (r *random) Name() string {
	return "random"
}
