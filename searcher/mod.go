// Package searcher implements tree-parallel Monte-Carlo tree search over
// game states. The policy it returns is the visit distribution of the root's
// children over the whole action space.
package searcher

import (
	"checkers/game"
)

const CSquared = 2.0 // Exploration constant

const WIN = 1.0   // Reward for winning outcome
const LOSS = -WIN // Reward for loss outcome (negate from opponent perspective)

// Evaluate scores a non-terminal state in [LOSS, WIN] from the perspective
// of the player to move.
type Evaluate func(state *game.State) float64

// rewarder turns a value for player into a reward for any player. Zero-sum:
// the opponent receives the negated value.
func rewarder(value float64, player game.Player) func(game.Player) float64 {
	return func(p game.Player) float64 {
		if p == player {
			return value
		}
		return -value
	}
}
