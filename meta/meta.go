// meta/meta.go
package meta

// BOARD_SIZE is the side of the standard checkers board.
const BOARD_SIZE = 8

// DrawPlies is the number of consecutive plies without a capture or a man
// move after which a game is drawn.
const DrawPlies = 80

// MaxPlies bounds a single arena game.
const MaxPlies = 400

// EPISODES defines the number of episodes for MCTS.
const EPISODES = 200

// WITH_CUTOFF defines the rollout cutoff for MCTS.
const WITH_CUTOFF = 60

const GO_ROUTINES = 1

// AgentTimeoutMs bounds a remote agent's answer to one decision.
const AgentTimeoutMs = 30000
