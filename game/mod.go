package game

// Position identifies one playable square. Positions are 0-based and
// numbered row by row over the playable squares only.
type Position int

// Move is a single ply from one position to another. Legality is the rules
// engine's concern.
type Move struct {
	From Position
	To   Position
}

// Board maps each Position to a piece code: 0 empty, +1/-1 a man of player
// one/two, +2/-2 a king of player one/two.
type Board []int8

const (
	Empty int8 = 0
	Man   int8 = 1
	King  int8 = 2
)

// Player is +1 for the first player and -1 for the second.
type Player int8

const (
	PlayerOne Player = 1
	PlayerTwo Player = -1
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	return -p
}

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "player1"
	case PlayerTwo:
		return "player2"
	}
	return "none"
}

// Outcome values reported by Engine.Winner and Game.Outcome, from the
// perspective of the player asked about.
const (
	Ongoing   = 0.0
	Won       = 1.0
	Lost      = -1.0
	DrawValue = 1e-4
)

// Engine is the capability contract of a rules engine. It owns the
// authoritative state of one game and mutates it in place.
type Engine interface {
	// Synchronize rebuilds the Board view from the internal state.
	Synchronize()
	// Snapshot returns a copy of the view built by the last Synchronize.
	Snapshot() Board
	Dimensions() (rows, cols int)
	LegalMoves() []Move
	// Apply plays move, failing if it is not currently legal.
	Apply(move Move) error
	Winner(player Player) float64
	// Turn returns the player to move in the engine's numbering (1 or 2).
	Turn() int
	Clone() Engine
}

// EngineFactory creates the engine for a fresh game.
type EngineFactory func() Engine

// Symmetry pairs a board with its policy vector.
type Symmetry struct {
	Board  Board
	Policy []float64
}

func (b Board) Copy() Board {
	c := make(Board, len(b))
	copy(c, b)
	return c
}

// Equal reports whether both boards hold the same pieces.
func (b Board) Equal(other Board) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}
	return true
}

// Owner returns the player owning piece code c, or 0 for an empty square.
func Owner(c int8) Player {
	switch {
	case c > 0:
		return PlayerOne
	case c < 0:
		return PlayerTwo
	}
	return 0
}
