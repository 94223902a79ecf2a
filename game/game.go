package game

import "github.com/pkg/errors"

// Mask flags the currently legal actions with 1. Its length is always the
// size of the action space.
type Mask []uint8

func (m Mask) Legal(action int) bool {
	return action >= 0 && action < len(m) && m[action] == 1
}

// Actions lists the legal actions in increasing order.
func (m Mask) Actions() []int {
	actions := []int{}
	for a, v := range m {
		if v == 1 {
			actions = append(actions, a)
		}
	}
	return actions
}

func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		n += int(v)
	}
	return n
}

// State is the game state owned by one game. It wraps the rules engine and
// the actions applied so far; every read synchronizes the engine first.
type State struct {
	engine  Engine
	history []int
}

// Board returns a freshly synchronized snapshot.
func (s *State) Board() Board {
	s.engine.Synchronize()
	return s.engine.Snapshot()
}

// Player returns the player to move. It panics if the engine reports a turn
// outside its 1/2 numbering.
func (s *State) Player() Player {
	p, err := normalizeTurn(s.engine.Turn())
	if err != nil {
		panic(err)
	}
	return p
}

// History returns a copy of the actions applied since the initial state.
func (s *State) History() []int {
	h := make([]int, len(s.history))
	copy(h, s.history)
	return h
}

func (s *State) Plies() int {
	return len(s.history)
}

func (s *State) Clone() *State {
	return &State{engine: s.engine.Clone(), history: s.History()}
}

// Game adapts a rules engine to the contract consumed by search, players and
// the arena. It holds no board of its own.
type Game struct {
	codec   Codec
	factory EngineFactory
}

func New(factory EngineFactory) (*Game, error) {
	if factory == nil {
		return nil, errors.New("nil engine factory")
	}
	rows, cols := factory().Dimensions()
	if rows != cols {
		return nil, errors.Wrapf(ErrInvalidBoardSize, "%dx%d board is not square", rows, cols)
	}
	codec, err := NewCodec(rows)
	if err != nil {
		return nil, err
	}
	return &Game{codec: codec, factory: factory}, nil
}

func (g *Game) Codec() Codec {
	return g.codec
}

func (g *Game) InitialState() *State {
	e := g.factory()
	e.Synchronize()
	return &State{engine: e}
}

func (g *Game) BoardDimensions() (rows, cols int) {
	return g.codec.Size(), g.codec.Size()
}

func (g *Game) ActionSize() int {
	return g.codec.ActionSize()
}

// LegalActionMask marks the action of every move the engine currently
// accepts for player.
func (g *Game) LegalActionMask(s *State, player Player) (Mask, error) {
	if current := s.Player(); current != player {
		return nil, errors.Wrapf(ErrNotToMove, "%v asked for moves, %v is to move", player, current)
	}
	s.engine.Synchronize()
	mask := make(Mask, g.codec.ActionSize())
	for _, m := range s.engine.LegalMoves() {
		a, err := g.codec.MoveToAction(m)
		if err != nil {
			return nil, errors.Wrap(err, "engine produced an unencodable move")
		}
		mask[a] = 1
	}
	return mask, nil
}

// ApplyAction plays action for player on s and returns the resulting board
// and the player to move next.
func (g *Game) ApplyAction(s *State, player Player, action int) (Board, Player, error) {
	if g.Outcome(s, player) != Ongoing {
		return nil, 0, errors.Wrapf(ErrGameOver, "action %d", action)
	}
	mask, err := g.LegalActionMask(s, player)
	if err != nil {
		return nil, 0, err
	}
	move, err := g.codec.ActionToMove(action)
	if err != nil {
		return nil, 0, err
	}
	if !mask.Legal(action) {
		return nil, 0, errors.Wrapf(ErrInvalidAction, "action %d (%d->%d) is not legal for %v", action, move.From, move.To, player)
	}
	if err := s.engine.Apply(move); err != nil {
		return nil, 0, errors.Wrapf(err, "engine rejected action %d", action)
	}
	s.history = append(s.history, action)
	s.engine.Synchronize()
	next, err := normalizeTurn(s.engine.Turn())
	if err != nil {
		return nil, 0, err
	}
	return s.engine.Snapshot(), next, nil
}

// Outcome returns Ongoing, Won, Lost or DrawValue from player's perspective.
func (g *Game) Outcome(s *State, player Player) float64 {
	s.engine.Synchronize()
	return s.engine.Winner(player)
}

func (g *Game) CanonicalView(s *State, player Player) Board {
	return Canonical(s.Board(), player)
}

// Symmetries returns the board and policy unchanged: only the identity
// transform is used.
func (g *Game) Symmetries(b Board, pi []float64) []Symmetry {
	return []Symmetry{{Board: b, Policy: pi}}
}

// StringKey serializes b into a map key, one byte per square.
func (g *Game) StringKey(b Board) string {
	key := make([]byte, len(b))
	for i, c := range b {
		key[i] = byte(c)
	}
	return string(key)
}

// LegalCoordMoves lists the legal moves of the player to move in display
// coordinates.
func (g *Game) LegalCoordMoves(s *State) ([]CoordMove, error) {
	s.engine.Synchronize()
	moves := s.engine.LegalMoves()
	coords := make([]CoordMove, 0, len(moves))
	for _, m := range moves {
		cm, err := g.codec.MoveToCoords(m)
		if err != nil {
			return nil, err
		}
		coords = append(coords, cm)
	}
	return coords, nil
}

// Replay rebuilds a state by applying history to a fresh initial state.
func (g *Game) Replay(history []int) (*State, error) {
	s := g.InitialState()
	for i, a := range history {
		if _, _, err := g.ApplyAction(s, s.Player(), a); err != nil {
			return nil, errors.Wrapf(err, "replaying ply %d", i+1)
		}
	}
	return s, nil
}

func normalizeTurn(turn int) (Player, error) {
	switch turn {
	case 1:
		return PlayerOne, nil
	case 2:
		return PlayerTwo, nil
	}
	return 0, errors.Errorf("engine reported unknown turn %d", turn)
}
