// Package rules implements the rules of checkers on an n x n board: men step
// diagonally forward, kings step diagonally in any direction, captures are
// mandatory and chain into multi-jumps made by the same player.
package rules

import (
	"checkers/game"
	"checkers/meta"

	"github.com/pkg/errors"
)

var ErrIllegalMove = errors.New("illegal move")

const noJumper game.Position = -1

type Option func(b *Board)

// WithDrawPlies sets the number of consecutive plies without a capture or a
// man move after which the game is drawn.
func WithDrawPlies(plies int) Option {
	return func(b *Board) {
		if plies > 0 {
			b.drawPlies = plies
		}
	}
}

// Board is the authoritative state of one checkers game. The grid is the
// source of truth; the position view handed out by Snapshot is rebuilt only
// by Synchronize.
type Board struct {
	codec     game.Codec
	n         int
	grid      []int8 // row*n + col
	view      game.Board
	turn      int           // 1 or 2
	jumper    game.Position // piece that must keep capturing, noJumper if none
	quiet     int           // plies since the last capture or man move
	drawPlies int
}

// NewBoard sets up the starting position: player two's men on the top rows,
// player one's men on the bottom rows, two empty rows in between. Player one
// moves first, towards row 0.
func NewBoard(n int, options ...Option) (*Board, error) {
	b, err := newEmpty(n, options...)
	if err != nil {
		return nil, err
	}
	rows := n/2 - 1
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if !b.codec.Playable(r, c) {
				continue
			}
			switch {
			case r < rows:
				b.grid[r*n+c] = -game.Man
			case r >= n-rows:
				b.grid[r*n+c] = game.Man
			}
		}
	}
	return b, nil
}

// Setup builds a board from an arbitrary position with turn (1 or 2) to move.
func Setup(n int, pieces game.Board, turn int, options ...Option) (*Board, error) {
	b, err := newEmpty(n, options...)
	if err != nil {
		return nil, err
	}
	if len(pieces) != b.codec.Positions() {
		return nil, errors.Errorf("board has %d squares, want %d", len(pieces), b.codec.Positions())
	}
	if turn != 1 && turn != 2 {
		return nil, errors.Errorf("turn must be 1 or 2, got %d", turn)
	}
	for p, code := range pieces {
		if code < -game.King || code > game.King {
			return nil, errors.Errorf("unknown piece code %d at position %d", code, p)
		}
		r, c, _ := b.codec.PositionToCoord(game.Position(p))
		b.grid[r*n+c] = code
	}
	b.turn = turn
	return b, nil
}

// Factory validates n once and returns a factory of starting boards.
func Factory(n int, options ...Option) (game.EngineFactory, error) {
	if _, err := NewBoard(n, options...); err != nil {
		return nil, err
	}
	return func() game.Engine {
		b, _ := NewBoard(n, options...)
		return b
	}, nil
}

func newEmpty(n int, options ...Option) (*Board, error) {
	codec, err := game.NewCodec(n)
	if err != nil {
		return nil, err
	}
	b := &Board{
		codec:     codec,
		n:         n,
		grid:      make([]int8, n*n),
		view:      make(game.Board, codec.Positions()),
		turn:      1,
		jumper:    noJumper,
		drawPlies: meta.DrawPlies,
	}
	for _, option := range options {
		option(b)
	}
	return b, nil
}

func (b *Board) Synchronize() {
	for p := range b.view {
		r, c, _ := b.codec.PositionToCoord(game.Position(p))
		b.view[p] = b.grid[r*b.n+c]
	}
}

func (b *Board) Snapshot() game.Board {
	return b.view.Copy()
}

func (b *Board) Dimensions() (rows, cols int) {
	return b.n, b.n
}

func (b *Board) Turn() int {
	return b.turn
}

func (b *Board) Clone() game.Engine {
	grid := make([]int8, len(b.grid))
	copy(grid, b.grid)
	return &Board{
		codec:     b.codec,
		n:         b.n,
		grid:      grid,
		view:      b.view.Copy(),
		turn:      b.turn,
		jumper:    b.jumper,
		quiet:     b.quiet,
		drawPlies: b.drawPlies,
	}
}

// Apply plays move for the player to move. A capture that can be continued
// by the same piece keeps the turn; promotion always ends it.
func (b *Board) Apply(move game.Move) error {
	legal := false
	for _, m := range b.LegalMoves() {
		if m == move {
			legal = true
			break
		}
	}
	if !legal {
		return errors.Wrapf(ErrIllegalMove, "%d->%d", move.From, move.To)
	}

	fr, fc, _ := b.codec.PositionToCoord(move.From)
	tr, tc, _ := b.codec.PositionToCoord(move.To)
	piece := b.at(fr, fc)
	b.set(fr, fc, game.Empty)

	captured := abs(tr-fr) == 2
	if captured {
		b.set((fr+tr)/2, (fc+tc)/2, game.Empty)
	}

	promoted := false
	if abs(piece) == game.Man && tr == b.promotionRow(piece) {
		piece *= game.King
		promoted = true
	}
	b.set(tr, tc, piece)

	if captured || abs(piece) == game.Man || promoted {
		b.quiet = 0
	} else {
		b.quiet++
	}

	if captured && !promoted && len(b.capturesFrom(tr, tc)) > 0 {
		b.jumper = move.To
		return nil
	}
	b.jumper = noJumper
	b.turn = 3 - b.turn
	return nil
}

// Winner reports the outcome for player: the player to move loses when it
// has no legal move, and the game is drawn after drawPlies quiet plies.
func (b *Board) Winner(player game.Player) float64 {
	if b.quiet >= b.drawPlies {
		return game.DrawValue
	}
	if len(b.LegalMoves()) > 0 {
		return game.Ongoing
	}
	if player == b.toMove() {
		return game.Lost
	}
	return game.Won
}

func (b *Board) toMove() game.Player {
	if b.turn == 1 {
		return game.PlayerOne
	}
	return game.PlayerTwo
}

func (b *Board) at(r, c int) int8 {
	return b.grid[r*b.n+c]
}

func (b *Board) set(r, c int, code int8) {
	b.grid[r*b.n+c] = code
}

func (b *Board) inside(r, c int) bool {
	return r >= 0 && r < b.n && c >= 0 && c < b.n
}

func (b *Board) promotionRow(piece int8) int {
	if piece > 0 {
		return 0
	}
	return b.n - 1
}

func abs[T int | int8](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
