package game

import "github.com/pkg/errors"

// Codec converts between display coordinates, positions and actions for an
// n x n board where only the dark squares, (row+col) odd, are playable.
type Codec struct {
	n       int
	perRow  int
	squares int
}

// CoordMove is a move expressed in display coordinates.
type CoordMove struct {
	FromRow, FromCol int
	ToRow, ToCol     int
}

func NewCodec(n int) (Codec, error) {
	if n < 4 || n%2 != 0 {
		return Codec{}, errors.Wrapf(ErrInvalidBoardSize, "size %d", n)
	}
	return Codec{n: n, perRow: n / 2, squares: n * n / 2}, nil
}

// Size returns the number of rows (and columns) of the display grid.
func (c Codec) Size() int {
	return c.n
}

// Positions returns the number of playable squares.
func (c Codec) Positions() int {
	return c.squares
}

// ActionSize returns the fixed size of the action space.
func (c Codec) ActionSize() int {
	return c.squares * (c.squares - 1)
}

// Playable reports whether (row, col) is a playable square of the grid.
func (c Codec) Playable(row, col int) bool {
	return row >= 0 && row < c.n && col >= 0 && col < c.n && (row+col)%2 == 1
}

func (c Codec) CoordToPosition(row, col int) (Position, error) {
	if !c.Playable(row, col) {
		return 0, errors.Wrapf(ErrInvalidCoordinate, "(%d, %d) on a %dx%d board", row, col, c.n, c.n)
	}
	return Position(row*c.perRow + col/2), nil
}

func (c Codec) PositionToCoord(p Position) (row, col int, err error) {
	if !c.valid(p) {
		return 0, 0, errors.Wrapf(ErrInvalidPosition, "%d outside [0, %d)", p, c.squares)
	}
	row = int(p) / c.perRow
	col = 2 * (int(p) % c.perRow)
	if row%2 == 0 {
		col++
	}
	return row, col, nil
}

// MoveToAction encodes a move. The destination is numbered among the
// positions other than the origin, so every action in [0, ActionSize)
// decodes to exactly one move with From != To.
func (c Codec) MoveToAction(m Move) (int, error) {
	if !c.valid(m.From) || !c.valid(m.To) || m.From == m.To {
		return 0, errors.Wrapf(ErrInvalidAction, "cannot encode move %d->%d", m.From, m.To)
	}
	to := int(m.To)
	if m.To > m.From {
		to--
	}
	return int(m.From)*(c.squares-1) + to, nil
}

func (c Codec) ActionToMove(action int) (Move, error) {
	if action < 0 || action >= c.ActionSize() {
		return Move{}, errors.Wrapf(ErrInvalidAction, "action %d outside [0, %d)", action, c.ActionSize())
	}
	from := action / (c.squares - 1)
	to := action % (c.squares - 1)
	if to >= from {
		to++
	}
	return Move{From: Position(from), To: Position(to)}, nil
}

// MoveToCoords converts both ends of a move to display coordinates.
func (c Codec) MoveToCoords(m Move) (CoordMove, error) {
	fr, fc, err := c.PositionToCoord(m.From)
	if err != nil {
		return CoordMove{}, err
	}
	tr, tc, err := c.PositionToCoord(m.To)
	if err != nil {
		return CoordMove{}, err
	}
	return CoordMove{FromRow: fr, FromCol: fc, ToRow: tr, ToCol: tc}, nil
}

// CoordsToMove is the inverse of MoveToCoords.
func (c Codec) CoordsToMove(cm CoordMove) (Move, error) {
	from, err := c.CoordToPosition(cm.FromRow, cm.FromCol)
	if err != nil {
		return Move{}, err
	}
	to, err := c.CoordToPosition(cm.ToRow, cm.ToCol)
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}

func (c Codec) valid(p Position) bool {
	return p >= 0 && int(p) < c.squares
}
