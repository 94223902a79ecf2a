package game

import "github.com/pkg/errors"

var (
	ErrInvalidAction     = errors.New("invalid action")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidPosition   = errors.New("invalid position")
	ErrNotToMove         = errors.New("player is not to move")
	ErrGameOver          = errors.New("game is over")
	ErrInvalidBoardSize  = errors.New("invalid board size")
)
