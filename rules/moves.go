package rules

import "checkers/game"

var diagonals = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// LegalMoves lists the moves of the player to move, ordered by origin
// position. Captures are mandatory, and during a multi-jump only the jumping
// piece may move. A drawn game has no legal moves.
func (b *Board) LegalMoves() []game.Move {
	if b.quiet >= b.drawPlies {
		return nil
	}
	if b.jumper != noJumper {
		r, c, _ := b.codec.PositionToCoord(b.jumper)
		return b.capturesFrom(r, c)
	}

	var captures, steps []game.Move
	for p := 0; p < b.codec.Positions(); p++ {
		r, c, _ := b.codec.PositionToCoord(game.Position(p))
		if game.Owner(b.at(r, c)) != b.toMove() {
			continue
		}
		captures = append(captures, b.capturesFrom(r, c)...)
		if len(captures) == 0 {
			steps = append(steps, b.stepsFrom(r, c)...)
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return steps
}

func (b *Board) stepsFrom(r, c int) []game.Move {
	piece := b.at(r, c)
	from, _ := b.codec.CoordToPosition(r, c)
	var moves []game.Move
	for _, d := range b.directions(piece) {
		tr, tc := r+d[0], c+d[1]
		if !b.inside(tr, tc) || b.at(tr, tc) != game.Empty {
			continue
		}
		to, _ := b.codec.CoordToPosition(tr, tc)
		moves = append(moves, game.Move{From: from, To: to})
	}
	return moves
}

func (b *Board) capturesFrom(r, c int) []game.Move {
	piece := b.at(r, c)
	from, _ := b.codec.CoordToPosition(r, c)
	var moves []game.Move
	for _, d := range b.directions(piece) {
		mr, mc := r+d[0], c+d[1]
		tr, tc := r+2*d[0], c+2*d[1]
		if !b.inside(tr, tc) || b.at(tr, tc) != game.Empty {
			continue
		}
		if game.Owner(b.at(mr, mc)) != game.Owner(piece).Opponent() {
			continue
		}
		to, _ := b.codec.CoordToPosition(tr, tc)
		moves = append(moves, game.Move{From: from, To: to})
	}
	return moves
}

// directions returns the diagonals a piece may move along. Player one's men
// move towards row 0, player two's towards the last row.
func (b *Board) directions(piece int8) [][2]int {
	switch piece {
	case game.Man:
		return diagonals[:2]
	case -game.Man:
		return diagonals[2:]
	case game.King, -game.King:
		return diagonals[:]
	}
	return nil
}
