package player

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"checkers/game"

	"github.com/pkg/errors"
)

type human struct {
	game *game.Game
	in   *bufio.Scanner
	out  io.Writer
}

// NewHuman returns a player reading moves as "row col row col" lines from in.
// Invalid or illegal input is reported on out and asked for again.
func NewHuman(g *game.Game, in io.Reader, out io.Writer) *human {
	return &human{game: g, in: bufio.NewScanner(in), out: out}
}

func (h *human) Name() string {
	return "human"
}

func (h *human) Decide(state *game.State) (int, error) {
	_, mask, err := legalActions(h.game, state)
	if err != nil {
		return 0, err
	}
	codec := h.game.Codec()

	for {
		fmt.Fprintf(h.out, "%v to move (row col row col, ? lists moves): ", state.Player())
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return 0, errors.Wrap(err, "reading move")
			}
			return 0, ErrInputClosed
		}
		line := strings.TrimSpace(h.in.Text())
		if line == "?" {
			if err := h.listMoves(state); err != nil {
				return 0, err
			}
			continue
		}

		cm, err := parseCoordMove(line)
		if err != nil {
			fmt.Fprintln(h.out, err)
			continue
		}
		move, err := codec.CoordsToMove(cm)
		if err != nil {
			fmt.Fprintln(h.out, err)
			continue
		}
		action, err := codec.MoveToAction(move)
		if err != nil {
			fmt.Fprintln(h.out, err)
			continue
		}
		if !mask.Legal(action) {
			fmt.Fprintf(h.out, "illegal move %s\n", formatCoordMove(cm))
			continue
		}
		return action, nil
	}
}

func (h *human) listMoves(state *game.State) error {
	moves, err := h.game.LegalCoordMoves(state)
	if err != nil {
		return err
	}
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = formatCoordMove(m)
	}
	fmt.Fprintf(h.out, "legal moves: %s\n", strings.Join(parts, "  "))
	return nil
}

// parseCoordMove accepts four integers separated by spaces or commas.
func parseCoordMove(line string) (game.CoordMove, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '(' || r == ')'
	})
	if len(fields) != 4 {
		return game.CoordMove{}, errors.Errorf("expected 4 numbers, got %q", line)
	}
	var v [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return game.CoordMove{}, errors.Errorf("%q is not a number", f)
		}
		v[i] = n
	}
	return game.CoordMove{FromRow: v[0], FromCol: v[1], ToRow: v[2], ToCol: v[3]}, nil
}

func formatCoordMove(m game.CoordMove) string {
	return fmt.Sprintf("%d,%d-%d,%d", m.FromRow, m.FromCol, m.ToRow, m.ToCol)
}
