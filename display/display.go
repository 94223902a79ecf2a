// Package display draws boards for people watching a match.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"checkers/game"

	"github.com/pkg/errors"
)

// Display shows the board after every ply.
type Display interface {
	Show(b game.Board) error
}

// Glyph returns the character of a piece code: b/B for player one's
// man/king, r/R for player two's and - for an empty square.
func Glyph(code int8) (byte, error) {
	switch code {
	case game.Empty:
		return '-', nil
	case game.Man:
		return 'b', nil
	case game.King:
		return 'B', nil
	case -game.Man:
		return 'r', nil
	case -game.King:
		return 'R', nil
	}
	return 0, errors.Errorf("unknown piece code %d", code)
}

// Lines lays b out as text rows: a column header, a rule, then one row per
// board row prefixed by its index. Non-playable squares are blank.
func Lines(codec game.Codec, b game.Board) ([]string, error) {
	if len(b) != codec.Positions() {
		return nil, errors.Wrapf(game.ErrInvalidPosition, "board has %d squares, want %d", len(b), codec.Positions())
	}
	n := codec.Size()

	header := make([]string, n)
	for c := range header {
		header[c] = strconv.Itoa(c)
	}
	lines := []string{
		"   " + strings.Join(header, " "),
		"   " + strings.Repeat("-", 2*n-1),
	}

	for r := 0; r < n; r++ {
		row := make([]byte, 0, 2*n)
		for c := 0; c < n; c++ {
			if c > 0 {
				row = append(row, ' ')
			}
			if !codec.Playable(r, c) {
				row = append(row, ' ')
				continue
			}
			p, err := codec.CoordToPosition(r, c)
			if err != nil {
				return nil, err
			}
			glyph, err := Glyph(b[p])
			if err != nil {
				return nil, errors.Wrapf(err, "square (%d, %d)", r, c)
			}
			row = append(row, glyph)
		}
		lines = append(lines, fmt.Sprintf("%2d|%s", r, strings.TrimRight(string(row), " ")))
	}
	return lines, nil
}

// Render writes b to w with row and column headers.
func Render(w io.Writer, codec game.Codec, b game.Board) error {
	lines, err := Lines(codec, b)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.Join(lines, "\n"))
	return errors.Wrap(err, "writing board")
}

type ascii struct {
	w     io.Writer
	codec game.Codec
}

// NewASCII returns a display printing every board to w.
func NewASCII(w io.Writer, codec game.Codec) Display {
	return &ascii{w: w, codec: codec}
}

func (a *ascii) Show(b game.Board) error {
	if err := Render(a.w, a.codec, b); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.w)
	return errors.Wrap(err, "writing board")
}
