package display

import (
	"bytes"
	"strings"
	"testing"

	"checkers/game"
	"checkers/rules"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/require"
)

const startingBoard = `   0 1 2 3 4 5 6 7
   ---------------
 0|  r   r   r   r
 1|r   r   r   r
 2|  r   r   r   r
 3|-   -   -   -
 4|  -   -   -   -
 5|b   b   b   b
 6|  b   b   b   b
 7|b   b   b   b
`

func startingPosition(t *testing.T) (game.Codec, game.Board) {
	t.Helper()
	b, err := rules.NewBoard(8)
	require.NoError(t, err)
	b.Synchronize()
	codec, err := game.NewCodec(8)
	require.NoError(t, err)
	return codec, b.Snapshot()
}

func TestRender(t *testing.T) {
	t.Run("starting position", func(t *testing.T) {
		codec, board := startingPosition(t)
		var out bytes.Buffer

		require.NoError(t, Render(&out, codec, board))
		require.Equal(t, startingBoard, out.String())
	})

	t.Run("kings", func(t *testing.T) {
		codec, err := game.NewCodec(4)
		require.NoError(t, err)
		board := game.Board{game.King, 0, 0, -game.King, 0, 0, 0, 0}
		var out bytes.Buffer

		require.NoError(t, Render(&out, codec, board))
		require.Contains(t, out.String(), " 0|  B   -")
		require.Contains(t, out.String(), " 1|-   R")
	})

	t.Run("wrong board size", func(t *testing.T) {
		codec, board := startingPosition(t)

		err := Render(&bytes.Buffer{}, codec, board[:10])
		require.ErrorIs(t, err, game.ErrInvalidPosition)
	})

	t.Run("unknown piece", func(t *testing.T) {
		codec, board := startingPosition(t)
		board[5] = 7

		err := Render(&bytes.Buffer{}, codec, board)
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown piece code 7")
	})
}

func TestASCII(t *testing.T) {
	codec, board := startingPosition(t)
	var out bytes.Buffer
	d := NewASCII(&out, codec)

	require.NoError(t, d.Show(board))
	require.NoError(t, d.Show(board))

	require.Equal(t, startingBoard+"\n"+startingBoard+"\n", out.String())
}

func TestTUI(t *testing.T) {
	t.Run("shows the board with colours", func(t *testing.T) {
		codec, board := startingPosition(t)
		view := tview.NewTextView().SetDynamicColors(true)
		d := &TUI{view: view, codec: codec, queue: func(f func()) { f() }}

		require.NoError(t, d.Show(board))

		require.Equal(t, "ply 1\n\n"+startingBoard, view.GetText(true), "Plain text should match the ASCII board")
		require.Contains(t, view.GetText(false), "["+PlayerOneColor.String()+"]b[-]")
		require.Contains(t, view.GetText(false), "["+PlayerTwoColor.String()+"]r[-]")
	})

	t.Run("errors are reported before queueing", func(t *testing.T) {
		codec, board := startingPosition(t)
		queued := false
		d := &TUI{view: tview.NewTextView(), codec: codec, queue: func(f func()) { queued = true }}

		require.Error(t, d.Show(board[:3]))
		require.False(t, queued)
	})

	t.Run("escape stops the application", func(t *testing.T) {
		codec, _ := startingPosition(t)
		app := tview.NewApplication()
		NewTUI(app, codec)
		capture := app.GetInputCapture()

		require.Nil(t, capture(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
		require.Nil(t, capture(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
		key := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
		require.Equal(t, key, capture(key))
	})
}

func TestGlyph(t *testing.T) {
	var got strings.Builder
	for _, code := range []int8{0, 1, 2, -1, -2} {
		g, err := Glyph(code)
		require.NoError(t, err)
		got.WriteByte(g)
	}
	require.Equal(t, "-bBrR", got.String())
}
