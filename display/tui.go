package display

import (
	"fmt"
	"strings"

	"checkers/game"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var (
	PlayerOneColor = tcell.ColorDodgerBlue
	PlayerTwoColor = tcell.ColorIndianRed
	EmptyColor     = tcell.ColorDimGray
)

// TUI shows the board in a tview text view. Boards are drawn on the
// application's event loop.
type TUI struct {
	view  *tview.TextView
	codec game.Codec
	queue func(func())
	plies int
}

// NewTUI makes a board view the root of app. Escape or q stops app.
func NewTUI(app *tview.Application, codec game.Codec) *TUI {
	view := tview.NewTextView()
	view.SetDynamicColors(true)
	view.SetTextAlign(tview.AlignLeft)
	view.SetBorder(true)
	view.SetTitle(" checkers ")

	app.SetRoot(view, true)
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	return &TUI{
		view:  view,
		codec: codec,
		queue: func(f func()) { app.QueueUpdateDraw(f) },
	}
}

func (t *TUI) Show(b game.Board) error {
	lines, err := Lines(t.codec, b)
	if err != nil {
		return err
	}
	t.plies++
	text := fmt.Sprintf("[%s]ply %d[-]\n\n%s\n", EmptyColor, t.plies, colorize(strings.Join(lines, "\n")))
	t.queue(func() {
		t.view.SetText(text)
	})
	return nil
}

func colorize(board string) string {
	var sb strings.Builder
	for _, r := range board {
		switch r {
		case 'b', 'B':
			fmt.Fprintf(&sb, "[%s]%c[-]", PlayerOneColor, r)
		case 'r', 'R':
			fmt.Fprintf(&sb, "[%s]%c[-]", PlayerTwoColor, r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
