package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"text/template"

	"tetrisengine/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos    = "\033[H"  // Reset cursor position to 0,0
	clearScreen = "\033[2J" // Clear the whole screen

	boxWidth = 2 * tetris.Width
	empty    = "  "
	ghost    = "[]"
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Shape]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

func block(s tetris.Shape) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", colorMap[s])
}

type templateData struct {
	Snap    *tetris.Snapshot
	Name    string
	NoGhost bool
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	*templateData

	mu sync.Mutex
}

func newRender(l *slog.Logger, ng bool, name string) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &render{
		writer:   os.Stdout,
		logger:   l,
		template: tmp,
		templateData: &templateData{
			Name:    name,
			NoGhost: ng,
		},
	}, nil
}

func (r *render) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Snap = nil
	fmt.Fprint(r.writer, clearScreen)
}

func (r *render) game(s tetris.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draw(s)
}

func (r *render) draw(s tetris.Snapshot) {
	r.Snap = &s
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template in draw()", slog.String("error", err.Error()))
	}
}

// lobby draws the board behind a message box.
func (r *render) lobby(m message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Snap == nil {
		r.draw(tetris.Snapshot{})
	}
	fmt.Fprintf(r.writer, "\033[10;1H+%s+", strings.Repeat("-", boxWidth))
	for i, line := range m {
		fmt.Fprintf(r.writer, "\033[%d;1H|%s|", 11+i, center(line, boxWidth))
	}
	fmt.Fprintf(r.writer, "\033[%d;1H+%s+", 11+len(m), strings.Repeat("-", boxWidth))
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"stack": stack,
		"side":  side,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", "\033[1mTerminal Tetris\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

// stack renders the playfield: locked blocks, the ghost and the falling
// tetromino, in that order.
func stack(t *templateData) [tetris.Height][tetris.Width]string {
	var rendered [tetris.Height][tetris.Width]string
	for y := range rendered {
		for x := range rendered[y] {
			rendered[y][x] = empty
		}
	}
	if t == nil || t.Snap == nil {
		return rendered
	}
	set := func(c tetris.Cell, v string) {
		// the tetromino spawns above the visible playfield.
		if c.Y >= 0 && c.Y < tetris.Height && c.X >= 0 && c.X < tetris.Width {
			rendered[c.Y][c.X] = v
		}
	}
	for _, b := range t.Snap.Stack {
		set(b.Cell, block(b.Shape))
	}
	if !t.NoGhost {
		for _, c := range t.Snap.Ghost {
			set(c, ghost)
		}
	}
	for _, c := range t.Snap.Piece {
		set(c, block(t.Snap.Shape))
	}
	return rendered
}

// side returns the panel printed right of playfield row y.
func side(t *templateData, y int) string {
	if t == nil || t.Snap == nil {
		return ""
	}
	switch y {
	case 1:
		return "  Next"
	case 2, 3:
		return "  " + nextPiece(t)[y-2]
	case 5:
		return fmt.Sprintf("  Score: %d", t.Snap.Score)
	case 6:
		return fmt.Sprintf("  Lines: %d", t.Snap.Lines)
	case 7:
		return fmt.Sprintf("  Level: %d", t.Snap.Level)
	case 9:
		return "  " + t.Name
	}
	return ""
}

// nextPiece renders the spawn orientation of the next tetromino in a 4x2 box.
func nextPiece(t *templateData) []string {
	rows := [2][4]string{}
	for y := range rows {
		for x := range rows[y] {
			rows[y][x] = empty
		}
	}
	if t != nil && t.Snap != nil && t.Snap.Next != "" {
		for _, c := range tetris.Orientations(t.Snap.Next)[0] {
			rows[c.Y][c.X] = block(t.Snap.Next)
		}
	}
	return []string{strings.Join(rows[0][:], ""), strings.Join(rows[1][:], "")}
}

func center(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

// message is the text of the lobby box, one string per line.
type message []string

func defaultLobby() message {
	return message{"Welcome to Tetris", "(p)lay  (o)nline", "(q)uit"}
}

func gameOver(score int) message {
	return message{"Game Over :)", fmt.Sprintf("Score: %d", score), "(p)/(o) again (q)uit"}
}

func connecting() message {
	return message{"", "connecting...", ""}
}

func errorMessage() message {
	return message{"something went", "wrong :(", "(p)lay  (o)nline"}
}
