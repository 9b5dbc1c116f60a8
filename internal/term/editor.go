package term

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stache/internal/logging"
	"github.com/dshills/stache/internal/session"
)

// TabWidth is the number of cells a tab advances to.
const TabWidth = 4

var (
	styleText   = tcell.StyleDefault
	styleStatus = tcell.StyleDefault.Reverse(true)
)

// Editor runs a session on a terminal screen.
type Editor struct {
	screen tcell.Screen
	sess   *session.Session
	path   string
	logger *logging.Logger

	top    int // first visible line
	status string
	dirty  bool
}

// New creates an editor. path is where Ctrl-S saves; it may be empty.
func New(screen tcell.Screen, sess *session.Session, path string, logger *logging.Logger) *Editor {
	if logger == nil {
		logger = logging.Null()
	}
	return &Editor{
		screen: screen,
		sess:   sess,
		path:   path,
		logger: logger.WithComponent("term"),
		status: "Ctrl-S save  Ctrl-Z undo  Ctrl-Q quit",
	}
}

// NewTerminal creates an editor on the controlling terminal.
func NewTerminal(sess *session.Session, path string, logger *logging.Logger) (*Editor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return New(screen, sess, path, logger), nil
}

// Init initializes the screen. It must be called before Run.
func (e *Editor) Init() error {
	if err := e.screen.Init(); err != nil {
		return err
	}
	e.screen.EnablePaste()
	e.draw()
	return nil
}

// Notify shows msg in the status line. It is safe to call from any
// goroutine.
func (e *Editor) Notify(msg string) {
	_ = e.screen.PostEvent(tcell.NewEventInterrupt(msg)) // best-effort; queue may be full
}

// Run processes events until the user quits or ctx is canceled, then
// restores the terminal.
func (e *Editor) Run(ctx context.Context) error {
	defer e.screen.Fini()

	stop := context.AfterFunc(ctx, func() {
		_ = e.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := e.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
			if msg, ok := ev.Data().(string); ok {
				e.status = msg
			}
		case *tcell.EventResize:
			e.screen.Sync()
		case *tcell.EventKey:
			if e.handleKey(ev) {
				return nil
			}
		}
		e.draw()
	}
}

// handleKey applies a key event and reports whether the editor should quit.
func (e *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return true
	case tcell.KeyCtrlS:
		e.save()
		return false
	}

	key, ok := convertKey(ev)
	if !ok {
		return false
	}
	rev := e.sess.Buffer().RevisionID()
	res, err := e.sess.Press(key)
	if e.sess.Buffer().RevisionID() != rev {
		e.dirty = true
	}
	if err != nil {
		e.status = err.Error()
		e.logger.Warn("key %v: %v", key, err)
		return false
	}
	e.status = res.Summary()
	return false
}

func (e *Editor) save() {
	if e.path == "" {
		e.status = "no file name"
		return
	}
	if err := os.WriteFile(e.path, []byte(e.sess.Text()), 0o644); err != nil {
		e.status = fmt.Sprintf("save failed: %v", err)
		e.logger.Error("save %s: %v", e.path, err)
		return
	}
	e.dirty = false
	e.status = "saved " + e.path
}

// convertKey maps a tcell key event to a session key.
func convertKey(ev *tcell.EventKey) (session.Key, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return session.RuneKey(ev.Rune()), true
	case tcell.KeyEnter:
		return session.RuneKey('\n'), true
	case tcell.KeyTab:
		return session.RuneKey('\t'), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return session.Key{Kind: session.KeyBackspace}, true
	case tcell.KeyDelete:
		return session.Key{Kind: session.KeyDelete}, true
	case tcell.KeyLeft:
		return session.Key{Kind: session.KeyLeft}, true
	case tcell.KeyRight:
		return session.Key{Kind: session.KeyRight}, true
	case tcell.KeyHome:
		return session.Key{Kind: session.KeyHome}, true
	case tcell.KeyEnd:
		return session.Key{Kind: session.KeyEnd}, true
	case tcell.KeyCtrlZ:
		return session.Key{Kind: session.KeyUndo}, true
	case tcell.KeyCtrlY:
		return session.Key{Kind: session.KeyRedo}, true
	default:
		return session.Key{}, false
	}
}

// draw renders the visible lines, the caret and the status line.
func (e *Editor) draw() {
	width, height := e.screen.Size()
	if height < 2 {
		return
	}
	rows := height - 1

	buf := e.sess.Buffer()
	caret := e.sess.CaretPoint()
	e.scrollTo(int(caret.Line), rows)

	e.screen.Clear()
	for row := 0; row < rows; row++ {
		line := e.top + row
		if line >= int(buf.LineCount()) {
			break
		}
		drawText(e.screen, 0, row, width, expandTabs(buf.LineText(uint32(line))), styleText)
	}

	lineText := buf.LineText(caret.Line)
	col := len([]rune(expandTabs(lineText[:min(int(caret.Column), len(lineText))])))
	e.screen.ShowCursor(col, int(caret.Line)-e.top)

	e.drawStatus(width, height-1)
	e.screen.Show()
}

func (e *Editor) drawStatus(width, row int) {
	name := e.path
	if name == "" {
		name = "[scratch]"
	}
	if e.dirty {
		name += " +"
	}
	caret := e.sess.CaretPoint()
	left := fmt.Sprintf(" %s  %d:%d", name, caret.Line+1, caret.Column+1)
	if e.status != "" {
		left += "  " + e.status
	}

	for x := 0; x < width; x++ {
		e.screen.SetContent(x, row, ' ', nil, styleStatus)
	}
	drawText(e.screen, 0, row, width, left, styleStatus)
}

// scrollTo keeps line within the visible rows.
func (e *Editor) scrollTo(line, rows int) {
	if line < e.top {
		e.top = line
	}
	if line >= e.top+rows {
		e.top = line - rows + 1
	}
}

func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// expandTabs replaces tabs with spaces up to the next tab stop.
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := TabWidth - col%TabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}
