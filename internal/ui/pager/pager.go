// Package pager shows the rendered diff in a scrollable raw-terminal
// view. It draws with plain ANSI cursor addressing; row content may
// already carry color sequences, so lines are written untouched with the
// terminal's autowrap disabled and anything past the right edge clips.
package pager

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Pager pages a fixed set of pre-rendered lines.
type Pager struct {
	title   string
	lines   []string
	input   *os.File
	output  io.Writer
	reader  *bufio.Reader
	writer  *bufio.Writer
	restore *term.State
	width   int
	height  int
	offset  int
}

// New builds a pager over lines; title is shown in the status bar.
func New(title string, lines []string) *Pager {
	return &Pager{title: title, lines: lines}
}

// Run takes over the terminal until the user quits. The terminal state is
// restored on every exit path.
func (p *Pager) Run() error {
	if err := p.initTerminal(); err != nil {
		return err
	}
	defer p.cleanupTerminal()

	for {
		if err := p.render(); err != nil {
			return err
		}
		ev, err := p.readKeyEvent()
		if err != nil {
			return err
		}
		if done := p.handleKey(ev); done {
			return nil
		}
	}
}

func (p *Pager) initTerminal() error {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		if runtime.GOOS != "windows" {
			return fmt.Errorf("open terminal: %w", err)
		}
		p.input = os.Stdin
		p.output = os.Stdout
	} else {
		p.input = tty
		p.output = tty
	}

	p.reader = bufio.NewReader(p.input)
	p.writer = bufio.NewWriter(p.output)

	state, err := term.MakeRaw(int(p.input.Fd()))
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	p.restore = state
	p.writeString("\x1b[?25l") // hide cursor
	p.writeString("\x1b[?7l")  // disable autowrap, fixed-width rows clip
	return nil
}

func (p *Pager) cleanupTerminal() {
	p.writeString("\x1b[?25h")
	p.writeString("\x1b[?7h")
	p.writeString("\x1b[2J\x1b[H")
	if p.writer != nil {
		_ = p.writer.Flush()
	}
	if p.input != nil && p.restore != nil {
		_ = term.Restore(int(p.input.Fd()), p.restore)
	}
	if p.input != nil && p.input.Name() == "/dev/tty" {
		_ = p.input.Close()
	}
}

func (p *Pager) writeString(s string) {
	if p.writer != nil {
		_, _ = p.writer.WriteString(s)
	}
}

func (p *Pager) printf(format string, args ...interface{}) {
	if p.writer != nil {
		_, _ = fmt.Fprintf(p.writer, format, args...)
	}
}

func (p *Pager) updateSize() {
	if p.input == nil {
		return
	}
	if width, height, err := term.GetSize(int(p.input.Fd())); err == nil {
		p.width = width
		p.height = height
	}
	if p.width <= 0 {
		p.width = 80
	}
	if p.height <= 0 {
		p.height = 24
	}
}

// contentRows is the number of lines visible above the status bar.
func (p *Pager) contentRows() int {
	rows := p.height - 1
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (p *Pager) render() error {
	p.updateSize()
	p.clampOffset()

	p.writeString("\x1b[2J\x1b[H")

	rows := p.contentRows()
	for row := 1; row <= rows; row++ {
		idx := p.offset + row - 1
		p.printf("\x1b[%d;1H\x1b[2K", row)
		if idx < len(p.lines) {
			p.writeString(p.lines[idx])
		}
	}
	p.drawStatus()
	return p.writer.Flush()
}

func (p *Pager) drawStatus() {
	status := p.statusLine()
	if p.width > 2 && runewidth.StringWidth(status) > p.width-2 {
		status = runewidth.Truncate(status, p.width-2, "…")
	}
	p.printf("\x1b[%d;1H\x1b[2K", p.height)
	p.printf("\x1b[7m %s \x1b[0m", status)
}

func (p *Pager) statusLine() string {
	total := len(p.lines)
	start := 0
	if total > 0 {
		start = p.offset + 1
	}
	end := p.offset + p.contentRows()
	if end > total {
		end = total
	}
	return fmt.Sprintf("%s  %d-%d/%d  ↑↓/PgUp/PgDn scroll  g/G top/bottom  q quit",
		p.title, start, end, total)
}

func (p *Pager) clampOffset() {
	max := len(p.lines) - p.contentRows()
	if max < 0 {
		max = 0
	}
	if p.offset > max {
		p.offset = max
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

func (p *Pager) handleKey(ev keyEvent) bool {
	switch ev {
	case keyQuit:
		return true
	case keyUp:
		p.offset--
	case keyDown:
		p.offset++
	case keyPageUp:
		p.offset -= p.contentRows()
	case keyPageDown:
		p.offset += p.contentRows()
	case keyHome:
		p.offset = 0
	case keyEnd:
		p.offset = len(p.lines)
	}
	p.clampOffset()
	return false
}

type keyEvent int

const (
	keyUnknown keyEvent = iota
	keyUp
	keyDown
	keyPageUp
	keyPageDown
	keyHome
	keyEnd
	keyQuit
)

func (p *Pager) readKeyEvent() (keyEvent, error) {
	if p.reader == nil {
		return keyUnknown, errors.New("no input reader")
	}
	b, err := p.reader.ReadByte()
	if err != nil {
		return keyUnknown, err
	}
	switch b {
	case 0x1b:
		return p.parseEscapeSequence(), nil
	case 'q', 'Q', 0x03: // Ctrl-C
		return keyQuit, nil
	case 'k', 'K':
		return keyUp, nil
	case 'j', 'J':
		return keyDown, nil
	case 'b', 'B':
		return keyPageUp, nil
	case ' ', 'f', 'F', '\r', '\n':
		return keyPageDown, nil
	case 'g':
		return keyHome, nil
	case 'G':
		return keyEnd, nil
	}
	return keyUnknown, nil
}

func (p *Pager) parseEscapeSequence() keyEvent {
	if p.reader.Buffered() == 0 {
		return keyQuit // bare Esc
	}
	next, err := p.reader.ReadByte()
	if err != nil || next != '[' {
		return keyUnknown
	}
	var params []byte
	for {
		b, err := p.reader.ReadByte()
		if err != nil {
			return keyUnknown
		}
		if b >= '0' && b <= '9' {
			params = append(params, b)
			continue
		}
		switch b {
		case 'A':
			return keyUp
		case 'B':
			return keyDown
		case 'H':
			return keyHome
		case 'F':
			return keyEnd
		case '~':
			switch string(params) {
			case "1", "7":
				return keyHome
			case "4", "8":
				return keyEnd
			case "5":
				return keyPageUp
			case "6":
				return keyPageDown
			}
			return keyUnknown
		default:
			return keyUnknown
		}
	}
}
