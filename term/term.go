// Package term writes framebuffers to a terminal. It detects the best
// graphics protocol the terminal offers and provides renderers for
// half-block cells, the kitty graphics protocol and iTerm2 inline
// images.
package term

import (
	"io"
	"os"
	"strconv"
	"strings"

	xterm "golang.org/x/term"

	"picterm/raster"
)

// Protocol identifies how pixels are transported to the terminal.
type Protocol int

const (
	// HalfBlocks draws two pixels per cell with the upper half block
	// and SGR colors, the fallback every terminal understands.
	HalfBlocks Protocol = iota
	// Kitty is the kitty graphics protocol, raw RGBA in base64 chunks.
	Kitty
	// ITerm2 is the iTerm2 OSC 1337 inline image protocol.
	ITerm2
)

func (p Protocol) String() string {
	switch p {
	case Kitty:
		return "kitty"
	case ITerm2:
		return "iterm2"
	default:
		return "blocks"
	}
}

// Nominal cell size in device pixels for the pixel protocols, used when
// the terminal cannot be asked. The 1:2 aspect matches the half-block
// renderer's one cell = 1x2 pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Renderer writes one framebuffer to a terminal-shaped writer.
type Renderer interface {
	// Render emits fb at the current cursor position and leaves the
	// cursor on a fresh line below the image.
	Render(w io.Writer, fb *raster.Framebuffer) error
	// Rewind moves the cursor back to where the last Render started,
	// so the next Render overdraws in place.
	Rewind(w io.Writer, fb *raster.Framebuffer) error
}

var (
	_ Renderer = HalfBlockRenderer{}
	_ Renderer = KittyRenderer{}
	_ Renderer = ITerm2Renderer{}
)

// Detect picks the richest protocol the terminal advertises through its
// environment. Kitty sets KITTY_WINDOW_ID (or a kitty TERM); emulators
// speaking the iTerm2 protocol identify via TERM_PROGRAM.
func Detect() Protocol {
	if os.Getenv("KITTY_WINDOW_ID") != "" || strings.Contains(os.Getenv("TERM"), "kitty") {
		return Kitty
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "mintty":
		return ITerm2
	}
	return HalfBlocks
}

// Geometry reports the terminal size in cells. It asks the tty first,
// then the COLUMNS/LINES environment, then falls back to 80x24.
func Geometry() (cols, rows int) {
	if c, r, err := xterm.GetSize(int(os.Stdout.Fd())); err == nil && c > 0 && r > 0 {
		return c, r
	}
	return geometryEnv()
}

func geometryEnv() (cols, rows int) {
	cols, rows = 80, 24
	if v, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && v > 0 {
		cols = v
	}
	if v, err := strconv.Atoi(os.Getenv("LINES")); err == nil && v > 0 {
		rows = v
	}
	return cols, rows
}
