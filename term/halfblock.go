package term

import (
	"bufio"
	"fmt"
	"io"

	"picterm/raster"
)

const upperHalf = "▀"

// HalfBlockRenderer draws two framebuffer rows per terminal row using
// the upper half block, foreground colored from the upper pixel and
// background from the lower. Truecolor SGR by default; Colors256 drops
// to the xterm-256 palette for terminals without 24-bit support.
type HalfBlockRenderer struct {
	// Colors256 emits 38;5/48;5 palette colors instead of truecolor.
	Colors256 bool
	// Indent shifts every line right by that many cells.
	Indent int
}

func (r HalfBlockRenderer) Render(w io.Writer, fb *raster.Framebuffer) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < fb.Height(); y += 2 {
		if r.Indent > 0 {
			fmt.Fprintf(bw, "\x1b[%dC", r.Indent)
		}
		e := sgrEmitter{w: bw, colors256: r.Colors256}
		for x := 0; x < fb.Width(); x++ {
			e.foreground(fb.GetPixel(x, y))
			if y+1 < fb.Height() {
				e.background(fb.GetPixel(x, y+1))
			}
			bw.WriteString(upperHalf)
		}
		bw.WriteString("\x1b[0m\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write half blocks: %w", err)
	}
	return nil
}

func (r HalfBlockRenderer) Rewind(w io.Writer, fb *raster.Framebuffer) error {
	_, err := fmt.Fprintf(w, "\r\x1b[%dA", (fb.Height()+1)/2)
	return err
}

// sgrEmitter writes SGR color changes, dropping sequences that would
// not change terminal state. State starts unknown on every line since
// the line-ending reset clears attributes.
type sgrEmitter struct {
	w         *bufio.Writer
	colors256 bool
	haveFG    bool
	haveBG    bool
	fg, bg    uint32
}

func (e *sgrEmitter) foreground(p raster.Pixel) {
	if k := e.key(p); !e.haveFG || k != e.fg {
		e.haveFG, e.fg = true, k
		e.emit(38, k, p)
	}
}

func (e *sgrEmitter) background(p raster.Pixel) {
	if k := e.key(p); !e.haveBG || k != e.bg {
		e.haveBG, e.bg = true, k
		e.emit(48, k, p)
	}
}

// key is the emitted color identity: the palette index in 256-color
// mode, the RGB channels otherwise. Alpha never reaches the wire.
func (e *sgrEmitter) key(p raster.Pixel) uint32 {
	if e.colors256 {
		return uint32(ansi256Index(p))
	}
	return uint32(p) & 0xffffff
}

func (e *sgrEmitter) emit(layer int, key uint32, p raster.Pixel) {
	if e.colors256 {
		fmt.Fprintf(e.w, "\x1b[%d;5;%dm", layer, key)
	} else {
		fmt.Fprintf(e.w, "\x1b[%d;2;%d;%d;%dm", layer, p.R(), p.G(), p.B())
	}
}
