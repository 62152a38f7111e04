package term

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"

	"picterm/raster"
)

// kittyChunkLimit is the payload cap per escape sequence set by the
// kitty graphics protocol.
const kittyChunkLimit = 4096

// KittyRenderer transmits the framebuffer's raw RGBA bytes with the
// kitty graphics protocol, base64 chunked, displayed at the cursor.
type KittyRenderer struct {
	// Cols and Rows size the image to that many cells when positive;
	// zero leaves sizing to the terminal.
	Cols, Rows int
	// Indent shifts the image right by that many cells.
	Indent int
}

func (r KittyRenderer) Render(w io.Writer, fb *raster.Framebuffer) error {
	bw := bufio.NewWriter(w)
	if r.Indent > 0 {
		fmt.Fprintf(bw, "\x1b[%dC", r.Indent)
	}

	control := fmt.Sprintf("a=T,f=32,s=%d,v=%d", fb.Width(), fb.Height())
	if r.Cols > 0 {
		control += fmt.Sprintf(",c=%d", r.Cols)
	}
	if r.Rows > 0 {
		control += fmt.Sprintf(",r=%d", r.Rows)
	}

	payload := base64.StdEncoding.EncodeToString(fb.Data())
	for first := true; payload != ""; first = false {
		chunk := payload
		if len(chunk) > kittyChunkLimit {
			chunk = chunk[:kittyChunkLimit]
		}
		payload = payload[len(chunk):]

		more := 0
		if payload != "" {
			more = 1
		}
		if first {
			fmt.Fprintf(bw, "\x1b_G%s,m=%d;%s\x1b\\", control, more, chunk)
		} else {
			fmt.Fprintf(bw, "\x1b_Gm=%d;%s\x1b\\", more, chunk)
		}
	}
	bw.WriteString("\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write kitty image: %w", err)
	}
	return nil
}

func (r KittyRenderer) Rewind(w io.Writer, fb *raster.Framebuffer) error {
	rows := r.Rows
	if rows <= 0 {
		rows = (fb.Height() + CellHeight - 1) / CellHeight
	}
	_, err := fmt.Fprintf(w, "\r\x1b[%dA", rows)
	return err
}
