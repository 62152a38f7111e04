package term

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"sync"

	"picterm/raster"
)

// ITerm2Renderer shows the framebuffer with the iTerm2 OSC 1337
// inline-image sequence, PNG-encoded.
type ITerm2Renderer struct {
	// Cols and Rows size the image to that many cells when positive;
	// zero leaves sizing to the terminal.
	Cols, Rows int
	// Indent shifts the image right by that many cells.
	Indent int
}

func (r ITerm2Renderer) Render(w io.Writer, fb *raster.Framebuffer) error {
	var buf bytes.Buffer
	enc := png.Encoder{
		CompressionLevel: png.BestSpeed,
		BufferPool:       pngPool,
	}
	if err := enc.Encode(&buf, fb.ToImage()); err != nil {
		return fmt.Errorf("encode inline PNG: %w", err)
	}

	bw := bufio.NewWriter(w)
	if r.Indent > 0 {
		fmt.Fprintf(bw, "\x1b[%dC", r.Indent)
	}
	fmt.Fprintf(bw, "\x1b]1337;File=inline=1;size=%d", buf.Len())
	if r.Cols > 0 {
		fmt.Fprintf(bw, ";width=%d", r.Cols)
	}
	if r.Rows > 0 {
		fmt.Fprintf(bw, ";height=%d", r.Rows)
	}
	bw.WriteByte(':')
	b64 := base64.NewEncoder(base64.StdEncoding, bw)
	if _, err := b64.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("encode inline payload: %w", err)
	}
	if err := b64.Close(); err != nil {
		return fmt.Errorf("encode inline payload: %w", err)
	}
	bw.WriteString("\a\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write inline image: %w", err)
	}
	return nil
}

func (r ITerm2Renderer) Rewind(w io.Writer, fb *raster.Framebuffer) error {
	rows := r.Rows
	if rows <= 0 {
		rows = (fb.Height() + CellHeight - 1) / CellHeight
	}
	_, err := fmt.Fprintf(w, "\r\x1b[%dA", rows)
	return err
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
