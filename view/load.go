package view

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Sequence is the decoded content of one image file. A still picture is
// a single frame, an animation carries one entry per frame with its
// display delay.
type Sequence struct {
	Frames []image.Image
	Delays []time.Duration
}

func Load(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads one image in any registered format. GIFs with more than
// one frame decode fully so the viewer can play them.
func Decode(r io.Reader) (*Sequence, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}

	if format == "gif" {
		return decodeAnimation(data)
	}
	return &Sequence{Frames: []image.Image{img}}, nil
}

// decodeAnimation flattens GIF frames onto a shared canvas. Frames only
// cover the region that changed, so each output frame is the canvas
// after drawing it, with the frame's disposal applied before the next.
func decodeAnimation(data []byte) (*Sequence, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode animation: %w", err)
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, g.Config.Width, g.Config.Height))
	seq := &Sequence{
		Frames: make([]image.Image, 0, len(g.Image)),
		Delays: make([]time.Duration, 0, len(g.Image)),
	}
	var restore *image.NRGBA
	for i, frame := range g.Image {
		if g.Disposal[i] == gif.DisposalPrevious {
			restore = cloneCanvas(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		seq.Frames = append(seq.Frames, cloneCanvas(canvas))
		seq.Delays = append(seq.Delays, frameDelay(g.Delay[i]))

		switch g.Disposal[i] {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			if restore != nil {
				canvas = restore
			}
		}
	}
	return seq, nil
}

func cloneCanvas(c *image.NRGBA) *image.NRGBA {
	clone := image.NewNRGBA(c.Rect)
	copy(clone.Pix, c.Pix)
	return clone
}

// frameDelay converts a GIF delay in hundredths of a second. Zero-delay
// frames get the 100ms that browsers substitute, so such files animate
// instead of flickering past.
func frameDelay(hundredths int) time.Duration {
	if hundredths <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(hundredths) * 10 * time.Millisecond
}
