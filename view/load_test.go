package view

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadStill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.png")

	img := image.NewNRGBA(image.Rect(0, 0, 7, 5))
	img.SetNRGBA(3, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write test image: %v", err)
	}

	seq, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if got := len(seq.Frames); got != 1 {
		t.Fatalf("frame count = %d, want 1", got)
	}
	if got := len(seq.Delays); got != 0 {
		t.Errorf("delay count = %d, want 0", got)
	}
	bounds := seq.Frames[0].Bounds()
	if bounds.Dx() != 7 || bounds.Dy() != 5 {
		t.Errorf("frame size = %dx%d, want 7x5", bounds.Dx(), bounds.Dy())
	}
	if got := nrgbaAt(seq.Frames[0], 3, 2); got != (color.NRGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("pixel (3,2) = %v, want {200 100 50 255}", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Load on a missing file did not fail")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("these are not the bytes of any image")); err == nil {
		t.Error("Decode on garbage did not fail")
	}
}

func TestDecodeAnimation(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	g := &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(image.Rect(0, 0, 4, 4), red),
			palettedFrame(image.Rect(1, 1, 3, 3), green),
		},
		Delay:    []int{7, 0},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config:   image.Config{Width: 4, Height: 4},
	}

	seq, err := Decode(bytes.NewReader(encodeGIF(t, g)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := len(seq.Frames); got != 2 {
		t.Fatalf("frame count = %d, want 2", got)
	}

	if got := nrgbaAt(seq.Frames[0], 2, 2); got != red {
		t.Errorf("frame 0 pixel (2,2) = %v, want red", got)
	}
	// The second frame only covers the middle. The canvas keeps the
	// first frame's pixels around it.
	if got := nrgbaAt(seq.Frames[1], 0, 0); got != red {
		t.Errorf("frame 1 pixel (0,0) = %v, want red", got)
	}
	if got := nrgbaAt(seq.Frames[1], 2, 2); got != green {
		t.Errorf("frame 1 pixel (2,2) = %v, want green", got)
	}

	wantDelays := []time.Duration{70 * time.Millisecond, 100 * time.Millisecond}
	for i, want := range wantDelays {
		if seq.Delays[i] != want {
			t.Errorf("delay %d = %v, want %v", i, seq.Delays[i], want)
		}
	}
}

func TestDecodeAnimationDisposalBackground(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	g := &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(image.Rect(0, 0, 4, 4), red),
			palettedFrame(image.Rect(0, 0, 1, 1), green),
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalBackground, gif.DisposalNone},
		Config:   image.Config{Width: 4, Height: 4},
	}

	seq, err := Decode(bytes.NewReader(encodeGIF(t, g)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := len(seq.Frames); got != 2 {
		t.Fatalf("frame count = %d, want 2", got)
	}

	if got := nrgbaAt(seq.Frames[1], 0, 0); got != green {
		t.Errorf("frame 1 pixel (0,0) = %v, want green", got)
	}
	// The first frame was disposed to background, so nothing of it
	// survives into the second.
	if got := nrgbaAt(seq.Frames[1], 3, 3); got.A != 0 {
		t.Errorf("frame 1 pixel (3,3) = %v, want transparent", got)
	}
}

func TestDecodeAnimationDisposalPrevious(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	g := &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(image.Rect(0, 0, 4, 4), red),
			palettedFrame(image.Rect(1, 1, 3, 3), green),
			palettedFrame(image.Rect(0, 0, 1, 1), blue),
		},
		Delay:    []int{10, 10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalPrevious, gif.DisposalNone},
		Config:   image.Config{Width: 4, Height: 4},
	}

	seq, err := Decode(bytes.NewReader(encodeGIF(t, g)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := len(seq.Frames); got != 3 {
		t.Fatalf("frame count = %d, want 3", got)
	}

	if got := nrgbaAt(seq.Frames[1], 2, 2); got != green {
		t.Errorf("frame 1 pixel (2,2) = %v, want green", got)
	}
	// The green patch reverts before the third frame draws.
	if got := nrgbaAt(seq.Frames[2], 2, 2); got != red {
		t.Errorf("frame 2 pixel (2,2) = %v, want red", got)
	}
	if got := nrgbaAt(seq.Frames[2], 0, 0); got != blue {
		t.Errorf("frame 2 pixel (0,0) = %v, want blue", got)
	}
}

func palettedFrame(r image.Rectangle, c color.Color) *image.Paletted {
	p := image.NewPaletted(r, color.Palette{color.Black, c})
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p.SetColorIndex(x, y, 1)
		}
	}
	return p
}

func encodeGIF(t *testing.T, g *gif.GIF) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode test animation: %v", err)
	}
	return buf.Bytes()
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}
