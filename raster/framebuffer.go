// Package raster implements the pixel framebuffer the viewer renders
// into: a fixed-size RGBA store with row-oriented access for codec-style
// consumers, textual color parsing and in-place alpha compositing against
// a solid or checkerboard backdrop.
//
// The framebuffer is compatible with Go's native [image.Image] and
// [draw.Image] interfaces, so stdlib and x/image operations can read from
// and write into it directly.
package raster

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Pixel is one packed 4-channel color sample: red in the least
// significant byte, then green, blue and alpha. Written to memory the
// byte sequence is always R,G,B,A regardless of host byte order.
type Pixel uint32

// PackPixel packs four 8-bit channels into a Pixel. Channel values are
// taken as given; callers converting from wider integers get mod-256
// truncation from the conversion itself, no clamping happens here.
func PackPixel(r, g, b, a uint8) Pixel {
	return Pixel(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// PixelFromColor converts any [color.Color] to a packed Pixel, keeping
// straight (non-premultiplied) alpha.
func PixelFromColor(c color.Color) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return PackPixel(n.R, n.G, n.B, n.A)
}

func (p Pixel) R() uint8 { return uint8(p) }
func (p Pixel) G() uint8 { return uint8(p >> 8) }
func (p Pixel) B() uint8 { return uint8(p >> 16) }
func (p Pixel) A() uint8 { return uint8(p >> 24) }

// NRGBA returns the pixel as a straight-alpha stdlib color.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R(), G: p.G(), B: p.B(), A: p.A()}
}

// RGBA implements [color.Color].
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return p.NRGBA().RGBA()
}

func (p Pixel) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", p.R(), p.G(), p.B(), p.A())
}

// Framebuffer is a width×height RGBA pixel store in row-major order.
// Dimensions are fixed at construction. A framebuffer is exclusively
// owned by its creator; nothing here synchronizes concurrent mutation.
type Framebuffer struct {
	width  int
	height int
	pix    []byte   // 4 bytes per pixel, R,G,B,A
	rows   [][]byte // built lazily, see Rows
}

// NewFramebuffer allocates a zeroed (transparent black) framebuffer.
// Non-positive dimensions are a programming error and panic.
func NewFramebuffer(width, height int) *Framebuffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("raster: invalid framebuffer size %dx%d", width, height))
	}
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
	}
}

func (fb *Framebuffer) Width() int  { return fb.width }
func (fb *Framebuffer) Height() int { return fb.height }

// Data returns the raw backing bytes: R,G,B,A per pixel, row-major.
// External consumers of the byte stream must keep that order.
func (fb *Framebuffer) Data() []byte { return fb.pix }

// Clear resets every pixel to transparent black.
func (fb *Framebuffer) Clear() {
	clear(fb.pix)
}

// SetPixel writes p at (x, y). Out-of-range writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, p Pixel) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}
	binary.LittleEndian.PutUint32(fb.pix[(y*fb.width+x)*4:], uint32(p))
}

// GetPixel returns the pixel at (x, y). Callers must stay in bounds,
// out-of-range reads panic.
func (fb *Framebuffer) GetPixel(x, y int) Pixel {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		panic(fmt.Sprintf("raster: pixel (%d,%d) outside %dx%d framebuffer", x, y, fb.width, fb.height))
	}
	return Pixel(binary.LittleEndian.Uint32(fb.pix[(y*fb.width+x)*4:]))
}

// Rows returns the row view: height+1 entries where entry i aliases the
// bytes of row i and the last entry is a nil sentinel, the table shape
// row-oriented encoders expect. Built on first use and memoized; the
// aliases stay valid for the life of the framebuffer.
func (fb *Framebuffer) Rows() [][]byte {
	if fb.rows == nil {
		stride := fb.width * 4
		fb.rows = make([][]byte, fb.height+1)
		for y := 0; y < fb.height; y++ {
			fb.rows[y] = fb.pix[y*stride : (y+1)*stride : (y+1)*stride]
		}
		// rows[height] stays nil as the end sentinel.
	}
	return fb.rows
}

// ColorModel implements [image.Image].
func (fb *Framebuffer) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements [image.Image].
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// At implements [image.Image]. Unlike GetPixel it follows the stdlib
// convention of returning the zero color out of bounds.
func (fb *Framebuffer) At(x, y int) color.Color {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return color.NRGBA{}
	}
	return fb.GetPixel(x, y).NRGBA()
}

// Set implements [draw.Image] so image operations can target the
// framebuffer directly. Out-of-range writes are dropped.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	fb.SetPixel(x, y, PixelFromColor(c))
}

// ToImage wraps the backing bytes in an [image.NRGBA] without copying;
// the returned image and the framebuffer share all future mutations.
func (fb *Framebuffer) ToImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    fb.pix,
		Stride: fb.width * 4,
		Rect:   fb.Bounds(),
	}
}

// Interface checks.
var (
	_ color.Color = Pixel(0)
	_ image.Image = (*Framebuffer)(nil)
	_ draw.Image  = (*Framebuffer)(nil)
)
