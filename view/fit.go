package view

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"picterm/raster"
	"picterm/term"
)

// pixelBox converts a terminal box of cols x rows cells into the pixel
// box images are fitted into. Half blocks pack two pixels per cell, the
// graphics protocols address whole cells.
func pixelBox(proto term.Protocol, cols, rows int) (w, h int) {
	switch proto {
	case term.Kitty, term.ITerm2:
		return cols * term.CellWidth, rows * term.CellHeight
	default:
		return cols, rows * 2
	}
}

// fit scales src to the largest size inside a w x h pixel box that
// keeps its aspect ratio. Images already inside the box keep their size
// unless upscale is set. The result is exactly the scaled image, not
// the box, so the caller places it with cursor movement instead of
// padding.
func fit(src image.Image, w, h int, upscale bool) *raster.Framebuffer {
	srcBounds := src.Bounds()
	destWidth, destHeight := fitSize(srcBounds.Dx(), srcBounds.Dy(), w, h, upscale)

	fb := raster.NewFramebuffer(destWidth, destHeight)
	// Drawing through the NRGBA face hits the x/image fast paths for
	// the store's byte layout. draw.Src keeps source alpha intact so
	// the background is composed after scaling, not before.
	if destWidth == srcBounds.Dx() && destHeight == srcBounds.Dy() {
		draw.Copy(fb.ToImage(), image.Point{}, src, srcBounds, draw.Src, nil)
	} else {
		draw.CatmullRom.Scale(fb.ToImage(), fb.Bounds(), src, srcBounds, draw.Src, nil)
	}
	return fb
}

func fitSize(srcWidth, srcHeight, maxWidth, maxHeight int, upscale bool) (w, h int) {
	if !upscale && srcWidth <= maxWidth && srcHeight <= maxHeight {
		return srcWidth, srcHeight
	}

	scale := math.Min(
		float64(maxWidth)/float64(srcWidth),
		float64(maxHeight)/float64(srcHeight))

	w = max(int(math.Round(float64(srcWidth)*scale)), 1)
	h = max(int(math.Round(float64(srcHeight)*scale)), 1)
	return w, h
}
