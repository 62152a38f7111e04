package raster

import (
	"encoding/binary"
	"fmt"
	"math"
)

// linearLight squares the R, G and B channels of p, a cheap stand-in
// for proper de-gamma that keeps the blend in linear-ish light.
func linearLight(p Pixel) [3]uint32 {
	r, g, b := uint32(p.R()), uint32(p.G()), uint32(p.B())
	return [3]uint32{r * r, g * g, b * b}
}

// alphaBlend blends c over the pre-squared backdrop and returns the
// opaque result. Channel math is integer: square the foreground, mix by
// alpha with /255 truncation, square-root back to 8 bit.
func alphaBlend(backdrop *[3]uint32, c Pixel) Pixel {
	alpha := uint32(c.A())
	if alpha == 0xff {
		return c
	}
	fg := linearLight(c)
	var out [3]uint8
	for i, bg := range backdrop {
		v := (fg[i]*alpha + bg*(0xff-alpha)) / 0xff
		out[i] = uint8(math.Sqrt(float64(v)))
	}
	return PackPixel(out[0], out[1], out[2], 0xff)
}

// AlphaComposeBackground merges every pixel with a backdrop, in place.
// A background with alpha 0 means "no background" and leaves the
// framebuffer untouched; partially transparent backgrounds are not
// supported and panic. If pattern is opaque, background and pattern
// alternate per pixel in a checkerboard. Every result pixel ends up
// fully opaque.
func (fb *Framebuffer) AlphaComposeBackground(background, pattern Pixel) {
	switch background.A() {
	case 0:
		return
	case 0xff:
	default:
		panic(fmt.Sprintf("raster: compose background %v must be fully opaque or fully transparent", background))
	}

	linearBG := linearLight(background)
	choice := [2]*[3]uint32{&linearBG, &linearBG}
	if pattern.A() == 0xff {
		linearPattern := linearLight(pattern)
		choice[1] = &linearPattern
	}

	for y := 0; y < fb.height; y++ {
		row := fb.pix[y*fb.width*4 : (y+1)*fb.width*4]
		for x := 0; x < fb.width; x++ {
			px := row[x*4 : x*4+4]
			c := Pixel(binary.LittleEndian.Uint32(px))
			blended := alphaBlend(choice[(x+y)%2], c)
			binary.LittleEndian.PutUint32(px, uint32(blended))
		}
	}
}
