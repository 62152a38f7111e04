package term

import (
	"math"

	"picterm/raster"
)

// okLab is a color in the OKLab perceptual space, where euclidean
// distance tracks perceived difference well enough for palette matching.
type okLab struct {
	l, a, b float64
}

// toLab converts an sRGB pixel to OKLab. Alpha is not considered.
func toLab(p raster.Pixel) okLab {
	r := toLinear(float64(p.R()) / 255)
	g := toLinear(float64(p.G()) / 255)
	b := toLinear(float64(p.B()) / 255)

	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return okLab{
		l: 0.2104542553*l + 0.7936177850*m - 0.0040720468*s,
		a: 1.9779984951*l - 2.4285922050*m + 0.4505937099*s,
		b: 0.0259040371*l + 0.7827717662*m - 0.8086757660*s,
	}
}

func toLinear(x float64) float64 {
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return x / 12.92
}

// xterm256 holds palette entries 16 through 255: the 6x6x6 color cube
// followed by the 24-step gray ramp. The 16 base colors are left out,
// their values are terminal configuration rather than standard.
var xterm256 = buildXterm256()

func buildXterm256() [240]raster.Pixel {
	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	var pal [240]raster.Pixel
	i := 0
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				pal[i] = raster.PackPixel(r, g, b, 0xff)
				i++
			}
		}
	}
	for v := 0; v < 24; v++ {
		gray := uint8(8 + 10*v)
		pal[i] = raster.PackPixel(gray, gray, gray, 0xff)
		i++
	}
	return pal
}

var xterm256Lab = buildXterm256Lab()

func buildXterm256Lab() [240]okLab {
	var lab [240]okLab
	for i, p := range xterm256 {
		lab[i] = toLab(p)
	}
	return lab
}

// ansi256Index returns the xterm-256 palette index closest to p by
// squared OKLab distance.
func ansi256Index(p raster.Pixel) int {
	lc := toLab(p)
	ret, bestSum := 0, math.MaxFloat64
	for i, v := range xterm256Lab {
		dL := lc.l - v.l
		da := lc.a - v.a
		db := lc.b - v.b
		sum := dL*dL + da*da + db*db
		if sum < bestSum {
			if sum == 0 {
				return i + 16
			}
			ret, bestSum = i, sum
		}
	}
	return ret + 16
}
