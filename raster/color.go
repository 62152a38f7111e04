package raster

import (
	"fmt"
	"log/slog"
	"strings"
)

// ParseColor parses a textual color into an opaque Pixel. Accepted
// forms are the HTML color names from htmlColors, "#RRGGBB" hex,
// "rgb(r, g, b)" with decimal channels and "rgb(0xRR, 0xGG, 0xBB)"
// with hex channels. Alpha is always set to 255.
//
// The empty string and unparseable input both yield transparent
// black; only the latter logs a diagnostic. Callers can treat the
// returned zero value as "no color given".
func ParseColor(text string) Pixel {
	if text == "" {
		return PackPixel(0, 0, 0, 0)
	}
	s := text
	if named, ok := htmlColors[strings.ToLower(s)]; ok {
		s = named
	}
	// Channel verbs skip leading whitespace on their own, so spaces
	// inside "rgb( r , g , b )" are dropped up front instead of being
	// encoded in the formats.
	s = strings.ReplaceAll(s, " ", "")
	var r, g, b int
	for _, format := range []string{"#%02x%02x%02x", "rgb(%d,%d,%d)", "rgb(0x%x,0x%x,0x%x)"} {
		if n, _ := fmt.Sscanf(s, format, &r, &g, &b); n == 3 {
			return PackPixel(uint8(r), uint8(g), uint8(b), 0xff)
		}
	}
	slog.Error("could not parse color", "color", text)
	return PackPixel(0, 0, 0, 0)
}
