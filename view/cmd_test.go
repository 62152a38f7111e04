package view

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"picterm/raster"
	"picterm/term"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     CLICmd
		wantErr bool
	}{
		{"defaults", CLICmd{Loops: 1}, false},
		{"explicit geometry", CLICmd{Geometry: "120x40", Loops: 1}, false},
		{"geometry without rows", CLICmd{Geometry: "80", Loops: 1}, true},
		{"geometry zero columns", CLICmd{Geometry: "0x40", Loops: 1}, true},
		{"geometry negative rows", CLICmd{Geometry: "80x-2", Loops: 1}, true},
		{"geometry not numbers", CLICmd{Geometry: "axb", Loops: 1}, true},
		{"zero loops", CLICmd{Loops: 0}, true},
		{"negative jobs", CLICmd{Loops: 1, Jobs: -1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate(nil)
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateResolvesGeometryAndColors(t *testing.T) {
	cmd := CLICmd{Geometry: "132x43", Background: "white", Pattern: "#808080", Loops: 1}
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate(): %v", err)
	}

	if cmd.cols != 132 || cmd.rows != 43 {
		t.Errorf("geometry = %dx%d, want 132x43", cmd.cols, cmd.rows)
	}
	if want := raster.PackPixel(255, 255, 255, 255); cmd.background != want {
		t.Errorf("background = %v, want %v", cmd.background, want)
	}
	if want := raster.PackPixel(128, 128, 128, 255); cmd.pattern != want {
		t.Errorf("pattern = %v, want %v", cmd.pattern, want)
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		name   string
		center bool
		cols   int
		width  int
		want   int
	}{
		{"centering off", false, 80, 10, 0},
		{"centered", true, 80, 10, 35},
		{"wider than terminal", true, 80, 100, 0},
		{"exact width", true, 80, 80, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := CLICmd{Center: tc.center}
			if got := cmd.indent(tc.cols, tc.width); got != tc.want {
				t.Errorf("indent(%d, %d) = %d, want %d", tc.cols, tc.width, got, tc.want)
			}
		})
	}
}

func TestRendererSelection(t *testing.T) {
	fb := raster.NewFramebuffer(100, 40)
	cmd := CLICmd{Center: true, Colors: "256"}

	switch r := cmd.renderer(term.HalfBlocks, fb, 120).(type) {
	case term.HalfBlockRenderer:
		if !r.Colors256 {
			t.Error("Colors256 not set on block renderer")
		}
		if r.Indent != 10 {
			t.Errorf("block indent = %d, want 10", r.Indent)
		}
	default:
		t.Fatalf("renderer for blocks = %T", r)
	}

	// 100x40 pixels is 13x3 cells of 8x16.
	switch r := cmd.renderer(term.Kitty, fb, 120).(type) {
	case term.KittyRenderer:
		if r.Cols != 13 || r.Rows != 3 {
			t.Errorf("kitty cell box = %dx%d, want 13x3", r.Cols, r.Rows)
		}
		if r.Indent != 53 {
			t.Errorf("kitty indent = %d, want 53", r.Indent)
		}
	default:
		t.Fatalf("renderer for kitty = %T", r)
	}

	switch r := cmd.renderer(term.ITerm2, fb, 120).(type) {
	case term.ITerm2Renderer:
		if r.Cols != 13 || r.Rows != 3 {
			t.Errorf("iterm2 cell box = %dx%d, want 13x3", r.Cols, r.Rows)
		}
	default:
		t.Fatalf("renderer for iterm2 = %T", r)
	}
}

func TestShowStill(t *testing.T) {
	fb := raster.NewFramebuffer(1, 2)
	fb.SetPixel(0, 0, raster.PackPixel(255, 0, 0, 255))
	fb.SetPixel(0, 1, raster.PackPixel(0, 0, 255, 255))

	cmd := CLICmd{Colors: "truecolor"}
	var buf bytes.Buffer
	if err := cmd.show(&buf, &item{frames: []*raster.Framebuffer{fb}}, term.HalfBlocks, 80); err != nil {
		t.Fatalf("show: %v", err)
	}

	want := "\x1b[38;2;255;0;0m\x1b[48;2;0;0;255m▀\x1b[0m\n"
	if got := buf.String(); got != want {
		t.Errorf("show output = %q, want %q", got, want)
	}
}

func TestShowAnimation(t *testing.T) {
	frameA := raster.NewFramebuffer(1, 2)
	frameA.SetPixel(0, 0, raster.PackPixel(255, 0, 0, 255))
	frameB := raster.NewFramebuffer(1, 2)
	frameB.SetPixel(0, 0, raster.PackPixel(0, 255, 0, 255))

	it := &item{
		frames: []*raster.Framebuffer{frameA, frameB},
		delays: []time.Duration{0, 0},
	}

	cmd := CLICmd{Colors: "truecolor", Loops: 2}
	var buf bytes.Buffer
	if err := cmd.show(&buf, it, term.HalfBlocks, 80); err != nil {
		t.Fatalf("show: %v", err)
	}
	out := buf.String()

	// Four renders, rewound in place between them.
	if got := strings.Count(out, "▀"); got != 4 {
		t.Errorf("block count = %d, want 4", got)
	}
	if got := strings.Count(out, "\r\x1b[1A"); got != 3 {
		t.Errorf("rewind count = %d, want 3", got)
	}
	if strings.HasPrefix(out, "\r") {
		t.Error("first frame must render without rewinding")
	}
}

func TestPrepareMissingFile(t *testing.T) {
	cmd := CLICmd{}
	it := cmd.prepare(filepath.Join(t.TempDir(), "gone.png"), 80, 48)
	if it.err == nil {
		t.Error("prepare on a missing file did not record an error")
	}
}
