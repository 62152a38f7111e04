package view

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"picterm/parallel"
	"picterm/raster"
	"picterm/term"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Geometry   string   `help:"Terminal size as COLSxROWS, autodetected if empty" placeholder:"COLSxROWS"`
	Background string   `help:"Color to compose transparent images over (name, #rrggbb or rgb(..))" short:"b"`
	Pattern    string   `help:"Second color for a checkerboard background" short:"B"`
	Center     bool     `help:"Center images horizontally" default:"false"`
	Upscale    bool     `help:"Enlarge images smaller than the terminal" default:"false"`
	Protocol   string   `help:"Terminal graphics protocol" enum:"auto,blocks,kitty,iterm2" default:"auto"`
	Colors     string   `help:"Color depth for block output" enum:"truecolor,256" default:"truecolor"`
	Loops      int      `help:"How often to play an animation" default:"1"`
	Jobs       int      `help:"Number of decode workers, all CPUs if 0" default:"0"`
	Paths      []string `arg:"" name:"path" help:"Image files to show" type:"existingfile"`

	cols, rows int
	background raster.Pixel
	pattern    raster.Pixel
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Geometry != "" {
		if n, _ := fmt.Sscanf(c.Geometry, "%dx%d", &c.cols, &c.rows); n != 2 {
			return fmt.Errorf("invalid geometry %q, want COLSxROWS", c.Geometry)
		}
		switch {
		case (c.cols < 1):
			return fmt.Errorf("invalid geometry columns: %d", c.cols)
		case (c.rows < 1):
			return fmt.Errorf("invalid geometry rows: %d", c.rows)
		}
	}

	switch {
	case (c.Loops < 1):
		return fmt.Errorf("invalid loop count: %d", c.Loops)
	case (c.Jobs < 0):
		return fmt.Errorf("invalid worker count: %d", c.Jobs)
	}

	c.background = raster.ParseColor(c.Background)
	c.pattern = raster.ParseColor(c.Pattern)
	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	cols, rows := c.cols, c.rows
	if cols == 0 {
		cols, rows = term.Geometry()
		if rows > 1 {
			rows-- // keep the shell prompt on screen
		}
	}

	var proto term.Protocol
	switch c.Protocol {
	case "blocks":
		proto = term.HalfBlocks
	case "kitty":
		proto = term.Kitty
	case "iterm2":
		proto = term.ITerm2
	default:
		proto = term.Detect()
	}
	slog.Debug("showing images", "protocol", proto, "cols", cols, "rows", rows)

	boxWidth, boxHeight := pixelBox(proto, cols, rows)

	items := make([]*item, len(c.Paths))
	for i, path := range c.Paths {
		worker(func(i int, path string) func() {
			return func() {
				items[i] = c.prepare(path, boxWidth, boxHeight)
			}
		}(i, path))
	}

	wait(true)

	var shownCount, errCount int
	for i, it := range items {
		logger := slog.Default().With("file", c.Paths[i])
		if it.err != nil {
			errCount++
			logger.Error("could not load image", "error", it.err)
			continue
		}
		if err := c.show(os.Stdout, it, proto, cols); err != nil {
			errCount++
			logger.Error("could not show image", "error", err)
			continue
		}
		shownCount++
	}

	slog.Info("stats", "shown", shownCount, "errors", errCount,
		"total", shownCount+errCount)

	if errCount > 0 {
		return fmt.Errorf("error showing %d files", errCount)
	}
	return nil
}

// item is one file prepared for display, all frames scaled and
// composed. Files that failed carry the error instead.
type item struct {
	frames []*raster.Framebuffer
	delays []time.Duration
	err    error
}

func (c *CLICmd) prepare(path string, boxWidth, boxHeight int) *item {
	seq, err := Load(path)
	if err != nil {
		return &item{err: err}
	}

	it := &item{delays: seq.Delays}
	for _, frame := range seq.Frames {
		fb := fit(frame, boxWidth, boxHeight, c.Upscale)
		fb.AlphaComposeBackground(c.background, c.pattern)
		it.frames = append(it.frames, fb)
	}

	slog.Debug("prepared image", "file", path, "frames", len(it.frames),
		"width", it.frames[0].Width(), "height", it.frames[0].Height())
	return it
}

func (c *CLICmd) show(w io.Writer, it *item, proto term.Protocol, cols int) error {
	r := c.renderer(proto, it.frames[0], cols)
	if len(it.frames) == 1 {
		return r.Render(w, it.frames[0])
	}

	last := c.Loops*len(it.frames) - 1
	shown := 0
	for range c.Loops {
		for i, fb := range it.frames {
			if shown > 0 {
				if err := r.Rewind(w, fb); err != nil {
					return err
				}
			}
			if err := r.Render(w, fb); err != nil {
				return err
			}
			if shown < last {
				time.Sleep(it.delays[i])
			}
			shown++
		}
	}
	return nil
}

// renderer picks the output driver for one image. The graphics
// protocols are told the cell box the image occupies so that rewinding
// and centering stay exact regardless of the terminal's font size.
func (c *CLICmd) renderer(proto term.Protocol, fb *raster.Framebuffer, cols int) term.Renderer {
	switch proto {
	case term.Kitty, term.ITerm2:
		cellCols := (fb.Width() + term.CellWidth - 1) / term.CellWidth
		cellRows := (fb.Height() + term.CellHeight - 1) / term.CellHeight
		indent := c.indent(cols, cellCols)
		if proto == term.Kitty {
			return term.KittyRenderer{Cols: cellCols, Rows: cellRows, Indent: indent}
		}
		return term.ITerm2Renderer{Cols: cellCols, Rows: cellRows, Indent: indent}
	default:
		return term.HalfBlockRenderer{
			Colors256: c.Colors == "256",
			Indent:    c.indent(cols, fb.Width()),
		}
	}
}

func (c *CLICmd) indent(cols, width int) int {
	if !c.Center {
		return 0
	}
	return max((cols-width)/2, 0)
}
