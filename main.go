package main

import (
	"fmt"
	"log/slog"
	"os"

	"picterm/parallel"
	"picterm/term"
	"picterm/view"

	"github.com/alecthomas/kong"
)

var cli struct {
	Debug bool `help:"Enable debug logging"`

	View  view.CLICmd `cmd:"" default:"withargs" help:"Show images in the terminal"`
	Probe probeCmd    `cmd:"" help:"Report detected terminal capabilities"`
}

type probeCmd struct{}

func (probeCmd) Run() error {
	cols, rows := term.Geometry()
	colorterm := os.Getenv("COLORTERM")

	fmt.Printf("protocol: %s\n", term.Detect())
	fmt.Printf("geometry: %dx%d\n", cols, rows)
	fmt.Printf("truecolor: %v\n", colorterm == "truecolor" || colorterm == "24bit")
	return nil
}

func initLogger(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level})))
}

func main() {
	// Pixels go to stdout, diagnostics to stderr.
	initLogger(slog.LevelInfo)

	kctx := kong.Parse(&cli,
		kong.Name("picterm"),
		kong.Description("Show images and animations right in the terminal."),
		kong.UsageOnError(),
	)

	if cli.Debug {
		initLogger(slog.LevelDebug)
	}

	pool := parallel.Start(cli.View.Jobs)
	kctx.FatalIfErrorf(kctx.Run(pool.Do, pool.Wait))
}
