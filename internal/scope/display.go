package scope

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cwbudde/algo-synth/dsp/core"
	"golang.org/x/term"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	home      = "\x1b[H"
	clearHome = "\x1b[2J\x1b[H"
)

// Source hands out the latest output window. *pipeline.Scope implements
// it.
type Source interface {
	Read(dst []float32) (n int, fresh bool)
}

// SizeFunc reports the drawable area in characters.
type SizeFunc func() (width, height int, err error)

// TerminalSize returns a SizeFunc querying the terminal on fd.
func TerminalSize(fd int) SizeFunc {
	return func() (int, int, error) {
		return term.GetSize(fd)
	}
}

// Display pulls windows from a Source and redraws them on a writer.
type Display struct {
	src  Source
	an   *Analyzer
	out  io.Writer
	size SizeFunc

	buf    []float32
	n      int
	levels Levels
	frames uint64
	fresh  uint64
}

// NewDisplay returns a display reading windows of up to windowSize
// samples. A nil size draws at 80x24.
func NewDisplay(src Source, an *Analyzer, out io.Writer, size SizeFunc, windowSize int) *Display {
	return &Display{
		src:  src,
		an:   an,
		out:  out,
		size: size,
		buf:  core.EnsureLen[float32](nil, windowSize),
	}
}

// Levels returns the readout of the newest window.
func (d *Display) Levels() Levels { return d.levels }

// Frames returns how many frames were drawn and how many of them showed a
// new window.
func (d *Display) Frames() (drawn, fresh uint64) { return d.frames, d.fresh }

// Frame draws once. Without a new window the previous one is redrawn.
func (d *Display) Frame(status string) error {
	if n, ok := d.src.Read(d.buf); ok {
		d.n = n
		d.levels = d.an.Analyze(d.buf[:n])
		d.fresh++
	}

	w, h := defaultWidth, defaultHeight
	if d.size != nil {
		if sw, sh, err := d.size(); err == nil && sw > 0 && sh > 0 {
			w, h = sw, sh
		}
	}

	// The last row stays free so the cursor never scrolls the frame.
	frame := Render(d.buf[:d.n], w, h-1, d.levels, status)

	if _, err := io.WriteString(d.out, home+frame); err != nil {
		return fmt.Errorf("scope: draw: %w", err)
	}

	d.frames++

	return nil
}

// Run draws fps frames per second until ctx is done. status is polled
// once per frame and may be nil.
func (d *Display) Run(ctx context.Context, fps int, status func() string) error {
	if fps <= 0 {
		return fmt.Errorf("scope: frame rate must be > 0: %d", fps)
	}

	if _, err := io.WriteString(d.out, clearHome); err != nil {
		return fmt.Errorf("scope: clear: %w", err)
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		var s string
		if status != nil {
			s = status()
		}

		if err := d.Frame(s); err != nil {
			return err
		}
	}
}
