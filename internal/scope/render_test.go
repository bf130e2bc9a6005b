package scope

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRender_Layout(t *testing.T) {
	samples := []float32{1, 0, -1, 0}
	got := Render(samples, 8, 7, Levels{RMS: 0.5, PeakDB: -3, Dominant: 440}, "ok")

	want := strings.Join([]string{
		"rms 0.50",
		"ok      ",
		"**      ",
		"        ",
		"--**--**",
		"        ",
		"    **  ",
	}, "\r\n")

	if got != want {
		t.Fatalf("Render =\n%q\nwant\n%q", got, want)
	}
}

func TestRender_ClampsAndMinimumSize(t *testing.T) {
	got := Render([]float32{4, -4}, 1, 1, Levels{}, "")
	lines := strings.Split(got, "\r\n")

	if len(lines) != 2+minRows {
		t.Fatalf("got %d lines, want %d", len(lines), 2+minRows)
	}

	for i, l := range lines {
		if len(l) != minWidth {
			t.Fatalf("line %d has width %d", i, len(l))
		}
	}

	if lines[2] != "****    " || lines[4] != "    ****" {
		t.Fatalf("trace not clamped to the border rows:\n%s", strings.Join(lines, "\n"))
	}
}

func TestRender_MultiLineStatus(t *testing.T) {
	got := Render(nil, 8, 8, Levels{}, "one\ntwo\n")
	lines := strings.Split(got, "\r\n")

	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8", len(lines))
	}

	if lines[1] != "one     " || lines[2] != "two     " {
		t.Fatalf("status lines = %q, %q", lines[1], lines[2])
	}

	if lines[5] != "--------" {
		t.Fatalf("axis row = %q", lines[5])
	}
}

func TestReadout(t *testing.T) {
	if got := readout(Levels{RMS: 0.25, PeakDB: -6.02}); got != "rms 0.250  peak -6.0 dBFS  dominant -" {
		t.Fatalf("readout = %q", got)
	}
}

type fakeSource struct {
	window []float32
	reads  int
}

func (f *fakeSource) Read(dst []float32) (int, bool) {
	f.reads++
	if f.reads > 1 {
		return 0, false
	}

	return copy(dst, f.window), true
}

func TestDisplay_FrameKeepsLastWindow(t *testing.T) {
	an, err := NewAnalyzer(8000, 16)
	if err != nil {
		t.Fatal(err)
	}

	src := &fakeSource{window: []float32{0.5, -0.5, 0.5, -0.5}}

	var out bytes.Buffer

	d := NewDisplay(src, an, &out, func() (int, int, error) { return 10, 8, nil }, 16)

	for range 3 {
		if err := d.Frame("status"); err != nil {
			t.Fatal(err)
		}
	}

	drawn, fresh := d.Frames()
	if drawn != 3 || fresh != 1 {
		t.Fatalf("Frames = %d, %d", drawn, fresh)
	}

	if d.Levels().Peak != 0.5 {
		t.Fatalf("Levels = %+v", d.Levels())
	}

	frames := strings.Split(out.String(), home)[1:]
	if len(frames) != 3 || frames[0] != frames[2] {
		t.Fatalf("frames differ after the window went stale")
	}

	if !strings.Contains(frames[2], "status") {
		t.Fatal("status line missing")
	}
}

func TestDisplay_SizeFallback(t *testing.T) {
	an, err := NewAnalyzer(8000, 16)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	d := NewDisplay(&fakeSource{}, an, &out, func() (int, int, error) {
		return 0, 0, errors.New("no tty")
	}, 16)

	if err := d.Frame(""); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimPrefix(out.String(), home), "\r\n")
	if len(lines) != defaultHeight-1 || len(lines[0]) != defaultWidth {
		t.Fatalf("frame is %d lines of %d", len(lines), len(lines[0]))
	}
}

func TestDisplay_RunStopsOnCancel(t *testing.T) {
	an, err := NewAnalyzer(8000, 16)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	d := NewDisplay(&fakeSource{}, an, &out, nil, 16)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := d.Run(ctx, 200, func() string { return "" }); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.HasPrefix(out.String(), clearHome) {
		t.Fatal("screen not cleared before the first frame")
	}

	if err := d.Run(ctx, 0, nil); err == nil {
		t.Fatal("expected error for zero frame rate")
	}
}
