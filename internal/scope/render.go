package scope

import (
	"fmt"
	"math"
	"strings"
)

const (
	trace    = '*'
	axis     = '-'
	minRows  = 3
	minWidth = 8
)

// Render draws samples as a width x height text frame. The first line
// holds the levels, the status follows on one or more lines and the trace
// fills the rest. Lines are separated by "\r\n" so the frame also prints
// correctly on a raw terminal. Every line is padded to width, so a new frame
// fully covers the previous one.
func Render(samples []float32, width, height int, lv Levels, status string) string {
	width = max(width, minWidth)
	statusLines := strings.Split(strings.TrimSuffix(status, "\n"), "\n")
	rows := max(height-1-len(statusLines), minRows)

	grid := make([][]byte, rows)
	mid := (rows - 1) / 2

	for r := range grid {
		fill := byte(' ')
		if r == mid && rows%2 == 1 {
			fill = axis
		}

		grid[r] = []byte(strings.Repeat(string(fill), width))
	}

	if len(samples) > 0 {
		for c := 0; c < width; c++ {
			s := float64(samples[c*len(samples)/width])
			grid[traceRow(s, rows)][c] = trace
		}
	}

	var b strings.Builder

	b.WriteString(fit(readout(lv), width))
	for _, line := range statusLines {
		b.WriteString("\r\n")
		b.WriteString(fit(line, width))
	}

	for _, line := range grid {
		b.WriteString("\r\n")
		b.Write(line)
	}

	return b.String()
}

// traceRow maps s in [-1, 1] to a row, +1 at the top. Values beyond full
// scale stick to the border rows.
func traceRow(s float64, rows int) int {
	if math.IsNaN(s) {
		s = 0
	}

	s = math.Max(-1, math.Min(1, s))

	return int(math.Round((1 - s) / 2 * float64(rows-1)))
}

func readout(lv Levels) string {
	dom := "-"
	if lv.Dominant > 0 {
		dom = fmt.Sprintf("%.1f Hz", lv.Dominant)
	}

	return fmt.Sprintf("rms %.3f  peak %.1f dBFS  dominant %s", lv.RMS, lv.PeakDB, dom)
}

func fit(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}

	return s + strings.Repeat(" ", width-len(s))
}
