package control

import (
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/algo-synth/dsp/filter/design"
	"github.com/cwbudde/algo-synth/dsp/signal"
)

const rule = "-------------------------------------\n"

// HelpText lists the key bindings.
func HelpText() string {
	var b strings.Builder

	b.WriteString(rule)
	b.WriteString("Audio Terminal Waveform Oscilloscope\n")
	b.WriteString(rule)
	b.WriteString("'h' - Help\n")
	b.WriteString("'w' - Select Waveform\n")
	b.WriteString("'=' - Increase Volume\n")
	b.WriteString("'-' - Decrease Volume\n")
	b.WriteString("'<' - Decrement Frequency\n")
	b.WriteString("'>' - Increment Frequency\n")
	b.WriteString("'f' - Select Filter, 'b' - Bypass Filter\n")
	b.WriteString("'[' ']' - Cutoff Down/Up\n")
	b.WriteString("'{' '}' - Q Down/Up\n")
	b.WriteString("'r' - Reapply Filter\n")
	b.WriteString("' ' - Key On, '.' - Key Off\n")
	b.WriteString("'e' - Toggle Envelope\n")
	b.WriteString("'i' - Toggle Input, 's' - Toggle Synth\n")
	b.WriteString("'q' - Quit\n")
	b.WriteString(rule)

	return b.String()
}

// WaveformMenu lists the waveform keys.
func WaveformMenu() string {
	var b strings.Builder

	b.WriteString(rule)
	b.WriteString("Choose Waveform:\n")
	for _, w := range signal.Waveforms() {
		fmt.Fprintf(&b, "'%d' - %v\n", int(w), w)
	}
	b.WriteString(rule)

	return b.String()
}

// FilterMenu lists the keys accepted after 'f'.
func FilterMenu() string {
	var b strings.Builder

	b.WriteString(rule)
	b.WriteString("Choose Filter:\n")
	for i, k := range design.Kinds() {
		fmt.Fprintf(&b, "'%d' - %v\n", i, k)
	}
	fmt.Fprintf(&b, "'b' - %v\n", design.Bypass)
	b.WriteString(rule)

	return b.String()
}

// WriteRaw writes text to a terminal in raw mode, where a bare newline no
// longer returns the carriage.
func WriteRaw(w io.Writer, text string) error {
	_, err := io.WriteString(w, strings.ReplaceAll(text, "\n", "\r\n"))
	return err
}
