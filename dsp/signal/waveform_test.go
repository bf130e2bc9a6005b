package signal

import (
	"errors"
	"testing"
)

func TestParseWaveform(t *testing.T) {
	tests := []struct {
		in   string
		want Waveform
	}{
		{"sine", Sine},
		{" SAW ", Sawtooth},
		{"sawtooth", Sawtooth},
		{"tri", Triangle},
		{"square", Square},
		{"white", WhiteNoise},
		{"Pink", PinkNoise},
	}
	for _, tt := range tests {
		got, err := ParseWaveform(tt.in)
		if err != nil {
			t.Fatalf("ParseWaveform(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseWaveform(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseWaveform("organ"); !errors.Is(err, ErrUnknownWaveform) {
		t.Fatalf("ParseWaveform(organ) error = %v, want ErrUnknownWaveform", err)
	}
}

func TestWaveformStringRoundTrip(t *testing.T) {
	ws := Waveforms()
	if len(ws) != 6 {
		t.Fatalf("len(Waveforms()) = %d, want 6", len(ws))
	}
	for _, w := range ws {
		got, err := ParseWaveform(w.String())
		if err != nil || got != w {
			t.Fatalf("ParseWaveform(%q) = %v, %v", w.String(), got, err)
		}
	}
	if s := Waveform(9).String(); s != "Waveform(9)" {
		t.Fatalf("String() = %q", s)
	}
}

func TestPeriodic(t *testing.T) {
	for _, w := range Waveforms() {
		want := w != WhiteNoise && w != PinkNoise
		if w.Periodic() != want {
			t.Fatalf("%v.Periodic() = %v, want %v", w, w.Periodic(), want)
		}
	}
}
