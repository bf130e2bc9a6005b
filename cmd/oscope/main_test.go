package main

import (
	"bytes"
	"errors"
	"flag"
	"log/slog"
	"strings"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/filter/design"
	"github.com/cwbudde/algo-synth/dsp/pipeline"
	"github.com/cwbudde/algo-synth/dsp/signal"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.sampleRate != 44100 || cfg.blockSize != 1024 || cfg.scopeSize != 1024 || cfg.fps != 30 {
		t.Fatalf("cfg = %+v", cfg)
	}

	if cfg.params != pipeline.DefaultParams() {
		t.Fatalf("params = %+v", cfg.params)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	cfg, err := parseFlags(strings.Fields(
		"-rate 48000 -block 256 -freq 220 -wave saw -volume 0.25 -filter butter-bpf -cutoff 800 -q 4 -scope 2048 -fps 20 -log-level debug -seed 7",
	), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	p := cfg.params
	if p.Frequency != 220 || p.Waveform != signal.Sawtooth || p.Volume != 0.25 ||
		p.FilterKind != design.ButterworthBandpass || p.Cutoff != 800 || p.Q != 4 {
		t.Fatalf("params = %+v", p)
	}

	if cfg.sampleRate != 48000 || cfg.blockSize != 256 || cfg.scopeSize != 2048 ||
		cfg.fps != 20 || cfg.seed != 7 || cfg.logLevel != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		args string
		want error
	}{
		{"-wave organ", signal.ErrUnknownWaveform},
		{"-filter comb", design.ErrUnknownKind},
		{"-volume 2", pipeline.ErrInvalidVolume},
		{"-cutoff 30000", design.ErrInvalidCutoff},
		{"-q 0", design.ErrInvalidQ},
		{"-h", flag.ErrHelp},
	}

	for _, tt := range tests {
		_, err := parseFlags(strings.Fields(tt.args), &bytes.Buffer{})
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: err = %v, want %v", tt.args, err, tt.want)
		}
	}

	if _, err := parseFlags([]string{"-block", "0"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for zero block size")
	}

	if _, err := parseFlags([]string{"extra"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for positional arguments")
	}
}

func TestAnalyzerSize(t *testing.T) {
	tests := []struct {
		window int
		want   int
	}{
		{0, 16},
		{16, 16},
		{1000, 512},
		{1024, 1024},
		{3000, 2048},
	}

	for _, tt := range tests {
		if got := analyzerSize(tt.window); got != tt.want {
			t.Fatalf("analyzerSize(%d) = %d, want %d", tt.window, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "level=WARN msg=shown k=1") {
		t.Fatalf("log output = %q", buf.String())
	}

	if _, err := newLogger(&buf, "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}

	if lvl, _ := resolveLogLevel("debug"); lvl != slog.LevelDebug {
		t.Fatalf("debug level = %v", lvl)
	}
}
