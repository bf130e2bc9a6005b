package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/filter/design"
	"github.com/cwbudde/algo-synth/dsp/pipeline"
	"github.com/cwbudde/algo-synth/dsp/signal"
)

type config struct {
	sampleRate float64
	blockSize  int
	scopeSize  int
	fps        int
	seed       int64
	logLevel   string
	params     pipeline.Params
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	def := core.DefaultProcessorConfig()
	params := pipeline.DefaultParams()

	fs := flag.NewFlagSet("oscope", flag.ContinueOnError)
	fs.SetOutput(stderr)

	rate := fs.Float64("rate", def.SampleRate, "sample rate in Hz")
	block := fs.Int("block", def.BlockSize, "frames rendered per audio block")
	freq := fs.Float64("freq", params.Frequency, "oscillator frequency in Hz")
	wave := fs.String("wave", params.Waveform.String(), "waveform: sine, saw, triangle, square, white, pink")
	volume := fs.Float64("volume", params.Volume, "output volume in [0, 1]")
	filter := fs.String("filter", params.FilterKind.String(), "filter kind: bypass, lpf1, hpf1, lpf, hpf, bpf, bsf, butter-lpf, butter-hpf, butter-bpf, butter-bsf")
	cutoff := fs.Float64("cutoff", params.Cutoff, "filter cutoff in Hz")
	q := fs.Float64("q", params.Q, "filter quality factor")
	scopeSize := fs.Int("scope", 1024, "oscilloscope window in samples")
	fps := fs.Int("fps", 30, "oscilloscope frames per second")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn, error")
	seed := fs.Int64("seed", 1, "noise seed")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: oscope [flags]\n\n")
		fmt.Fprintf(stderr, "Plays a filtered oscillator and draws it as a text oscilloscope.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w, err := signal.ParseWaveform(*wave)
	if err != nil {
		return config{}, err
	}

	kind, err := design.ParseKind(*filter)
	if err != nil {
		return config{}, err
	}

	if *block <= 0 {
		return config{}, fmt.Errorf("block size must be > 0: %d", *block)
	}

	params.Frequency = *freq
	params.Waveform = w
	params.Volume = *volume
	params.FilterKind = kind
	params.Cutoff = *cutoff
	params.Q = *q

	if err := params.Validate(*rate); err != nil {
		return config{}, err
	}

	return config{
		sampleRate: *rate,
		blockSize:  *block,
		scopeSize:  *scopeSize,
		fps:        *fps,
		seed:       *seed,
		logLevel:   *logLevel,
		params:     params,
	}, nil
}
