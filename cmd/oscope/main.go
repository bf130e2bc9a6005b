// Command oscope plays a filtered oscillator on the default audio device
// and draws its output as a text oscilloscope.
//
// Usage:
//
//	oscope [flags]
//
// Keys are read from stdin; press 'h' for the key map. Log output goes to
// stderr and is best redirected while the scope is drawing.
//
// Examples:
//
//	oscope
//	oscope -freq 220 -wave saw -filter lpf -cutoff 800 -q 4
//	oscope -log-level debug 2>oscope.log
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/pipeline"
	"github.com/cwbudde/algo-synth/internal/audio"
	"github.com/cwbudde/algo-synth/internal/control"
	"github.com/cwbudde/algo-synth/internal/scope"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "oscope: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "oscope: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	logger, err := newLogger(os.Stderr, cfg.logLevel)
	if err != nil {
		return err
	}

	features := cpu.DetectFeatures()
	logger.Info("cpu features",
		"arch", features.Architecture,
		"sse2", features.HasSSE2,
		"avx2", features.HasAVX2,
		"neon", features.HasNEON)

	p, err := pipeline.New(
		pipeline.WithProcessorOptions(core.WithSampleRate(cfg.sampleRate), core.WithBlockSize(cfg.blockSize)),
		pipeline.WithScopeSize(cfg.scopeSize),
		pipeline.WithSeed(cfg.seed),
		pipeline.WithLogger(logger),
		pipeline.WithParams(cfg.params),
	)
	if err != nil {
		return err
	}

	an, err := scope.NewAnalyzer(cfg.sampleRate, analyzerSize(cfg.scopeSize))
	if err != nil {
		return err
	}

	stream, err := audio.NewStream(p, cfg.blockSize)
	if err != nil {
		return err
	}

	player, err := audio.Open(int(cfg.sampleRate), 0, stream)
	if err != nil {
		return err
	}
	defer closePlayer(player, logger)

	player.Start()
	logger.Info("audio started",
		"rate", p.Config().SampleRate,
		"block", p.Config().BlockSize,
		"block_duration", time.Duration(p.Config().FrameDuration()*float64(time.Second)))

	tty, err := control.OpenTerminal(os.Stdin)
	if err != nil {
		logger.Warn("keys are read without raw mode", "err", err)
	} else {
		defer func() {
			if err := tty.Restore(); err != nil {
				logger.Error("restore terminal", "err", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var status atomic.Pointer[string]
	setStatus := func(s string) { status.Store(&s) }
	setStatus("press 'h' for help")

	display := scope.NewDisplay(p.Scope(), an, os.Stdout, scope.TerminalSize(int(os.Stdout.Fd())), cfg.scopeSize)

	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		defer cancel()

		if err := display.Run(ctx, cfg.fps, func() string { return *status.Load() }); err != nil {
			logger.Error("display stopped", "err", err)
		}
	}()

	surface := control.NewSurface(p.Controller())
	keysDone := make(chan error, 1)

	go func() {
		keysDone <- control.Run(ctx, os.Stdin, surface, func(a control.Action, err error) {
			switch {
			case err != nil:
				setStatus(surface.Status())
			case a == control.ActionHelp:
				setStatus(control.HelpText())
			case a == control.ActionWaveformMenu:
				setStatus(control.WaveformMenu())
			case a == control.ActionFilterMenu:
				setStatus(control.FilterMenu())
			case a == control.ActionUpdated:
				setStatus(surface.Status())
			}
		})
	}()

	// A pending stdin read cannot be interrupted; on a signal the key
	// goroutine is left behind and ends with the process.
	var keyErr error
	select {
	case keyErr = <-keysDone:
	case <-ctx.Done():
	}

	cancel()
	wg.Wait()

	_ = control.WriteRaw(os.Stdout, "\n")

	logStats(logger, p)

	if keyErr != nil && !errors.Is(keyErr, context.Canceled) {
		return keyErr
	}

	return player.Err()
}

func closePlayer(player *audio.Player, logger *slog.Logger) {
	if err := player.Close(); err != nil {
		logger.Error("close audio", "err", err)
	}
}

func logStats(logger *slog.Logger, p *pipeline.Pipeline) {
	st := p.Stats()
	ctrl := p.Controller()
	sc := p.Scope()

	logger.Info("session done",
		"blocks", st.Blocks,
		"frames", st.Frames,
		"reconfigurations", st.Reconfigurations,
		"apply_errors", st.ApplyErrors,
		"rejected", ctrl.Rejected(),
		"dropped_events", ctrl.Dropped(),
		"scope_published", sc.Published(),
		"scope_skipped", sc.Skipped())
}

// analyzerSize is the largest power of two that fits the scope window,
// never below 16.
func analyzerSize(window int) int {
	n := 16
	for n*2 <= window {
		n *= 2
	}

	return n
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := resolveLogLevel(level)
	if err != nil {
		return nil, err
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func resolveLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}
