package pipeline

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/envelope"
	"github.com/cwbudde/algo-synth/dsp/filter/multimode"
	"github.com/cwbudde/algo-synth/dsp/signal"
)

const (
	defaultScopeSize = 1024
	defaultQueueSize = 16
)

// Option configures a Pipeline.
type Option func(*options) error

type options struct {
	processor core.ProcessorConfig
	scopeSize int
	queueSize int
	seed      int64
	logger    *slog.Logger
	params    Params
}

// WithProcessorOptions sets sample rate and block size.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(o *options) error {
		for _, opt := range opts {
			if opt != nil {
				opt(&o.processor)
			}
		}

		return nil
	}
}

// WithScopeSize sets the length of the window handed to the renderer.
func WithScopeSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("pipeline: scope size must be > 0: %d", n)
		}

		o.scopeSize = n

		return nil
	}
}

// WithEventQueueSize sets how many key events may be pending.
func WithEventQueueSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("pipeline: event queue size must be > 0: %d", n)
		}

		o.queueSize = n

		return nil
	}
}

// WithSeed seeds the noise waveforms.
func WithSeed(seed int64) Option {
	return func(o *options) error {
		o.seed = seed
		return nil
	}
}

// WithLogger sets the logger of the control side. The audio path never
// logs.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		if l != nil {
			o.logger = l
		}

		return nil
	}
}

// WithParams sets the initial parameters.
func WithParams(p Params) Option {
	return func(o *options) error {
		o.params = p
		return nil
	}
}

// Stats is a snapshot of audio-side counters, safe to read from any
// goroutine.
type Stats struct {
	Blocks           uint64
	Frames           uint64
	Reconfigurations uint64
	ApplyErrors      uint64
	Envelope         envelope.State
}

// Pipeline renders oscillator or input through the filter, volume and
// envelope into interleaved stereo frames.
//
// Process must be called from one goroutine at a time. Everything else
// goes through the Controller and the Scope.
type Pipeline struct {
	cfg    core.ProcessorConfig
	ctrl   *Controller
	scope  *Scope
	logger *slog.Logger

	osc    *signal.Oscillator
	filter *multimode.Filter
	env    *envelope.ADSR

	current *Params
	ring    []float32
	ringPos int

	blocks      atomic.Uint64
	frames      atomic.Uint64
	reconfigs   atomic.Uint64
	applyErrors atomic.Uint64
	envState    atomic.Int32
}

// New builds a pipeline. Without options it runs at 44.1 kHz with
// 1024-frame blocks and DefaultParams.
func New(opts ...Option) (*Pipeline, error) {
	o := options{
		processor: core.DefaultProcessorConfig(),
		scopeSize: defaultScopeSize,
		queueSize: defaultQueueSize,
		logger:    slog.New(slog.DiscardHandler),
		params:    DefaultParams(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	sr := o.processor.SampleRate
	if err := o.params.Validate(sr); err != nil {
		return nil, fmt.Errorf("pipeline: initial parameters: %w", err)
	}

	osc, err := signal.NewOscillator(sr,
		signal.WithSeed(o.seed),
		signal.WithWaveform(o.params.Waveform),
		signal.WithFrequency(o.params.Frequency),
	)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	filter, err := multimode.New(sr,
		multimode.WithKind(o.params.FilterKind),
		multimode.WithCutoff(o.params.Cutoff),
		multimode.WithQ(o.params.Q),
		multimode.WithGain(o.params.FilterGain),
	)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	env, err := envelope.New(sr)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	p := &Pipeline{
		cfg:    o.processor,
		ctrl:   newController(sr, o.params, o.queueSize, o.logger),
		scope:  newScope(o.scopeSize),
		logger: o.logger,
		osc:    osc,
		filter: filter,
		env:    env,
		ring:   make([]float32, o.scopeSize),
	}
	p.current = p.ctrl.params.Load()
	p.envState.Store(int32(env.State()))

	o.logger.Info("pipeline ready",
		"sampleRate", sr,
		"blockSize", o.processor.BlockSize,
		"budget", o.processor.FrameDuration(),
		"scope", o.scopeSize,
	)

	return p, nil
}

// Config returns sample rate and block size.
func (p *Pipeline) Config() core.ProcessorConfig { return p.cfg }

// Controller returns the control-side handle.
func (p *Pipeline) Controller() *Controller { return p.ctrl }

// Scope returns the renderer hand-off.
func (p *Pipeline) Scope() *Scope { return p.scope }

// Stats returns the audio-side counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Blocks:           p.blocks.Load(),
		Frames:           p.frames.Load(),
		Reconfigurations: p.reconfigs.Load(),
		ApplyErrors:      p.applyErrors.Load(),
		Envelope:         envelope.State(p.envState.Load()),
	}
}

// Process renders len(out)/2 interleaved stereo frames. in holds one mono
// input sample per frame; missing input samples read as silence. A
// trailing odd sample in out is zeroed.
//
// Parameters and key events are applied once, before the first frame.
func (p *Pipeline) Process(in, out []float32) {
	p.applyControl()

	par := p.current
	frames := len(out) / 2

	for i := range frames {
		var x float64

		switch {
		case par.Synth:
			x = p.osc.GenerateSample()
		case par.Input && i < len(in):
			x = float64(in[i])
		}

		y := p.filter.ProcessSample(x) * par.Volume
		if par.Envelope {
			y *= p.env.Process()
		}

		s := float32(y)
		out[2*i] = s
		out[2*i+1] = s

		p.ring[p.ringPos] = s
		p.ringPos++

		if p.ringPos == len(p.ring) {
			p.ringPos = 0
		}
	}

	if len(out)%2 == 1 {
		out[len(out)-1] = 0
	}

	p.scope.publish(p.ring, p.ringPos)

	p.blocks.Add(1)
	p.frames.Add(uint64(frames))
	p.reconfigs.Store(p.filter.Reconfigurations())
	p.envState.Store(int32(p.env.State()))
}

// Render is Process without an input frame.
func (p *Pipeline) Render(out []float32) {
	p.Process(nil, out)
}

func (p *Pipeline) applyControl() {
	if next := p.ctrl.params.Load(); next != p.current {
		p.applyParams(p.current, next)
		p.current = next
	}

	for {
		select {
		case ev := <-p.ctrl.events:
			switch ev {
			case KeyOn:
				p.env.KeyOn()
			case KeyOff:
				p.env.KeyOff()
			}
		default:
			return
		}
	}
}

func (p *Pipeline) applyParams(prev, next *Params) {
	if next.Frequency != prev.Frequency {
		p.osc.SetFrequency(next.Frequency)
	}

	if next.Waveform != prev.Waveform {
		if err := p.osc.SetWaveform(next.Waveform); err != nil {
			p.applyErrors.Add(1)
		}
	}

	p.filter.SetCutoff(next.Cutoff)
	p.filter.SetQ(next.Q)
	p.filter.SetGain(next.FilterGain)

	if err := p.filter.SetKind(next.FilterKind); err != nil {
		p.applyErrors.Add(1)
	}

	if next.FilterEpoch != prev.FilterEpoch {
		if err := p.filter.Reconfigure(); err != nil {
			p.applyErrors.Add(1)
		}
	}
}
