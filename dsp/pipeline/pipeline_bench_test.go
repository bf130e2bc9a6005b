package pipeline

import (
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/filter/design"
)

func BenchmarkProcess(b *testing.B) {
	params := DefaultParams()
	params.FilterKind = design.Lowpass
	params.Envelope = true

	p, err := New(
		WithProcessorOptions(core.WithSampleRate(48000), core.WithBlockSize(512)),
		WithParams(params),
	)
	if err != nil {
		b.Fatal(err)
	}

	_ = p.Controller().KeyOn()

	out := make([]float32, 2*512)

	b.SetBytes(int64(len(out) * 4))
	b.ReportAllocs()

	for b.Loop() {
		p.Render(out)
	}
}
