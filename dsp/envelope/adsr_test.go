package envelope

import (
	"errors"
	"math"
	"testing"
)

func mustNew(t *testing.T, sampleRate float64, opts ...Option) *ADSR {
	t.Helper()

	e, err := New(sampleRate, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return e
}

func TestNew_Defaults(t *testing.T) {
	e := mustNew(t, 44100)

	if e.State() != Idle || e.Level() != 0 || e.Target() != 0 {
		t.Fatalf("initial = %v level=%v target=%v", e.State(), e.Level(), e.Target())
	}

	if e.AttackRate() != 0.001 || e.DecayRate() != 0.001 || e.ReleaseRate() != 0.005 || e.Sustain() != 0.5 {
		t.Fatalf("defaults = a%v d%v r%v s%v", e.AttackRate(), e.DecayRate(), e.ReleaseRate(), e.Sustain())
	}

	if got := e.Process(); got != 0 || e.State() != Idle {
		t.Fatalf("Idle Process = %v in %v", got, e.State())
	}
}

func TestNew_Errors(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := New(sr); err == nil {
			t.Fatalf("New(%v) succeeded", sr)
		}
	}

	if _, err := New(44100, WithTimes(0.1, 0, 0.5, 0.1)); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("err = %v, want ErrInvalidTime", err)
	}

	if _, err := New(44100, WithSustain(-1)); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("err = %v, want ErrInvalidLevel", err)
	}
}

func TestAttack_ConvergesWithinCeilInverseRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
	}{
		{"dyadic", 0x1p-10},
		{"tenth", 0.1},
		{"third", 1.0 / 3},
		{"milli", 0.001},
		{"odd", 0.0007},
		{"tenth-milli", 0.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustNew(t, 48000)
			if err := e.SetAttackRate(tt.rate); err != nil {
				t.Fatal(err)
			}

			e.KeyOn()

			steps := int(math.Ceil(1 / tt.rate))
			for i := 1; i < steps; i++ {
				e.Process()

				if e.State() != Attack {
					t.Fatalf("left Attack after %d of %d steps", i, steps)
				}
			}

			if got := e.Process(); got != 1 {
				t.Fatalf("level after %d steps = %v, want 1", steps, got)
			}

			if e.State() != Decay || e.Target() != e.Sustain() {
				t.Fatalf("state=%v target=%v, want decay towards %v", e.State(), e.Target(), e.Sustain())
			}
		})
	}
}

func TestFullCycle(t *testing.T) {
	e := mustNew(t, 48000)
	mustOK(t, e.SetAttackRate(0x1p-4))
	mustOK(t, e.SetDecayRate(0x1p-5))
	mustOK(t, e.SetReleaseRate(0x1p-6))
	mustOK(t, e.SetSustain(0.5))

	e.KeyOn()

	wantStates := []struct {
		steps int
		state State
		level float64
	}{
		{16, Decay, 1},
		{16, Sustain, 0.5},
		{100, Sustain, 0.5},
	}

	for _, w := range wantStates {
		for range w.steps {
			e.Process()
		}

		if e.State() != w.state || e.Level() != w.level {
			t.Fatalf("got %v@%v, want %v@%v", e.State(), e.Level(), w.state, w.level)
		}
	}

	e.KeyOff()

	if e.State() != Release || e.Target() != 0 {
		t.Fatalf("after KeyOff: %v target %v", e.State(), e.Target())
	}

	prev := e.Level()
	for i := 0; i < 32; i++ {
		level := e.Process()
		if level > prev {
			t.Fatalf("release not monotonic at %d: %v > %v", i, level, prev)
		}

		prev = level
	}

	if e.State() != Idle || e.Level() != 0 || e.Active() {
		t.Fatalf("after release: %v@%v", e.State(), e.Level())
	}
}

func TestKeyOff_DuringAttackGoesToRelease(t *testing.T) {
	e := mustNew(t, 48000)
	e.KeyOn()

	for range 10 {
		e.Process()
	}

	peak := e.Level()
	e.KeyOff()

	if e.State() != Release {
		t.Fatalf("state = %v, want release", e.State())
	}

	if got := e.Process(); got >= peak {
		t.Fatalf("level rose after KeyOff: %v >= %v", got, peak)
	}
}

func TestKeyOn_KeepsPositiveTarget(t *testing.T) {
	e := mustNew(t, 48000)
	mustOK(t, e.SetAttackTarget(0.25))
	mustOK(t, e.SetAttackRate(0x1p-3))
	e.KeyOn()

	if e.Target() != 0.25 {
		t.Fatalf("target = %v, want 0.25", e.Target())
	}

	e.Process()
	e.Process()

	if e.Level() != 0.25 || e.State() != Decay {
		t.Fatalf("got %v@%v, want decay@0.25", e.State(), e.Level())
	}
}

func TestReleaseTime_ScalesFromCurrentLevel(t *testing.T) {
	e := mustNew(t, 1000)
	mustOK(t, e.SetValue(0.8))
	mustOK(t, e.SetReleaseTime(0.016))

	e.KeyOff()

	if want := 0.8 / 16; math.Abs(e.ReleaseRate()-want) > 1e-15 {
		t.Fatalf("release rate = %v, want %v", e.ReleaseRate(), want)
	}

	for range 15 {
		e.Process()
	}

	if e.State() != Release {
		t.Fatalf("released early: %v", e.State())
	}

	e.Process()
	e.Process()

	if e.State() != Idle {
		t.Fatalf("state = %v after release time, want idle", e.State())
	}
}

func TestSetReleaseRate_ForgetsReleaseTime(t *testing.T) {
	e := mustNew(t, 1000)
	mustOK(t, e.SetReleaseTime(0.5))
	mustOK(t, e.SetReleaseRate(0x1p-4))
	mustOK(t, e.SetValue(1))

	e.KeyOff()

	if e.ReleaseRate() != 0x1p-4 {
		t.Fatalf("release rate = %v, want raw rate kept", e.ReleaseRate())
	}
}

func TestSetAllTimes(t *testing.T) {
	e := mustNew(t, 1000)
	mustOK(t, e.SetAllTimes(0.001, 0.002, 0.25, 0.004))

	if !near(e.AttackRate(), 1) || !near(e.DecayRate(), 0.375) || !near(e.ReleaseRate(), 0.0625) || e.Sustain() != 0.25 {
		t.Fatalf("rates = a%v d%v r%v s%v", e.AttackRate(), e.DecayRate(), e.ReleaseRate(), e.Sustain())
	}

	before := *e
	if err := e.SetAllTimes(0.1, 0.1, 0.5, math.NaN()); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("err = %v, want ErrInvalidTime", err)
	}

	if *e != before {
		t.Fatal("invalid SetAllTimes changed the envelope")
	}
}

func TestSetTarget_PicksDirection(t *testing.T) {
	e := mustNew(t, 48000)
	mustOK(t, e.SetAttackRate(0x1p-3))
	mustOK(t, e.SetDecayRate(0x1p-3))

	mustOK(t, e.SetTarget(0.75))
	if e.State() != Attack || e.Sustain() != 0.75 {
		t.Fatalf("rising SetTarget: %v sustain %v", e.State(), e.Sustain())
	}

	for range 8 {
		e.Process()
	}

	if e.State() != Sustain || e.Level() != 0.75 {
		t.Fatalf("got %v@%v, want sustain@0.75", e.State(), e.Level())
	}

	mustOK(t, e.SetTarget(0.25))
	if e.State() != Decay {
		t.Fatalf("falling SetTarget: %v", e.State())
	}

	for range 4 {
		e.Process()
	}

	if e.State() != Sustain || e.Level() != 0.25 {
		t.Fatalf("got %v@%v, want sustain@0.25", e.State(), e.Level())
	}

	mustOK(t, e.SetTarget(0.25))
	if e.State() != Sustain {
		t.Fatalf("equal SetTarget changed state to %v", e.State())
	}
}

func TestSetValue_Holds(t *testing.T) {
	e := mustNew(t, 48000)
	mustOK(t, e.SetValue(0.6))

	for range 10 {
		if got := e.Process(); got != 0.6 {
			t.Fatalf("Process = %v, want 0.6", got)
		}
	}

	if e.State() != Sustain || e.Target() != 0.6 || e.Sustain() != 0.6 {
		t.Fatalf("got %v target %v sustain %v", e.State(), e.Target(), e.Sustain())
	}
}

func TestInvalidParametersKeepPrevious(t *testing.T) {
	e := mustNew(t, 48000)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"attack rate zero", func() error { return e.SetAttackRate(0) }, ErrInvalidRate},
		{"decay rate negative", func() error { return e.SetDecayRate(-0.1) }, ErrInvalidRate},
		{"release rate nan", func() error { return e.SetReleaseRate(math.NaN()) }, ErrInvalidRate},
		{"attack time zero", func() error { return e.SetAttackTime(0) }, ErrInvalidTime},
		{"decay time inf", func() error { return e.SetDecayTime(math.Inf(1)) }, ErrInvalidTime},
		{"release time negative", func() error { return e.SetReleaseTime(-1) }, ErrInvalidTime},
		{"sustain negative", func() error { return e.SetSustain(-0.5) }, ErrInvalidLevel},
		{"target nan", func() error { return e.SetTarget(math.NaN()) }, ErrInvalidLevel},
		{"value inf", func() error { return e.SetValue(math.Inf(1)) }, ErrInvalidLevel},
		{"attack target negative", func() error { return e.SetAttackTarget(-1) }, ErrInvalidLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := *e
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}

			if *e != before {
				t.Fatal("rejected parameter changed the envelope")
			}
		})
	}
}

func TestReset(t *testing.T) {
	e := mustNew(t, 48000)
	e.KeyOn()
	e.Process()
	e.Reset()

	if e.State() != Idle || e.Level() != 0 || e.Target() != 0 {
		t.Fatalf("after Reset: %v@%v target %v", e.State(), e.Level(), e.Target())
	}
}

func TestProcessBlock(t *testing.T) {
	e := mustNew(t, 48000)
	mustOK(t, e.SetAttackRate(0.25))
	e.KeyOn()

	buf := make([]float64, 4)
	e.ProcessBlock(buf)

	for i, want := range []float64{0.25, 0.5, 0.75, 1} {
		if buf[i] != want {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want)
		}
	}
}

func TestState_String(t *testing.T) {
	want := map[State]string{
		Attack:    "attack",
		Decay:     "decay",
		Sustain:   "sustain",
		Release:   "release",
		Idle:      "idle",
		State(42): "State(42)",
	}

	for s, w := range want {
		if s.String() != w {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), w)
		}
	}
}

func mustOK(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatal(err)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12
}
