// Package control maps single key presses onto a pipeline controller.
package control

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/filter/design"
	"github.com/cwbudde/algo-synth/dsp/pipeline"
	"github.com/cwbudde/algo-synth/dsp/signal"
)

// ErrUnknownFilterKey is returned when the key after 'f' is not a digit.
var ErrUnknownFilterKey = errors.New("control: filter selection expects a digit")

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// Controller is the subset of *pipeline.Controller the key map drives.
type Controller interface {
	AdjustVolume(delta float64) (float64, error)
	AdjustFrequency(delta float64) (float64, error)
	SetWaveform(w signal.Waveform) error
	SetFilterKind(kind design.Kind) error
	StepCutoff(steps int) (float64, error)
	StepQ(steps int) (float64, error)
	ReapplyFilter() error
	KeyOn() error
	KeyOff() error
	ToggleEnvelope() bool
	ToggleInput() bool
	ToggleSynth() bool
}

var _ Controller = (*pipeline.Controller)(nil)

// Action tells the caller what a key asked for beyond the parameter change
// it may already have made.
type Action int

const (
	ActionNone Action = iota
	ActionUpdated
	ActionHelp
	ActionWaveformMenu
	ActionFilterMenu
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionUpdated:
		return "updated"
	case ActionHelp:
		return "help"
	case ActionWaveformMenu:
		return "waveform-menu"
	case ActionFilterMenu:
		return "filter-menu"
	case ActionQuit:
		return "quit"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Surface translates key presses into controller calls. It keeps the
// pending state of two-key sequences and a one-line status of the last
// change. A Surface is used from a single goroutine.
type Surface struct {
	ctrl          Controller
	filterPending bool
	status        string
}

// NewSurface returns a key map driving ctrl.
func NewSurface(ctrl Controller) *Surface {
	return &Surface{ctrl: ctrl}
}

// Status describes the last accepted change or rejection.
func (s *Surface) Status() string { return s.status }

// FilterPending reports whether the next key selects a filter kind.
func (s *Surface) FilterPending() bool { return s.filterPending }

// Dispatch handles one key. Keys without a binding return ActionNone and no
// error. A rejected parameter returns the controller's error; the
// parameters are then unchanged.
func (s *Surface) Dispatch(key byte) (Action, error) {
	if s.filterPending {
		s.filterPending = false
		return s.selectFilter(key)
	}

	switch key {
	case 'h', '?':
		return ActionHelp, nil
	case 'w':
		return ActionWaveformMenu, nil
	case 'q', keyCtrlC:
		return ActionQuit, nil

	case '0', '1', '2', '3', '4', '5':
		w := signal.Waveform(key - '0')
		return s.updated(s.ctrl.SetWaveform(w), "waveform %v", w)

	case '=', '+':
		v, err := s.ctrl.AdjustVolume(pipeline.VolumeStep)
		return s.updated(err, "volume %.2f", v)
	case '-', '_':
		v, err := s.ctrl.AdjustVolume(-pipeline.VolumeStep)
		return s.updated(err, "volume %.2f", v)

	case '<', ',':
		f, err := s.ctrl.AdjustFrequency(-pipeline.FrequencyStep)
		return s.updated(err, "frequency %.0f Hz", f)
	case '>':
		f, err := s.ctrl.AdjustFrequency(pipeline.FrequencyStep)
		return s.updated(err, "frequency %.0f Hz", f)

	case 'f':
		s.filterPending = true
		return ActionFilterMenu, nil
	case 'b':
		return s.updated(s.ctrl.SetFilterKind(design.Bypass), "filter %v", design.Bypass)
	case '[':
		c, err := s.ctrl.StepCutoff(-1)
		return s.updated(err, "cutoff %.0f Hz", c)
	case ']':
		c, err := s.ctrl.StepCutoff(1)
		return s.updated(err, "cutoff %.0f Hz", c)
	case '{':
		q, err := s.ctrl.StepQ(-1)
		return s.updated(err, "Q %.3f", q)
	case '}':
		q, err := s.ctrl.StepQ(1)
		return s.updated(err, "Q %.3f", q)
	case 'r':
		return s.updated(s.ctrl.ReapplyFilter(), "filter reapplied")

	case ' ':
		return s.updated(s.ctrl.KeyOn(), "key on")
	case '.':
		return s.updated(s.ctrl.KeyOff(), "key off")
	case 'e':
		return s.updated(nil, "envelope %s", onOff(s.ctrl.ToggleEnvelope()))
	case 'i':
		return s.updated(nil, "input %s", onOff(s.ctrl.ToggleInput()))
	case 's':
		return s.updated(nil, "synth %s", onOff(s.ctrl.ToggleSynth()))
	}

	return ActionNone, nil
}

func (s *Surface) selectFilter(key byte) (Action, error) {
	switch {
	case key == keyEscape:
		s.status = "filter selection cancelled"
		return ActionNone, nil
	case key == 'b':
		return s.updated(s.ctrl.SetFilterKind(design.Bypass), "filter %v", design.Bypass)
	case key < '0' || key > '9':
		err := fmt.Errorf("%w: %q", ErrUnknownFilterKey, key)
		s.status = err.Error()
		return ActionNone, err
	}

	kind := design.FirstOrderLowpass + design.Kind(key-'0')

	return s.updated(s.ctrl.SetFilterKind(kind), "filter %v", kind)
}

func (s *Surface) updated(err error, format string, args ...any) (Action, error) {
	if err != nil {
		s.status = err.Error()
		return ActionNone, err
	}

	s.status = fmt.Sprintf(format, args...)

	return ActionUpdated, nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}

	return "off"
}
