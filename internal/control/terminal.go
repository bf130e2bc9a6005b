package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when raw key input is requested on a file
// that is not a terminal.
var ErrNotTerminal = errors.New("control: not a terminal")

// Terminal holds a file in raw mode so single key presses arrive without
// echo or line buffering.
type Terminal struct {
	fd    int
	state *term.State
}

// OpenTerminal switches f to raw mode. Call Restore before exiting.
func OpenTerminal(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%w: %s", ErrNotTerminal, f.Name())
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("control: raw mode: %w", err)
	}

	return &Terminal{fd: fd, state: state}, nil
}

// Restore puts the terminal back into the mode it had before OpenTerminal.
// Calling it more than once is harmless.
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}

	err := term.Restore(t.fd, t.state)
	t.state = nil

	if err != nil {
		return fmt.Errorf("control: restore terminal: %w", err)
	}

	return nil
}

// Run reads keys from r and dispatches them until a quit key, EOF or ctx
// is done. handle sees every key's action and error; a rejected parameter
// does not stop the loop. Run returns nil on quit and EOF.
func Run(ctx context.Context, r io.Reader, s *Surface, handle func(Action, error)) error {
	buf := make([]byte, 1)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(buf)
		if n > 0 {
			action, derr := s.Dispatch(buf[0])
			if handle != nil {
				handle(action, derr)
			}

			if action == ActionQuit {
				return nil
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("control: read key: %w", err)
		}
	}
}
