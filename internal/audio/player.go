package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays a Stream on the default output device.
//
// oto allows a single context per process, so a program opens at most one
// Player.
type Player struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex // setup and control only
	started bool
}

// Open creates the oto context for sampleRate stereo Float32LE output and
// a player reading from s. bufferSize is the device buffer; 0 lets oto
// choose.
func Open(sampleRate int, bufferSize time.Duration, s *Stream) (*Player, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio: sample rate must be > 0: %d", sampleRate)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: open device: %w", err)
	}
	<-ready

	p := &Player{
		ctx:    ctx,
		player: ctx.NewPlayer(s),
	}
	p.player.SetBufferSize(s.BlockBytes())

	return p, nil
}

// Start begins playback. Calling it twice has no effect.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started && p.player != nil {
		p.player.Play()
		p.started = true
	}
}

// Playing reports whether playback is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.started && p.player != nil && p.player.IsPlaying()
}

// Err returns the error the device reported, if any.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return nil
	}

	return p.player.Err()
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return nil
	}

	err := p.player.Close()
	p.player = nil
	p.started = false

	if err != nil {
		return fmt.Errorf("audio: close player: %w", err)
	}

	return nil
}
