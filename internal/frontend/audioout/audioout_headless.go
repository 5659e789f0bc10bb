//go:build headless

package audioout

import "github.com/specbolt/zxspectrum/internal/audio"

// Player is a no-op stand-in for builds with no audio backend.
type Player struct{}

// New returns a Player that discards audio, for headless builds.
func New(_ *audio.Mixer) (*Player, error) { return &Player{}, nil }

func (p *Player) Start()       {}
func (p *Player) Close() error { return nil }
