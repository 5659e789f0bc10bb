//go:build !headless

// Package audioout drains internal/audio's ring buffer to the host speaker
// via oto. Grounded on the teacher's audio_backend_oto.go OtoPlayer: a
// context created once at the configured sample rate, an oto.Player whose
// Read callback is serviced by pulling samples out of the emulated core
// instead of a synthesizer chip.
package audioout

import (
	"encoding/binary"

	"github.com/ebitengine/oto/v3"

	"github.com/specbolt/zxspectrum/internal/audio"
)

// Player streams a Mixer's PCM output to the host's default audio device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	mixer  *audio.Mixer
	cycles int64
}

// New creates an oto context at audio.SampleRate and wires it to mixer.
func New(mixer *audio.Mixer) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	p := &Player{ctx: ctx, mixer: mixer}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Read implements io.Reader for oto.Player: it fills p with PCM samples
// drained from the mixer's ring buffer, advancing the mixer's cycle
// clock by the number of 3.5MHz T-states those samples correspond to.
func (p *Player) Read(buf []byte) (int, error) {
	samples := make([]int16, len(buf)/2)
	cyclesPerSample := int64(3_500_000) / int64(audio.SampleRate)
	p.cycles += int64(len(samples)) * cyclesPerSample
	p.mixer.Fill(p.cycles, samples)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return len(samples) * 2, nil
}

// Start begins playback.
func (p *Player) Start() { p.player.Play() }

// Close stops playback and releases the player.
func (p *Player) Close() error {
	p.player.Close()
	return nil
}
