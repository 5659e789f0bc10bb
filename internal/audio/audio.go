// Package audio implements the ZX Spectrum's 1-bit beeper/tape mixer: a
// bandlimited delay-line synthesizer (spec.md §4.7's recommended design,
// not the boxcar diagnostic mode) that turns level transitions on port
// 0xFE's bits 3/4 into 16-bit PCM. Grounded on the teacher's audio_chip.go
// for its SetOutput/ReadSample/ring-buffer shape (SoundChip.HandleRegisterWrite
// gating writes on a mutex, ReadSample draining samples for the host
// callback) and on original_source/peripherals/Audio.cpp for going beyond
// its boxcar-only design, per spec.md's "recommended" note.
package audio

import (
	"math"
	"sync"
)

const (
	// SampleRate is the host PCM rate this mixer renders into.
	SampleRate = 44100

	// cpuHz is the Z80 clock the beeper's cycle timestamps are measured in.
	cpuHz = 3_500_000

	// kernelHalfWidth and kernelPhases parameterize the windowed-sinc
	// impulse stamped into the delay line on every level transition.
	kernelHalfWidth = 8
	kernelPhases    = 64
	kernelWidth     = 2*kernelHalfWidth + 1

	ringSize = 1 << 16 // samples; comfortably more than one frame's worth
)

// kernel holds a precomputed windowed-sinc low-pass kernel for each of the
// 64 sub-sample phase offsets a transition can land on.
var kernel [kernelPhases][kernelWidth]float32

func init() {
	const rolloff = 0.9 // treble-rolloff coefficient
	for phase := 0; phase < kernelPhases; phase++ {
		frac := float64(phase) / kernelPhases
		for i := 0; i < kernelWidth; i++ {
			x := float64(i-kernelHalfWidth) - frac
			kernel[phase][i] = float32(sinc(x*rolloff) * blackman(x, kernelHalfWidth))
		}
	}
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// blackman evaluates a Blackman window over x in [-half, half].
func blackman(x float64, half int) float64 {
	n := x/float64(half) + 1 // maps [-half,half] -> [0,2]
	if n < 0 || n > 2 {
		return 0
	}
	const a0, a1, a2 = 0.42, 0.5, 0.08
	t := n * math.Pi
	return a0 - a1*math.Cos(t) + a2*math.Cos(2*t)
}

// Mixer is the bandlimited 1-bit beeper/tape audio component. The emulated
// core calls SetOutput (producer) while the host audio callback calls Fill
// (consumer); spec.md §5 requires these to be safe to run concurrently, so
// both take a single mutex around the shared delay line.
type Mixer struct {
	mu sync.Mutex

	delay      [ringSize]float32
	writeCycle int64 // cpu-cycle timestamp corresponding to readCursor's sample
	readCursor int

	dcState float32 // one-pole DC blocker state

	lastLevel float32

	cycleToSample float64 // cpu cycles consumed per host sample

	Underruns, Overruns uint64
}

// New constructs a Mixer rendering at SampleRate.
func New() *Mixer {
	return &Mixer{cycleToSample: float64(cpuHz) / float64(SampleRate)}
}

func combinedLevel(beeperOn, tapeOn bool) float32 {
	var v float32
	if beeperOn {
		v += 1.0
	}
	if tapeOn {
		v += 0.25 // the tape-input ghost is much quieter than the beeper
	}
	return v
}

// SetOutput latches a beeper/tape level change at cpu cycle nowCycles.
// Idempotent: a call that doesn't change the combined level returns
// immediately without touching the delay line, per spec.md §4.7.
func (m *Mixer) SetOutput(nowCycles int64, beeperOn, tapeOn bool) {
	newLevel := combinedLevel(beeperOn, tapeOn)

	m.mu.Lock()
	defer m.mu.Unlock()

	if newLevel == m.lastLevel {
		return
	}
	m.stampImpulse(nowCycles, newLevel-m.lastLevel)
	m.lastLevel = newLevel
}

// stampImpulse adds delta*kernel into the delay line at the fractional
// sample position nowCycles maps to, relative to the mixer's cycle
// baseline (writeCycle, set by the previous Fill call).
func (m *Mixer) stampImpulse(nowCycles int64, delta float32) {
	samplePos := float64(nowCycles-m.writeCycle) / m.cycleToSample
	center := int(samplePos)
	frac := samplePos - float64(center)
	phase := int(frac * kernelPhases)
	if phase < 0 {
		phase = 0
	} else if phase >= kernelPhases {
		phase = kernelPhases - 1
	}

	k := &kernel[phase]
	for i := 0; i < kernelWidth; i++ {
		idx := (m.readCursor + center + i - kernelHalfWidth) & (ringSize - 1)
		m.delay[idx] += delta * k[i]
	}
}

// Fill drains up to len(out) samples into out as signed 16-bit PCM,
// advancing the mixer's cycle baseline to nowCycles. If the core has not
// produced enough transitions to cover span.len (an underrun), the
// remainder is filled with the last known level rather than silence, per
// spec.md §4.7; over-advancing the baseline past unread samples counts an
// overrun instead of losing them silently.
func (m *Mixer) Fill(nowCycles int64, out []int16) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expectedSamples := int(float64(nowCycles-m.writeCycle) / m.cycleToSample)
	if expectedSamples < len(out) {
		m.Underruns++
	} else if expectedSamples > len(out)+ringSize {
		m.Overruns++
	}

	const dcR = 0.995
	for i := range out {
		idx := m.readCursor & (ringSize - 1)
		raw := m.delay[idx]
		m.delay[idx] = 0

		// One-pole DC blocker: y[n] = x[n] - x[n-1] + r*y[n-1]. A sustained
		// level shows up as a train of equal-and-opposite kernel impulses
		// already resident in the delay line, so no separate "hold the
		// last level" step is needed here.
		blocked := raw - m.dcState + dcR*m.dcState
		m.dcState = blocked

		v := blocked
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = int16(v * 16000)

		m.readCursor++
	}
	m.writeCycle = nowCycles
}
