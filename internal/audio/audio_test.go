package audio

import "testing"

func TestSetOutputIdempotentWhenLevelUnchanged(t *testing.T) {
	m := New()
	m.SetOutput(0, true, false)
	before := m.delay
	m.SetOutput(100, true, false) // same combined level, should be a no-op
	if before != m.delay {
		t.Fatal("SetOutput mutated the delay line on an unchanged level")
	}
}

func TestFillProducesSamplesWithoutPanicking(t *testing.T) {
	m := New()
	m.SetOutput(0, true, false)
	m.SetOutput(1750, false, false)

	out := make([]int16, 256)
	m.Fill(int64(cpuHz/100), out)

	var nonZero bool
	for _, v := range out {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatal("expected a beeper transition to produce a non-silent sample")
	}
}

func TestFillCountsUnderrunWhenSpanExceedsCycleGap(t *testing.T) {
	m := New()
	out := make([]int16, 256)
	m.Fill(int64(cpuHz/1000), out) // 1 ms of cycles (~44 samples), 256 samples requested
	if m.Underruns == 0 {
		t.Fatal("expected an underrun to be counted")
	}
}

func TestKernelIsSymmetricAtZeroPhase(t *testing.T) {
	k := kernel[0]
	for i := 0; i < kernelWidth/2; i++ {
		if math64Diff(k[i], k[kernelWidth-1-i]) > 1e-4 {
			t.Fatalf("kernel not symmetric at phase 0: %v", k)
		}
	}
}

func math64Diff(a, b float32) float32 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
