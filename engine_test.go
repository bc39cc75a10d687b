package tms5220

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func voicedFrame(energy, pitch int) Frame {
	return Frame{Kind: Voiced, Energy: energy, Pitch: pitch, K: [10]int{16, 16, 8, 8, 8, 8, 8, 4, 4, 4}}
}

func unvoicedFrame(energy int) Frame {
	return Frame{Kind: Unvoiced, Energy: energy, K: [10]int{20, 10, 6, 4, 0, 0, 0, 0, 0, 0}}
}

// S3: a Voiced frame rendered from a fresh engine should ramp its energy
// up from silence rather than snap immediately to target.
func TestVoicedFrameRampsUpFromSilence(t *testing.T) {
	e := NewEngine()
	frames := []Frame{voicedFrame(12, 40), {Kind: Stop}}
	samples, err := e.RenderFrames(frames, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("expected non-empty output")
	}

	// The engine starts from total silence, so the very first sample
	// must be quieter than one taken once the ramp has settled near the
	// frame's target energy.
	first := abs16(samples[0])
	settled := abs16(samples[SamplesPerFrame-1])
	if settled == 0 {
		t.Fatal("energy never ramped up from silence")
	}
	if first > settled {
		t.Fatalf("first sample (%d) louder than settled sample (%d); expected a ramp-up", first, settled)
	}
}

// S4: an Unvoiced frame (pitch 0) should drive the lattice from noise,
// not chirp, and repeated renders from identical state must match.
func TestUnvoicedFrameDeterministic(t *testing.T) {
	frames := []Frame{unvoicedFrame(10), {Kind: Stop}}

	e1 := NewEngine()
	out1, err1 := e1.RenderFrames(frames, 0)
	if err1 != nil {
		t.Fatalf("unexpected error: %v", err1)
	}

	e2 := NewEngine()
	out2, err2 := e2.RenderFrames(frames, 0)
	if err2 != nil {
		t.Fatalf("unexpected error: %v", err2)
	}

	if len(out1) != len(out2) {
		t.Fatalf("len mismatch: %d vs %d", len(out1), len(out2))
	}
	for i := range out1 {
		if out1[i] != out2[i] {
			t.Fatalf("sample %d differs: %d vs %d", i, out1[i], out2[i])
		}
	}
}

// The safety sample cap must stop rendering and report ErrOverlongSpeech
// when speech never ends on its own (no Stop frame ever pulled).
func TestRenderFramesHitsSafetyCap(t *testing.T) {
	e := NewEngine()
	frames := make([]Frame, 0, 10000)
	for i := 0; i < 10000; i++ {
		frames = append(frames, voicedFrame(10, 40))
	}
	const cap = 1000
	samples, err := e.RenderFrames(frames, cap)
	if !errors.Is(err, ErrOverlongSpeech) {
		t.Fatalf("err = %v, want ErrOverlongSpeech", err)
	}
	if len(samples) != cap {
		t.Fatalf("len(samples) = %d, want %d", len(samples), cap)
	}
}

// Once Silence frames have brought energy and every K to zero, the
// lattice's drive term is zero, so output must decay to and stay at
// zero — it never re-energizes on its own.
func TestSilenceDecaysToZero(t *testing.T) {
	e := NewEngine()
	frames := []Frame{voicedFrame(14, 35), {Kind: Silence}, {Kind: Silence}, {Kind: Stop}}
	samples, err := e.RenderFrames(frames, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tail := samples[len(samples)-SamplesPerInterpPeriod:]
	for _, s := range tail {
		if s != 0 {
			t.Fatalf("tail sample = %d, want 0 once silence has fully settled", s)
		}
	}
}

// Two freshly reset engines fed the same frame sequence must produce
// bit-identical output: every state source (LFSR, chirp cursor, lattice
// delay line, interpolation cursor) must be part of Reset.
func TestDeterminismAcrossResets(t *testing.T) {
	frames := []Frame{voicedFrame(9, 22), unvoicedFrame(6), {Kind: Stop}}

	e := NewEngine()
	first, err := e.RenderFrames(frames, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.Reset()
	second, err := e.RenderFrames(frames, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("len mismatch after reset: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after reset: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestLoadMalformedBitstreamStillRenders(t *testing.T) {
	e := NewEngine()
	// 0x10: a Silence nibble, then energy 1 with no bits left for the
	// rest of that frame. The Silence frame decodes before the truncation.
	samples, err := e.Render([]byte{0x10}, 0)
	if !errors.Is(err, ErrMalformedBitstream) {
		t.Fatalf("err = %v, want ErrMalformedBitstream", err)
	}
	if len(samples) == 0 {
		t.Fatal("expected samples even when the bitstream was truncated")
	}
}

func TestBufferStatusTracksConsumption(t *testing.T) {
	e := NewEngine()
	data := Encode([]Frame{voicedFrame(5, 20), {Kind: Stop}})
	if err := e.Load(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.BufferEmpty() {
		t.Fatal("buffer should not be empty immediately after Load")
	}
	for e.Speaking() {
		e.Step()
	}
	if !e.BufferEmpty() {
		t.Fatal("buffer should be empty once speaking has stopped")
	}
}

func TestStepWhenNotSpeakingReturnsZero(t *testing.T) {
	e := NewEngine()
	if got := e.Step(); got != 0 {
		t.Fatalf("Step() on idle engine = %d, want 0", got)
	}
}

// Rendering must never panic or loop forever for any well-formed frame
// sequence, regardless of kind sequencing.
func TestRenderFramesNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "count")
		frames := make([]Frame, n)
		for i := range frames {
			switch rapid.IntRange(0, 3).Draw(t, "kind") {
			case 0:
				frames[i] = voicedFrame(rapid.IntRange(1, 14).Draw(t, "energy"), rapid.IntRange(1, 63).Draw(t, "pitch"))
			case 1:
				frames[i] = unvoicedFrame(rapid.IntRange(1, 14).Draw(t, "energy"))
			case 2:
				frames[i] = Frame{Kind: Repeat, Repeat: true, Energy: rapid.IntRange(1, 14).Draw(t, "energy"), Pitch: rapid.IntRange(1, 63).Draw(t, "pitch")}
			case 3:
				frames[i] = Frame{Kind: Silence}
			}
		}
		e := NewEngine()
		samples, err := e.RenderFrames(frames, 5000)
		if err != nil {
			assert.Truef(t, errors.Is(err, ErrOverlongSpeech) || errors.Is(err, ErrInvalidFrameParameter),
				"unexpected error: %v", err)
		}
		assert.LessOrEqualf(t, len(samples), 5000, "len(samples) = %d, exceeds cap", len(samples))
	})
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}
