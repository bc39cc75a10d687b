package tms5220

import (
	"errors"

	"github.com/vossloop/tms5220/frame"
	"github.com/vossloop/tms5220/internal/excitation"
	"github.com/vossloop/tms5220/internal/lattice"
	"github.com/vossloop/tms5220/internal/tables"
)

// Frame, Kind, and the five frame kinds are re-exported from package
// frame so most callers never need to import it directly.
type (
	Frame = frame.Frame
	Kind  = frame.Kind
)

const (
	Voiced   = frame.Voiced
	Unvoiced = frame.Unvoiced
	Repeat   = frame.Repeat
	Silence  = frame.Silence
	Stop     = frame.Stop
)

// Decode and Encode are re-exported from package frame so callers that
// only need the root package (e.g. to pair Engine with a raw bitstream)
// never have to import frame directly.
var (
	Decode = frame.Decode
	Encode = frame.Encode
)

const (
	// SampleRate is the fixed output sample rate in Hz.
	SampleRate = 8000
	// SamplesPerInterpPeriod is the number of samples held at one
	// interpolated parameter value before the next sub-period begins.
	SamplesPerInterpPeriod = 25
	// InterpPeriodsPerFrame is the number of sub-periods per 25ms frame.
	InterpPeriodsPerFrame = 8
	// SamplesPerFrame is SamplesPerInterpPeriod * InterpPeriodsPerFrame.
	SamplesPerFrame = SamplesPerInterpPeriod * InterpPeriodsPerFrame

	// DefaultMaxSamples is Render's safety sample cap when the caller
	// passes 0: 30 seconds at 8kHz.
	DefaultMaxSamples = 30 * SampleRate

	// bufferLowWindow is the byte window buffer_low/buffer_empty are
	// measured against, matching a host's external speech FIFO depth.
	bufferLowWindow = 16
)

// Engine holds all synthesis state for one speech stream: the current
// and target interpolation parameters, the interpolation cursor, the
// excitation sources, and the lattice filter's delay line. An Engine is
// not safe for concurrent use; create one per goroutine.
type Engine struct {
	currentEnergy, targetEnergy int
	currentPitch, targetPitch   int
	currentK, targetK           [10]int

	interpPeriod   int
	sampleInPeriod int

	noise *excitation.NoiseSource
	chirp *excitation.Chirp
	lat   lattice.Filter

	frames   []Frame
	frameIdx int

	speaking bool

	// Buffer accounting for BufferLow/BufferEmpty, meaningful only
	// after Load(bitstream). "Bytes remaining" is measured by
	// re-encoding the frames not yet pulled, capped at the loaded
	// length, so the frame decoder need not expose per-frame bit
	// offsets; these flags are purely informational (§6).
	totalBytes      int
	framesConsumed  []Frame
	haveByteTotal   bool
}

// NewEngine returns an Engine in its power-on state: all parameters
// zero, not speaking.
func NewEngine() *Engine {
	e := &Engine{
		noise: excitation.NewNoiseSource(),
		chirp: excitation.NewChirp(tables.ChirpTable),
	}
	e.Reset()
	return e
}

// Reset restores the engine to its constructor state, bit for bit.
func (e *Engine) Reset() {
	e.currentEnergy, e.targetEnergy = 0, 0
	e.currentPitch, e.targetPitch = 0, 0
	e.currentK, e.targetK = [10]int{}, [10]int{}
	e.interpPeriod, e.sampleInPeriod = 0, 0
	e.noise.Reset()
	e.chirp.Reset()
	e.lat.Reset()
	e.frames = nil
	e.frameIdx = 0
	e.speaking = false
	e.totalBytes = 0
	e.framesConsumed = nil
	e.haveByteTotal = false
}

// Speaking reports whether the engine is still producing output, i.e.
// no Stop frame has been pulled and the frame list is not exhausted
// (talk_status in the data model). It stays true through Silence frames.
func (e *Engine) Speaking() bool { return e.speaking }

// TalkStatus is an alias for Speaking, named to match the status flag
// a host emulating the external FIFO handshake would read.
func (e *Engine) TalkStatus() bool { return e.speaking }

// BufferLow reports whether at most a 16-byte window of the loaded
// bitstream remains unconsumed. It is always false when the engine was
// driven via RenderFrames/LoadFrames rather than a raw bitstream.
func (e *Engine) BufferLow() bool {
	if !e.haveByteTotal {
		return false
	}
	return e.bytesRemaining() <= bufferLowWindow
}

// BufferEmpty reports whether the entire loaded bitstream has been
// consumed. Always false outside the bitstream-driven path.
func (e *Engine) BufferEmpty() bool {
	if !e.haveByteTotal {
		return false
	}
	return e.bytesRemaining() <= 0
}

func (e *Engine) bytesRemaining() int {
	if e.frameIdx >= len(e.frames) {
		return 0
	}
	remaining := len(frame.Encode(e.frames[e.frameIdx:]))
	if remaining > e.totalBytes {
		remaining = e.totalBytes
	}
	return remaining
}

// Load decodes data and buffers the resulting frames, transitioning to
// speaking. Targets become the first frame's values while current_*
// stays zero, so the initial interpolation ramps up from silence. A
// non-nil error (ErrMalformedBitstream) means the stream was truncated
// mid-field; decoding still produced a usable, Stop-terminated frame
// list.
func (e *Engine) Load(data []byte) error {
	e.Reset()
	frames, err := frame.Decode(data)
	e.loadFrames(frames)
	e.totalBytes = len(data)
	e.haveByteTotal = true
	return err
}

// LoadFrames buffers a pre-decoded frame sequence directly, bypassing
// bitstream decoding. Used by the phoneme path and by tests.
func (e *Engine) LoadFrames(frames []Frame) {
	e.Reset()
	e.loadFrames(frames)
}

func (e *Engine) loadFrames(frames []Frame) {
	e.frames = frames
	e.frameIdx = 0
	if len(frames) == 0 {
		e.speaking = false
		return
	}
	e.speaking = true
	e.pullNextFrame()
}

// Step produces one PCM sample and advances every counter. It returns 0
// without advancing anything further than already reached when the
// engine is not speaking.
func (e *Engine) Step() int16 {
	if !e.speaking {
		return 0
	}
	if e.sampleInPeriod == 0 {
		e.advanceInterpolation()
	}

	var exc int32
	if e.currentPitch > 0 {
		exc = e.chirp.Next(e.currentPitch)
	} else {
		exc = e.noise.Next()
	}

	u := float64(exc) * float64(e.currentEnergy)
	sample14 := e.lat.Step(u, e.currentK)
	pcm := clamp16(int32(sample14) * 4)

	e.advance()
	return pcm
}

// Render resets the engine, loads data, and steps until speaking drops
// or maxSamples is reached (0 selects DefaultMaxSamples). If the cap is
// hit first, the accumulated samples are returned with ErrOverlongSpeech.
// A malformed bitstream does not abort rendering: it is surfaced as a
// wrapped error alongside the (still complete) rendered samples.
func (e *Engine) Render(data []byte, maxSamples int) ([]int16, error) {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	loadErr := e.Load(data)

	samples := make([]int16, 0, SamplesPerFrame)
	for e.speaking && len(samples) < maxSamples {
		samples = append(samples, e.Step())
	}

	if e.speaking {
		return samples, joinErrors(loadErr, ErrOverlongSpeech)
	}
	return samples, loadErr
}

// RenderFrames consumes a pre-decoded frame sequence directly. Any frame
// whose parameters are out of range is clamped, surfacing
// ErrInvalidFrameParameter rather than aborting. After the last frame,
// the engine appends one Silence frame, so the parameters decay toward
// silence over one further frame-duration rather than cutting off
// abruptly. A Stop frame in frames ends output at once; the appended
// Silence frame is then never reached.
func (e *Engine) RenderFrames(frames []Frame, maxSamples int) ([]int16, error) {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	clamped := make([]Frame, len(frames)+1)
	var warn error
	for i, f := range frames {
		c, err := f.Clamp()
		if err != nil {
			warn = joinErrors(warn, err)
		}
		clamped[i] = c
	}
	clamped[len(frames)] = Frame{Kind: Silence}

	e.LoadFrames(clamped)

	samples := make([]int16, 0, SamplesPerFrame*len(clamped))
	for e.speaking && len(samples) < maxSamples {
		samples = append(samples, e.Step())
	}

	if e.speaking {
		return samples, joinErrors(warn, ErrOverlongSpeech)
	}
	return samples, warn
}

// advanceInterpolation blends current_* one step toward target_* for the
// sub-period about to start. current_* is a running value carried across
// sub-periods within the frame, not recomputed fresh from the
// frame-boundary value each time: the result of this sub-period's blend
// becomes the base the next sub-period blends from.
//
// Sub-period 0's shift of 0 ("snap") is the frame-boundary promotion in
// advance, which sets current_* to the former targets before the next
// frame is pulled. current_* is therefore held unchanged through
// sub-period 0; on the first frame it stays at zero, so the output
// ramps up from silence.
func (e *Engine) advanceInterpolation() {
	if e.interpPeriod == 0 {
		return
	}
	shift := tables.InterpolationShifts[e.interpPeriod]
	e.currentEnergy = interpolate(e.currentEnergy, e.targetEnergy, shift)
	e.currentPitch = interpolate(e.currentPitch, e.targetPitch, shift)
	for i := range e.currentK {
		e.currentK[i] = interpolate(e.currentK[i], e.targetK[i], shift)
	}
}

func (e *Engine) advance() {
	e.sampleInPeriod++
	if e.sampleInPeriod < SamplesPerInterpPeriod {
		return
	}
	e.sampleInPeriod = 0
	e.interpPeriod++
	if e.interpPeriod < InterpPeriodsPerFrame {
		return
	}
	e.interpPeriod = 0
	e.currentEnergy = e.targetEnergy
	e.currentPitch = e.targetPitch
	e.currentK = e.targetK
	e.pullNextFrame()
}

// pullNextFrame consumes the next buffered frame and sets target_*
// accordingly. It never touches current_*; promotion is the caller's
// responsibility (done once per frame boundary in advance, and skipped
// on the very first frame so the initial ramp starts from silence).
func (e *Engine) pullNextFrame() {
	if e.frameIdx >= len(e.frames) {
		e.speaking = false
		return
	}
	f := e.frames[e.frameIdx]
	e.frameIdx++
	e.framesConsumed = append(e.framesConsumed, f)

	switch f.Kind {
	case Stop:
		e.speaking = false

	case Silence:
		e.targetEnergy = 0
		e.targetPitch = 0
		e.targetK = [10]int{}

	case Repeat:
		e.targetEnergy = tables.EnergyTable[f.Energy]
		e.targetPitch = tables.PitchTable[f.Pitch]
		// K targets intentionally left unchanged: a Repeat frame only
		// updates energy and pitch.

	case Unvoiced:
		e.targetEnergy = tables.EnergyTable[f.Energy]
		e.targetPitch = 0
		for i := 0; i < 4; i++ {
			e.targetK[i] = tables.KTables[i][f.K[i]]
		}
		for i := 4; i < 10; i++ {
			e.targetK[i] = 0
		}

	case Voiced:
		e.targetEnergy = tables.EnergyTable[f.Energy]
		e.targetPitch = tables.PitchTable[f.Pitch]
		for i := 0; i < 10; i++ {
			e.targetK[i] = tables.KTables[i][f.K[i]]
		}
	}
}

// interpolate blends current toward target by one arithmetic-shift step.
// A shift of 0 means "snap to target". Go's >> on a signed int is
// already an arithmetic shift (rounds toward negative infinity for a
// negative dividend), which is the historical TMS5220 behavior this
// preserves.
func interpolate(current, target, shift int) int {
	if shift == 0 {
		return target
	}
	return current + ((target - current) >> uint(shift))
}

func clamp16(v int32) int16 {
	const lo, hi = -32768, 32767
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return int16(v)
}

func joinErrors(a, b error) error {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return errors.Join(a, b)
}
