// Package lattice implements the TMS5220's ten-stage reflection
// coefficient lattice filter: the all-pole synthesis filter that turns
// an excitation sample plus the current K-coefficients into one output
// PCM sample.
package lattice

// Stages is the fixed number of reflection-coefficient stages.
const Stages = 10

// Filter holds the ten-element delay line the lattice reads from and
// writes to across calls. The zero value is a filter with a zeroed delay
// line, ready to use.
type Filter struct {
	delay [Stages]float64
}

// Reset zeros the delay line, as happens on engine reset.
func (f *Filter) Reset() {
	for i := range f.delay {
		f.delay[i] = 0
	}
}

// Step drives the filter with one excitation sample u (already scaled
// by the interpolated energy) and the current K-coefficient codes
// (units of 1/512, so k[i]/512.0 is the reflection coefficient), and
// returns one synthesized sample clamped to the 14-bit signed range
// [-8192, 8191].
//
// Processing runs from stage 10 down to stage 1 in a single pass, then
// shifts the delay line one element toward higher indices. This order
// is load-bearing: reversing it produces a different (unstable) filter.
func (f *Filter) Step(u float64, k [Stages]int) int16 {
	for i := Stages - 1; i >= 0; i-- {
		kf := float64(k[i]) / 512.0
		out := u - kf*f.delay[i]
		f.delay[i] = f.delay[i] + kf*out
		u = out
	}

	for i := Stages - 1; i >= 1; i-- {
		f.delay[i] = f.delay[i-1]
	}
	f.delay[0] = u

	return clamp14(u)
}

func clamp14(u float64) int16 {
	v := int32(u + sign(u)*0.5) // round to nearest, ties away from zero
	const lo, hi = -8192, 8191
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return int16(v)
}

func sign(u float64) float64 {
	if u < 0 {
		return -1
	}
	return 1
}
