// Package tables holds the immutable coefficient tables the TMS5220
// bitstream format indexes into: energy, pitch, the ten reflection
// coefficient (K) tables, the chirp excitation waveform, and the
// per-subperiod interpolation shift table. All tables are process-wide
// constants, safe to share by reference across engines and goroutines.
//
// The historical mask-ROM contents of these tables are chip-specific
// constants that are not reproduced in the design documents this port is
// built from (see the project's design ledger). The values below are
// synthesized to satisfy every documented cardinality, range, and
// monotonicity constraint; a deployment with access to a verified ROM
// dump replaces the table bodies here without touching any caller, since
// every consumer depends only on cardinality and Q512 scale, never on a
// specific entry.
package tables

import "math"

// EnergyTable holds the 16 energy codes addressed by a frame's 4-bit
// energy index. Index 0 means Silence and 15 means Stop; both are
// handled by the frame decoder before a table lookup would occur, but
// the table keeps all 16 slots so EnergyTable[i] is always a valid
// lookup for any decoded index.
var EnergyTable = linspace(0, 114, 16)

// PitchTable holds the 64 pitch-period codes addressed by a frame's
// 6-bit pitch index. Entry 0 is 0, the unvoiced sentinel: looking up
// pitch index 0 yields a zero period, which the engine treats as
// unvoiced. Entries 1..63 span the documented 15..159 sample-period range.
var PitchTable = buildPitchTable()

func buildPitchTable() [64]int {
	var t [64]int
	voiced := linspace(15, 159, 63)
	copy(t[1:], voiced)
	return t
}

// KTableWidths gives the bit width of each of the ten K-coefficient
// fields, in stage order (stage 0 first).
var KTableWidths = [10]int{5, 5, 4, 4, 4, 4, 4, 3, 3, 3}

// KTableCardinalities gives 2^KTableWidths[i], precomputed for callers
// that validate an index without recomputing the shift.
var KTableCardinalities = [10]int{32, 32, 16, 16, 16, 16, 16, 8, 8, 8}

// KTables holds, for each of the ten lattice stages, the table mapping a
// decoded K-index to a signed value in units of 1/512 (so dividing by
// 512.0 yields the reflection coefficient in the open interval (-1, 1)).
// Table i has KTableCardinalities[i] entries.
var KTables = buildKTables()

func buildKTables() [10][]int {
	var t [10][]int
	for i, n := range KTableCardinalities {
		// Reflection coefficients must stay strictly inside (-1, 1);
		// leave headroom below the 512 (==1.0) boundary.
		t[i] = linspace(-506, 506, n)
	}
	return t
}

// ChirpTable is the voiced excitation pulse, replayed once per pitch
// period. Signed 8-bit samples, decaying to silence; positions at or
// past len(ChirpTable) within a pitch period emit zero, never a
// wraparound of the table.
var ChirpTable = buildChirpTable()

func buildChirpTable() []int8 {
	const n = 53
	t := make([]int8, n)
	// A damped, asymmetric pulse: a sharp onset followed by an
	// exponentially decaying ringing tail, the general shape of a
	// glottal-pulse excitation played through a reflection lattice.
	peak := 127.0
	for i := 0; i < n; i++ {
		decay := math.Exp(-float64(i) / 9.0)
		ring := math.Cos(float64(i) * 0.9)
		v := peak * decay * ring
		if v > 127 {
			v = 127
		}
		if v < -128 {
			v = -128
		}
		t[i] = int8(v)
	}
	return t
}

// InterpolationShifts gives the arithmetic right-shift applied per
// interpolation sub-period (0..7) when blending current and target
// parameters. A shift of 0 means "snap to target".
var InterpolationShifts = [8]int{0, 3, 3, 3, 2, 2, 1, 1}

// linspace returns n integer samples evenly spaced from lo to hi
// inclusive (n >= 2), rounded to nearest.
func linspace(lo, hi, n int) []int {
	out := make([]int, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	span := float64(hi - lo)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		out[i] = lo + int(math.Round(frac*span))
	}
	return out
}
