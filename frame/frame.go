// Package frame implements the TMS5220 LPC frame format: the tagged
// Voiced/Unvoiced/Repeat/Silence/Stop record, its variable-width bit
// layout, and the symmetric Decode/Encode pair.
package frame

import (
	"errors"

	"github.com/vossloop/tms5220/internal/tables"
)

// ErrMalformedBitstream is returned by Decode when the buffer runs out
// of bits in the middle of a field. The frames successfully decoded
// before the truncation, plus a synthesized trailing Stop, are still
// returned alongside the error.
var ErrMalformedBitstream = errors.New("frame: bitstream truncated mid-field")

// ErrInvalidFrameParameter is returned by Frame.Clamp when a directly
// constructed frame carries an out-of-range energy, pitch, or K index.
// The returned frame has every field clamped to its nearest valid value.
var ErrInvalidFrameParameter = errors.New("frame: parameter out of range")

// Kind tags which of the five frame variants a Frame represents.
type Kind uint8

const (
	Voiced Kind = iota
	Unvoiced
	Repeat
	Silence
	Stop
)

func (k Kind) String() string {
	switch k {
	case Voiced:
		return "Voiced"
	case Unvoiced:
		return "Unvoiced"
	case Repeat:
		return "Repeat"
	case Silence:
		return "Silence"
	case Stop:
		return "Stop"
	default:
		return "Unknown"
	}
}

// Frame is the smallest encodable unit of speech: one 25ms span tagged
// with a Kind that determines which of the remaining fields are
// meaningful.
//
//   - Silence and Stop use no field beyond Kind.
//   - Repeat uses Energy and Pitch only; K is not present on the wire
//     and is left at its zero value by Decode (callers must retain the
//     previously established K-coefficients themselves, per the repeat
//     semantics in the data model).
//   - Unvoiced uses Energy and K[0..4]; K[5..9] are implicitly zero.
//   - Voiced uses Energy, Pitch, and all ten K values.
type Frame struct {
	Kind   Kind
	Energy int    // 0..15
	Repeat bool   // true only for Kind == Repeat
	Pitch  int    // 0..63; 0 means unvoiced when Kind == Unvoiced
	K      [10]int
}

// kWidths gives the bit width of each of the ten K fields in stage
// order, shared by Decode and Encode.
var kWidths = [10]int{5, 5, 4, 4, 4, 4, 4, 3, 3, 3}

// Clamp validates Energy, Pitch, and K against their documented ranges
// and returns a copy with any out-of-range field clamped to its nearest
// valid value. If every field was already valid, the returned error is
// nil.
func (f Frame) Clamp() (Frame, error) {
	out := f
	invalid := false

	if out.Energy < 0 {
		out.Energy, invalid = 0, true
	} else if out.Energy > 15 {
		out.Energy, invalid = 15, true
	}

	if out.Pitch < 0 {
		out.Pitch, invalid = 0, true
	} else if out.Pitch > 63 {
		out.Pitch, invalid = 63, true
	}

	for i := range out.K {
		max := tables.KTableCardinalities[i] - 1
		if out.K[i] < 0 {
			out.K[i], invalid = 0, true
		} else if out.K[i] > max {
			out.K[i], invalid = max, true
		}
	}

	if !invalid {
		return out, nil
	}
	return out, ErrInvalidFrameParameter
}
