package frame

import "github.com/vossloop/tms5220/bitstream"

// Encode is the bit-exact inverse of Decode: it emits a 4-bit energy
// code per frame, then for frames other than Silence and Stop a 1-bit
// repeat flag, a 6-bit pitch code, and (unless the frame is a Repeat)
// the K fields at their documented widths. If frames does not end with a Stop frame,
// Encode appends a terminal 0xF energy nibble. The final byte is
// zero-padded in any unused trailing bits.
func Encode(frames []Frame) []byte {
	w := bitstream.NewWriter()
	terminated := false

	for _, f := range frames {
		switch f.Kind {
		case Stop:
			w.WriteBits(15, 4)
			terminated = true

		case Silence:
			w.WriteBits(0, 4)

		case Repeat:
			w.WriteBits(uint32(f.Energy), 4)
			w.WriteBits(1, 1)
			w.WriteBits(uint32(f.Pitch), 6)

		case Unvoiced:
			w.WriteBits(uint32(f.Energy), 4)
			w.WriteBits(0, 1)
			w.WriteBits(0, 6)
			writeK(w, f.K[:4], kWidths[:4])

		case Voiced:
			w.WriteBits(uint32(f.Energy), 4)
			w.WriteBits(0, 1)
			w.WriteBits(uint32(f.Pitch), 6)
			writeK(w, f.K[:4], kWidths[:4])
			writeK(w, f.K[4:10], kWidths[4:10])
		}
	}

	if !terminated {
		w.WriteBits(15, 4)
	}
	return w.Bytes()
}

func writeK(w *bitstream.Writer, k []int, widths []int) {
	for i, width := range widths {
		w.WriteBits(uint32(k[i]), width)
	}
}
