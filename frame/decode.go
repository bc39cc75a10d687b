package frame

import "github.com/vossloop/tms5220/bitstream"

// Decode parses a packed LPC bitstream into a frame sequence, per the
// procedure:
//
//  1. read a 4-bit energy code;
//  2. energy == 15 emits Stop and ends decoding;
//  3. energy == 0 emits Silence and continues, consuming no further
//     bits for this frame;
//  4. otherwise read a 1-bit repeat flag and a 6-bit pitch code;
//  5. repeat == 1 emits Repeat{energy, pitch} and continues;
//  6. otherwise read K1..K4 (widths 5,5,4,4);
//  7. pitch == 0 emits Unvoiced{energy, K[0..4]} (K[5..9] implicitly 0);
//  8. otherwise read K5..K10 (widths 4,4,4,3,3,3) and emit
//     Voiced{energy, pitch, K[0..10]}.
//
// Decode stops at the first Stop frame without reading past it. If the
// buffer is exhausted cleanly between frames (no partial field was
// read), decoding ends there with no error and no fabricated Stop — the
// caller (normally the synthesis engine) is responsible for treating a
// Stop-less end of stream as "stop speaking". If the buffer runs out in
// the middle of a field, the frames decoded so far are returned with a
// synthesized trailing Stop and ErrMalformedBitstream.
func Decode(data []byte) ([]Frame, error) {
	r := bitstream.NewReader(data)
	var frames []Frame

	for {
		if r.BitsRemaining() == 0 {
			return frames, nil
		}

		energy, err := r.ReadBits(4)
		if err != nil {
			return truncated(frames)
		}

		if energy == 15 {
			frames = append(frames, Frame{Kind: Stop})
			return frames, nil
		}
		if energy == 0 {
			frames = append(frames, Frame{Kind: Silence})
			continue
		}

		repeatBit, err := r.ReadBits(1)
		if err != nil {
			return truncated(frames)
		}
		pitch, err := r.ReadBits(6)
		if err != nil {
			return truncated(frames)
		}

		if repeatBit == 1 {
			frames = append(frames, Frame{
				Kind:   Repeat,
				Energy: int(energy),
				Repeat: true,
				Pitch:  int(pitch),
			})
			continue
		}

		var k [10]int
		for i := 0; i < 4; i++ {
			v, err := r.ReadBits(kWidths[i])
			if err != nil {
				return truncated(frames)
			}
			k[i] = int(v)
		}

		if pitch == 0 {
			frames = append(frames, Frame{
				Kind:   Unvoiced,
				Energy: int(energy),
				Pitch:  0,
				K:      k,
			})
			continue
		}

		for i := 4; i < 10; i++ {
			v, err := r.ReadBits(kWidths[i])
			if err != nil {
				return truncated(frames)
			}
			k[i] = int(v)
		}
		frames = append(frames, Frame{
			Kind:   Voiced,
			Energy: int(energy),
			Pitch:  int(pitch),
			K:      k,
		})
	}
}

func truncated(frames []Frame) ([]Frame, error) {
	frames = append(frames, Frame{Kind: Stop})
	return frames, ErrMalformedBitstream
}
