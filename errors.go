// errors.go defines the public error values for the tms5220 package.

package tms5220

import (
	"errors"

	"github.com/vossloop/tms5220/frame"
)

// ErrOverlongSpeech indicates Render or RenderFrames reached its safety
// sample cap before the engine stopped speaking on its own. The samples
// accumulated so far are still returned alongside this error.
var ErrOverlongSpeech = errors.New("tms5220: render hit the safety sample cap before speaking ended")

// ErrMalformedBitstream and ErrInvalidFrameParameter are re-exported
// from package frame so callers that only import the root package can
// still match them with errors.Is.
var (
	ErrMalformedBitstream    = frame.ErrMalformedBitstream
	ErrInvalidFrameParameter = frame.ErrInvalidFrameParameter
)
