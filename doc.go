// Package tms5220 implements the numeric core of a TMS5220 LPC speech
// synthesizer: a bitstream frame decoder and a per-sample synthesis
// engine that together turn a packed LPC command stream into 8kHz mono
// 16-bit PCM.
//
// The core is two pure functions composed together:
//
//   - frame.Decode turns a packed bitstream into a typed Frame sequence.
//   - Engine.RenderFrames turns a Frame sequence into PCM samples.
//
// Engine.Render composes both in one call. Everything above this layer —
// the English text-to-phoneme rule engine, HTTP transport, WAV muxing,
// playback — is a collaborator's concern and deliberately out of scope
// here.
//
// # Synthesis pipeline
//
// Each 25ms frame is divided into eight interpolation sub-periods of 25
// samples. At a frame boundary the engine promotes its interpolation
// targets to current values and pulls the next frame's targets; within
// a frame, energy, pitch, and the ten reflection coefficients ramp from
// current toward target using a per-sub-period arithmetic-shift blend.
// Each sample is produced by driving a ten-stage reflection-coefficient
// lattice filter with either a pitch-periodic chirp (voiced) or a
// 17-bit LFSR noise source (unvoiced).
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Create one Engine per
// goroutine; the coefficient tables they share are immutable and safe
// to read concurrently.
package tms5220
