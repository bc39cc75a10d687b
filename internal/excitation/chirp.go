package excitation

// Chirp plays the voiced excitation waveform once per pitch period. The
// cursor is a simple sample counter, not an index into the table: once
// it runs past the table's length it must emit zero for the remainder
// of the period, never wrap back into the table.
type Chirp struct {
	table  []int8
	cursor int // position within the current pitch period, 0..pitch-1
}

// NewChirp returns a Chirp reading from table (the process-wide chirp
// waveform).
func NewChirp(table []int8) *Chirp {
	return &Chirp{table: table}
}

// Reset restarts the pitch cursor at the beginning of a period.
func (c *Chirp) Reset() {
	c.cursor = 0
}

// Cursor returns the current position within the pitch period.
func (c *Chirp) Cursor() int {
	return c.cursor
}

// SetCursor restores a previously observed cursor position, for callers
// that reconstruct a pitch_cursor state. Engine does not call it.
func (c *Chirp) SetCursor(pos int) {
	c.cursor = pos
}

// Next returns the next excitation sample and advances the cursor,
// wrapping to 0 when it reaches pitchPeriod. If the cursor is at or past
// the chirp table's length, the emitted sample is 0 (the tail of long
// pitch periods is silent).
func (c *Chirp) Next(pitchPeriod int) int32 {
	var sample int32
	if c.cursor < len(c.table) {
		sample = int32(c.table[c.cursor])
	}
	c.cursor++
	if pitchPeriod > 0 && c.cursor >= pitchPeriod {
		c.cursor = 0
	}
	return sample
}
