package graph

// NoteRange is an inclusive [Low, High] range over 0..=255 — wider than
// the MIDI 0..127 range so sentinel ranges (catch-all, never-match) are
// expressible without a special case.
type NoteRange struct {
	Low, High uint8
}

// Contains reports whether note falls within the range, inclusive.
func (r NoteRange) Contains(note uint8) bool {
	return note >= r.Low && note <= r.High
}

// LoopRange marks the loop points of a sampler, in sample frames (not
// channel-interleaved sample positions).
type LoopRange struct {
	StartFrame, EndFrame int
}
