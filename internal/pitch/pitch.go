// Package pitch holds the small frequency-math utilities shared by every
// pitched generator and the sampler: note-to-frequency conversion and
// the relative pitch ratio between two notes (spec.md §9, "Utility").
// The phase-continuity scaling across a pitch change lives in each
// generator's FillBuffer, not here.
package pitch

import "math"

// A440Note is the MIDI key for A440 (concert pitch).
const A440Note = 69

// FrequencyOf converts a MIDI-style note number to Hz using equal
// temperament referenced to A440: 440 * 2^((note-69)/12).
func FrequencyOf(note uint8) float32 {
	return 440.0 * float32(math.Pow(2, (float64(note)-A440Note)/12.0))
}

// RelativePitchRatio returns the frequency ratio of playing sourceNote's
// sample at the pitch of targetNote, i.e. freq(targetNote)/freq(sourceNote).
func RelativePitchRatio(targetNote, sourceNote uint8) float32 {
	return FrequencyOf(targetNote) / FrequencyOf(sourceNote)
}
