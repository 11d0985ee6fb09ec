package midi

import (
	"bytes"

	midisdk "gitlab.com/gomidi/midi/v2/smf"

	"synthgraph/internal/graph"
)

type rawEventKind int

const (
	rawNoteOn rawEventKind = iota
	rawNoteOff
	rawCuePoint
)

// rawEvent is one event from the chosen track, in file order, holding
// only the subset of MIDI data this driver cares about (spec.md §4.5,
// §6: "the subset consumed is NoteOn, NoteOff, Tempo, CuePoint").
type rawEvent struct {
	deltaTicks int64
	channel    uint8
	kind       rawEventKind
	note       uint8
	velocity   float32
	cueLabel   string
}

// Track holds one chosen SMF track's events plus the samples-per-tick
// scalar derived from its header timing and tempo meta events.
// Grounded on original_source/src/node/midi/util.rs
// (get_samples_per_tick, choose_track_index).
type Track struct {
	Events         []rawEvent
	SamplesPerTick float64
}

// LoadTrack parses an in-memory standard MIDI file, selects the first
// track containing a NoteOn event, and computes its samples-per-tick
// scalar at the given playback sample rate.
func LoadTrack(data []byte, sampleRate float32) (*Track, error) {
	file, err := midisdk.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, graph.ParseErrorf("parsing MIDI file: %v", err)
	}

	trackIndex, err := chooseTrackIndex(file)
	if err != nil {
		return nil, err
	}

	spt, err := computeSamplesPerTick(file, sampleRate)
	if err != nil {
		return nil, err
	}

	track := file.Tracks[trackIndex]
	events := make([]rawEvent, 0, len(track))
	var pendingTicks int64
	for _, te := range track {
		pendingTicks += int64(te.Delta)
		ev, ok := translateEvent(te.Message)
		if !ok {
			continue
		}
		ev.deltaTicks = pendingTicks
		pendingTicks = 0
		events = append(events, ev)
	}

	return &Track{Events: events, SamplesPerTick: spt}, nil
}

func chooseTrackIndex(file *midisdk.SMF) (int, error) {
	if len(file.Tracks) == 0 {
		return 0, graph.UserErrorf("no tracks in MIDI file")
	}
	for i, track := range file.Tracks {
		for _, te := range track {
			var channel, key, vel uint8
			if te.Message.GetNoteOn(&channel, &key, &vel) {
				return i, nil
			}
		}
	}
	return 0, graph.UserErrorf("MIDI file does not have any tracks with NoteOn events")
}

func computeSamplesPerTick(file *midisdk.SMF, sampleRate float32) (float64, error) {
	switch tf := file.TimeFormat.(type) {
	case midisdk.MetricTicks:
		bpm := findFirstTempo(file)
		microsPerBeat := 60000000.0 / bpm
		samplesPerMicro := float64(sampleRate) / 1000000.0
		samplesPerBeat := samplesPerMicro * microsPerBeat
		return samplesPerBeat / float64(tf), nil
	case midisdk.TimeCode:
		framesPerSecond := float64(tf.FramesPerSecond)
		ticksPerSecond := framesPerSecond * float64(tf.SubFrames)
		if ticksPerSecond == 0 {
			return 0, graph.ParseErrorf("MIDI time code carries zero ticks per second")
		}
		return float64(sampleRate) / ticksPerSecond, nil
	default:
		return 0, graph.ParseErrorf("unsupported MIDI time format")
	}
}

// findFirstTempo scans every track for the first Tempo meta event and
// falls back to 120 BPM, matching the original's Ardour-export
// workaround (tools that omit the tempo meta event entirely).
func findFirstTempo(file *midisdk.SMF) float64 {
	for _, track := range file.Tracks {
		for _, te := range track {
			var bpm float64
			if te.Message.GetMetaTempo(&bpm) {
				return bpm
			}
		}
	}
	return 120.0
}

func translateEvent(msg midisdk.Message) (rawEvent, bool) {
	var channel, key, vel uint8
	if msg.GetNoteOn(&channel, &key, &vel) {
		if vel == 0 {
			return rawEvent{channel: channel, kind: rawNoteOff, note: key}, true
		}
		return rawEvent{channel: channel, kind: rawNoteOn, note: key, velocity: float32(vel) / 127.0}, true
	}
	if msg.GetNoteOff(&channel, &key, &vel) {
		return rawEvent{channel: channel, kind: rawNoteOff, note: key, velocity: float32(vel) / 127.0}, true
	}
	var label string
	if msg.GetMetaCuepoint(&label) {
		return rawEvent{kind: rawCuePoint, cueLabel: label}, true
	}
	return rawEvent{}, false
}
