// Package midi implements the MIDI timeline driver node described in
// spec.md §4.5: tempo conversion, tick-accurate event scheduling, and
// cue-label anchor/seek/ideal-seek-point loop control. Grounded on
// original_source/src/node/midi/{mod,cue,util,event}.rs, whose Message
// API had drifted out of sync with the rest of the source tree (an
// older NodeEvent/NodeControlEvent shape); this package follows the
// current Message/Target/Event API used throughout internal/graph,
// carrying over the scheduling algorithm rather than the stale types.
package midi

import "synthgraph/internal/graph"

func resolveID(nodeID *uint64) uint64 {
	if nodeID != nil {
		return *nodeID
	}
	return graph.NewNodeID()
}

type timelineCue struct {
	eventIndex int
	cue        graph.Cue
}

// Driver owns a parsed track, a channel -> child-node routing table,
// and advances tick-accurate note and cue events into children as
// FillBuffer is pulled. It refuses duplication and child replacement.
type Driver struct {
	nodeID uint64

	events         []rawEvent
	timelineCues   []timelineCue
	samplesPerTick float64

	channels  map[uint8]graph.Node
	heldNotes map[uint8]map[uint8]bool

	nextEventIndex     int
	eventTicksProgress int64
	hasFinished        bool
	queuedIdealSeek    *uint32
}

// NewDriver builds a Driver over an already-parsed Track and a prebuilt
// channel routing table (config/loader constructs the channel subgraphs;
// this package only drives them).
func NewDriver(nodeID *uint64, track *Track, channels map[uint8]graph.Node) *Driver {
	held := make(map[uint8]map[uint8]bool, len(channels))
	for ch := range channels {
		held[ch] = make(map[uint8]bool)
	}
	return &Driver{
		nodeID:         resolveID(nodeID),
		events:         track.Events,
		timelineCues:   resolveTimelineCues(track.Events),
		samplesPerTick: track.SamplesPerTick,
		channels:       channels,
		heldNotes:      held,
	}
}

func resolveTimelineCues(events []rawEvent) []timelineCue {
	var cues []timelineCue
	for i, ev := range events {
		if ev.kind != rawCuePoint {
			continue
		}
		for _, cue := range parseCueLabel(ev.cueLabel) {
			cues = append(cues, timelineCue{eventIndex: i, cue: cue})
		}
	}
	return cues
}

func (d *Driver) ID() uint64      { return d.nodeID }
func (d *Driver) SetID(id uint64) { d.nodeID = id }

func (d *Driver) Duplicate() (graph.Node, error) {
	return nil, graph.UserErrorf("MIDI driver cannot be duplicated")
}

// TryConsumeEvent handles CueData(SeekWhenIdeal(n)) itself (spec.md
// §4.5's "events consumed by the MIDI node itself"); every other event
// is left for Propagate to forward to channel children.
func (d *Driver) TryConsumeEvent(msg *graph.Message) bool {
	if msg.Data.Kind != graph.EventSeekWhenIdeal {
		return false
	}
	anchor := msg.Data.SeekAnchor
	d.queuedIdealSeek = &anchor
	return true
}

func (d *Driver) Propagate(msg *graph.Message) {
	for _, child := range d.channels {
		graph.Dispatch(child, msg)
	}
}

func (d *Driver) FillBuffer(buffer []float32) {
	if d.hasFinished {
		return
	}
	for {
		if d.nextEventIndex >= len(d.events) {
			d.hasFinished = true
			return
		}

		next := d.events[d.nextEventIndex]
		ticksUntilEvent := next.deltaTicks - d.eventTicksProgress
		samplesUntilEvent := int64(float64(ticksUntilEvent) * d.samplesPerTick)
		samplesAvailable := int64(len(buffer) / graph.ChannelCount)

		if samplesUntilEvent > samplesAvailable {
			for _, child := range d.channels {
				child.FillBuffer(buffer)
			}
			d.eventTicksProgress += int64(float64(samplesAvailable) / d.samplesPerTick)
			return
		}

		fillLen := int(samplesUntilEvent) * graph.ChannelCount
		for _, child := range d.channels {
			child.FillBuffer(buffer[:fillLen])
		}
		buffer = buffer[fillLen:]

		d.eventTicksProgress = 0
		if d.applyEvent(d.nextEventIndex, next) {
			// A seek already set nextEventIndex to its landing point;
			// advancing past it here would skip the event it landed on.
			continue
		}
		d.nextEventIndex++
	}
}

// applyEvent interprets the event just passed (spec.md §4.5 step 5) and
// reports whether it triggered a seek, in which case nextEventIndex has
// already been repositioned by seekToAnchor and must not be advanced
// again by the caller.
func (d *Driver) applyEvent(index int, ev rawEvent) (sought bool) {
	switch ev.kind {
	case rawNoteOn:
		child, ok := d.channels[ev.channel]
		if !ok {
			return false
		}
		d.heldNotes[ev.channel][ev.note] = true
		graph.Dispatch(child, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(ev.note, ev.velocity)})
	case rawNoteOff:
		child, ok := d.channels[ev.channel]
		if !ok {
			return false
		}
		delete(d.heldNotes[ev.channel], ev.note)
		graph.Dispatch(child, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOffEvent(ev.note, ev.velocity)})
	case rawCuePoint:
		return d.applyCuesAt(index)
	}
	return false
}

// applyCuesAt implements spec.md §4.5's CuePoint handling: consult the
// precomputed cues at this event index; an IdealSeekPoint only acts if
// a SeekWhenIdeal is pending, otherwise an immediate Seek(n) fires.
func (d *Driver) applyCuesAt(index int) bool {
	isIdealPoint := false
	var seekAnchor *uint32
	for _, tc := range d.timelineCues {
		if tc.eventIndex != index {
			continue
		}
		switch tc.cue.Kind {
		case graph.CueIdealSeekPoint:
			isIdealPoint = true
		case graph.CueSeek:
			n := tc.cue.N
			seekAnchor = &n
		}
	}
	if isIdealPoint && d.queuedIdealSeek != nil {
		anchor := *d.queuedIdealSeek
		return d.seekToAnchor(anchor)
	}
	if seekAnchor != nil {
		return d.seekToAnchor(*seekAnchor)
	}
	return false
}

func (d *Driver) seekToAnchor(anchor uint32) bool {
	d.queuedIdealSeek = nil
	for _, tc := range d.timelineCues {
		if tc.cue.Kind == graph.CueAnchor && tc.cue.N == anchor {
			d.nextEventIndex = tc.eventIndex + 1
			d.eventTicksProgress = 0
			d.silenceHeldNotes()
			return true
		}
	}
	return false
}

// silenceHeldNotes sends NoteOff for every note currently held on every
// channel, matching the original's "broadcast an all notes off" on
// seek so no voice rings past the jump.
func (d *Driver) silenceHeldNotes() {
	for channel, notes := range d.heldNotes {
		child, ok := d.channels[channel]
		if !ok {
			continue
		}
		for note := range notes {
			graph.Dispatch(child, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOffEvent(note, 0)})
			delete(notes, note)
		}
	}
}

func (d *Driver) ReplaceChildren(children []graph.Node) error {
	return graph.UserErrorf("MIDI driver does not support replacing its children")
}
