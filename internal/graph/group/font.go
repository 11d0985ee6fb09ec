// Package group holds the multi-child routing nodes: Font (key-range
// dispatch), Mixer (two-child balance blend), Combiner (N-child additive
// sum), and Polyphony (fixed voice pool, no voice-stealing). Grounded on
// original_source/src/node/group/{font,mixer,combiner,polyphony}.rs.
package group

import (
	"synthgraph/internal/graph"
)

// Range pairs a note range with the node that should receive notes
// falling inside it.
type Range struct {
	Notes    graph.NoteRange
	Consumer graph.Node
}

// Font dispatches NoteOn/NoteOff to whichever of its ranges contains the
// note, and broadcasts every other event to all ranges (spec.md §5.1).
// It refuses duplication and child replacement, mirroring the original's
// treatment of SoundFont-backed instruments as immutable once built.
type Font struct {
	nodeID uint64
	ranges []Range
}

// NewFont builds a Font over the given ranges. Overlapping ranges are
// permitted; a note falling in more than one range is delivered to all
// of them.
func NewFont(nodeID *uint64, ranges []Range) *Font {
	return &Font{
		nodeID: resolveID(nodeID),
		ranges: ranges,
	}
}

func (f *Font) ID() uint64      { return f.nodeID }
func (f *Font) SetID(id uint64) { f.nodeID = id }

func (f *Font) Duplicate() (graph.Node, error) {
	return nil, graph.UserErrorf("Font cannot be duplicated")
}

func (f *Font) TryConsumeEvent(msg *graph.Message) bool {
	var note uint8
	hasNote := false
	switch msg.Data.Kind {
	case graph.EventNoteOn, graph.EventNoteOff:
		note = msg.Data.Note
		hasNote = true
	}
	if hasNote {
		for _, r := range f.ranges {
			if !r.Notes.Contains(note) {
				continue
			}
			graph.Dispatch(r.Consumer, msg)
		}
	} else {
		for _, r := range f.ranges {
			graph.Dispatch(r.Consumer, msg)
		}
	}
	return true
}

func (f *Font) Propagate(msg *graph.Message) {
	for _, r := range f.ranges {
		graph.Dispatch(r.Consumer, msg)
	}
}

func (f *Font) FillBuffer(buffer []float32) {
	for _, r := range f.ranges {
		r.Consumer.FillBuffer(buffer)
	}
}

func (f *Font) ReplaceChildren(children []graph.Node) error {
	return graph.UserErrorf("Font does not support replacing its children")
}
