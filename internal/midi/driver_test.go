package midi

import (
	"testing"

	"synthgraph/internal/graph"
)

type recordingNode struct {
	id       uint64
	noteOns  []uint8
	noteOffs []uint8
}

func (r *recordingNode) ID() uint64      { return r.id }
func (r *recordingNode) SetID(id uint64) { r.id = id }
func (r *recordingNode) Duplicate() (graph.Node, error) {
	return &recordingNode{id: r.id}, nil
}
func (r *recordingNode) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventNoteOn:
		r.noteOns = append(r.noteOns, msg.Data.Note)
	case graph.EventNoteOff:
		r.noteOffs = append(r.noteOffs, msg.Data.Note)
	}
	return true
}
func (r *recordingNode) Propagate(msg *graph.Message)                {}
func (r *recordingNode) FillBuffer(out []float32)                    {}
func (r *recordingNode) ReplaceChildren(children []graph.Node) error { return nil }

func TestDriverDeliversNoteEventsAtTickBoundaries(t *testing.T) {
	track := &Track{
		SamplesPerTick: 1.0,
		Events: []rawEvent{
			{deltaTicks: 0, kind: rawNoteOn, channel: 0, note: 60, velocity: 1.0},
			{deltaTicks: 10, kind: rawNoteOff, channel: 0, note: 60},
		},
	}
	ch := &recordingNode{}
	d := NewDriver(nil, track, map[uint8]graph.Node{0: ch})

	buf := make([]float32, 4*graph.ChannelCount)
	d.FillBuffer(buf)
	if len(ch.noteOns) != 1 || ch.noteOns[0] != 60 {
		t.Fatalf("expected NoteOn(60) delivered immediately, got %+v", ch.noteOns)
	}
	if len(ch.noteOffs) != 0 {
		t.Fatalf("expected no NoteOff before its tick, got %+v", ch.noteOffs)
	}

	buf2 := make([]float32, 10*graph.ChannelCount)
	d.FillBuffer(buf2)
	if len(ch.noteOffs) != 1 || ch.noteOffs[0] != 60 {
		t.Fatalf("expected NoteOff(60) delivered at its tick, got %+v", ch.noteOffs)
	}
}

func TestDriverSeeksOnUnconditionalCue(t *testing.T) {
	track := &Track{
		SamplesPerTick: 1.0,
		Events: []rawEvent{
			{deltaTicks: 0, kind: rawNoteOn, channel: 0, note: 60, velocity: 1.0},
			{deltaTicks: 1, kind: rawCuePoint, cueLabel: "#1"},
			{deltaTicks: 1, kind: rawNoteOn, channel: 0, note: 62, velocity: 1.0},
			{deltaTicks: 1, kind: rawCuePoint, cueLabel: ">1"},
		},
	}
	ch := &recordingNode{}
	d := NewDriver(nil, track, map[uint8]graph.Node{0: ch})

	buf := make([]float32, 16*graph.ChannelCount)
	for i := 0; i < 6; i++ {
		d.FillBuffer(buf)
	}

	count62 := 0
	for _, n := range ch.noteOns {
		if n == 62 {
			count62++
		}
	}
	if count62 < 2 {
		t.Fatalf("expected the >1 cue to loop back and re-trigger NoteOn(62), got %+v", ch.noteOns)
	}
}

func TestDriverDefersSeekWhenIdealToNextIdealPoint(t *testing.T) {
	// Ticks (absolute): NoteOn(60)@0, "?"@4, NoteOn(61)@5, "#5"@6,
	// NoteOn(62)@8, "?"@10, NoteOn(63)@11. A SeekWhenIdeal(5) queued
	// after the tick-4 ideal point has already passed must NOT act there
	// -- it must wait for the tick-10 ideal point.
	track := &Track{
		SamplesPerTick: 1.0,
		Events: []rawEvent{
			{deltaTicks: 0, kind: rawNoteOn, channel: 0, note: 60},
			{deltaTicks: 4, kind: rawCuePoint, cueLabel: "?"},
			{deltaTicks: 1, kind: rawNoteOn, channel: 0, note: 61},
			{deltaTicks: 1, kind: rawCuePoint, cueLabel: "#5"},
			{deltaTicks: 2, kind: rawNoteOn, channel: 0, note: 62},
			{deltaTicks: 2, kind: rawCuePoint, cueLabel: "?"},
			{deltaTicks: 1, kind: rawNoteOn, channel: 0, note: 63},
		},
	}
	ch := &recordingNode{}
	d := NewDriver(nil, track, map[uint8]graph.Node{0: ch})

	// Advance past the tick-4 ideal point and NoteOn(61), stopping right
	// before the "#5" anchor marker.
	buf := make([]float32, 5*graph.ChannelCount)
	d.FillBuffer(buf)

	d.TryConsumeEvent(&graph.Message{
		Target: graph.BroadcastTarget,
		Data:   graph.Event{Kind: graph.EventSeekWhenIdeal, SeekAnchor: 5},
	})

	// Drive past the "#5" anchor and NoteOn(62), up to (but not through)
	// the tick-10 ideal point; the seek must not have fired yet.
	bigBuf := make([]float32, 3*graph.ChannelCount)
	d.FillBuffer(bigBuf)
	if d.queuedIdealSeek == nil {
		t.Fatalf("expected the queued seek to survive passing the #5 anchor marker")
	}
	for _, n := range ch.noteOns {
		if n == 63 {
			t.Fatalf("seek fired too early: NoteOn(63) should not occur before the tick-10 ideal point")
		}
	}

	// Drive through the tick-10 ideal point: the seek must now fire,
	// landing just after the #5 anchor, re-triggering NoteOn(62).
	moreBuf := make([]float32, 10*graph.ChannelCount)
	d.FillBuffer(moreBuf)
	if d.queuedIdealSeek != nil {
		t.Fatalf("expected the queued seek to be consumed at the tick-10 ideal point")
	}
	count62 := 0
	for _, n := range ch.noteOns {
		if n == 62 {
			count62++
		}
	}
	if count62 < 2 {
		t.Fatalf("expected the seek to land after #5 and re-trigger NoteOn(62), got %+v", ch.noteOns)
	}
}

func TestDriverConsumesSeekWhenIdealItself(t *testing.T) {
	track := &Track{SamplesPerTick: 1.0, Events: []rawEvent{{deltaTicks: 0, kind: rawNoteOn, channel: 0, note: 60}}}
	d := NewDriver(nil, track, map[uint8]graph.Node{0: &recordingNode{}})
	consumed := d.TryConsumeEvent(&graph.Message{
		Target: graph.BroadcastTarget,
		Data:   graph.Event{Kind: graph.EventSeekWhenIdeal, SeekAnchor: 5},
	})
	if !consumed {
		t.Fatalf("expected SeekWhenIdeal to be consumed by the driver itself")
	}
	if d.queuedIdealSeek == nil || *d.queuedIdealSeek != 5 {
		t.Fatalf("expected queuedIdealSeek=5, got %v", d.queuedIdealSeek)
	}
}
