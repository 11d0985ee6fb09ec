package group

import (
	"testing"

	"synthgraph/internal/graph"
)

func TestCombinerSumsAllChildren(t *testing.T) {
	c := NewCombiner(nil, []graph.Node{
		&constNode{value: 1.0},
		&constNode{value: 2.0},
		&constNode{value: 3.0},
	}, 4)
	buf := make([]float32, 4)
	c.FillBuffer(buf)
	for i, v := range buf {
		if v != 6.0 {
			t.Fatalf("expected sum 6.0 at %d, got %v", i, v)
		}
	}
}

func TestCombinerNeverConsumesEvents(t *testing.T) {
	c := NewCombiner(nil, []graph.Node{&constNode{value: 1.0}}, 4)
	if c.TryConsumeEvent(&graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(60, 1.0)}) {
		t.Fatalf("Combiner must never consume an event")
	}
}
