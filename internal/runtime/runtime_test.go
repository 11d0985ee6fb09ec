package runtime

import (
	"testing"

	"synthgraph/internal/graph"
	"synthgraph/internal/graph/generator"
)

func TestCallbackAppliesQueuedEventsBeforeFillingBuffer(t *testing.T) {
	rt := New(graph.DefaultSampleRate, graph.DefaultBufferFrames, nil)
	sq := generator.NewSquare(nil, graph.Balance{Kind: graph.BalanceBoth}, 1.0, 0.5, graph.DefaultSampleRate)
	rt.ActivateNode(sq)

	rt.Send(&graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(69, 1.0)})

	buf := make([]float32, 8)
	rt.Callback(buf)

	if buf[0] == 0 {
		t.Fatal("expected the queued NoteOn to have been applied before FillBuffer produced audio")
	}
}

func TestCallbackWithNoActiveRootLeavesBufferUntouched(t *testing.T) {
	rt := New(graph.DefaultSampleRate, graph.DefaultBufferFrames, nil)
	buf := make([]float32, 8)
	rt.Callback(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected silence at %d with no active program, got %v", i, v)
		}
	}
}

func TestActivateSwapsRootAtomically(t *testing.T) {
	rt := New(graph.DefaultSampleRate, graph.DefaultBufferFrames, nil)
	a := generator.NewNull(nil)
	b := generator.NewSquare(nil, graph.Balance{Kind: graph.BalanceBoth}, 1.0, 0.5, graph.DefaultSampleRate)
	rt.Programs.Store(1, a)
	rt.Programs.Store(2, b)

	if !rt.Activate(1) {
		t.Fatal("expected program 1 to activate")
	}
	if !rt.Activate(2) {
		t.Fatal("expected program 2 to activate")
	}
	if rt.Activate(99) {
		t.Fatal("expected activating an unknown program to fail")
	}
}

func TestEventQueueDrainIsFIFOAndEmptiesTheQueue(t *testing.T) {
	q := NewEventQueue()
	q.Push(&graph.Message{Data: graph.NoteOnEvent(1, 1.0)})
	q.Push(&graph.Message{Data: graph.NoteOnEvent(2, 1.0)})

	drained := q.Drain()
	if len(drained) != 2 || drained[0].Data.Note != 1 || drained[1].Data.Note != 2 {
		t.Fatalf("expected FIFO drain of 2 messages, got %v", drained)
	}
	if more := q.Drain(); len(more) != 0 {
		t.Fatalf("expected empty queue after drain, got %d", len(more))
	}
}
