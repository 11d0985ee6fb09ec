package generator

import (
	"testing"

	"synthgraph/internal/graph"
)

func TestSquareSilentWithNoActiveNote(t *testing.T) {
	sq := NewSquare(nil, graph.Balance{Kind: graph.BalanceBoth}, 1.0, 0.5, graph.DefaultSampleRate)
	buf := make([]float32, 64)
	sq.FillBuffer(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected silence at %d, got %v", i, v)
		}
	}
}

func TestSquareFirstZeroCrossingAtA440(t *testing.T) {
	sq := NewSquare(nil, graph.Balance{Kind: graph.BalanceBoth}, 1.0, 0.5, 48000)
	graph.Dispatch(sq, &graph.Message{
		Target: graph.BroadcastTarget,
		Data:   graph.NoteOnEvent(69, 1.0),
	})
	buf := make([]float32, 96*2)
	sq.FillBuffer(buf)

	// Period at 48000/440 ~= 109.09 samples; zero crossing (duty 0.5) at ~54.5.
	for frame := 0; frame < 55; frame++ {
		if buf[frame*2] <= 0 {
			t.Fatalf("expected positive amplitude at frame %d, got %v", frame, buf[frame*2])
		}
	}
	if buf[55*2] >= 0 {
		t.Fatalf("expected negative amplitude at frame 55 (post zero-crossing), got %v", buf[55*2])
	}
}

func TestSquareNoteOffReturnsToSilence(t *testing.T) {
	sq := NewSquare(nil, graph.Balance{Kind: graph.BalanceBoth}, 1.0, 0.5, 48000)
	graph.Dispatch(sq, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(69, 1.0)})
	buf := make([]float32, 8)
	sq.FillBuffer(buf)
	graph.Dispatch(sq, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOffEvent(69, 1.0)})
	buf2 := make([]float32, 8)
	sq.FillBuffer(buf2)
	for i, v := range buf2 {
		if v != 0 {
			t.Fatalf("expected silence after NoteOff at %d, got %v", i, v)
		}
	}
}
