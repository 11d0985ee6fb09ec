package generator

import (
	"testing"

	"synthgraph/internal/graph"
)

func TestNoiseSilentWithoutNoteOn(t *testing.T) {
	n := NewNoise(nil, graph.Balance{Kind: graph.BalanceBoth}, 1.0, false, 64, graph.DefaultSampleRate)
	buf := make([]float32, 32)
	n.FillBuffer(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected silence at %d, got %v", i, v)
		}
	}
}

func TestNoiseAmplitudeBoundedByPeak(t *testing.T) {
	n := NewNoise(nil, graph.Balance{Kind: graph.BalanceBoth}, 0.7, true, 64, 48000)
	graph.Dispatch(n, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(64, 1.0)})
	buf := make([]float32, 256)
	n.FillBuffer(buf)
	for i, v := range buf {
		if v > 0.7001 || v < -0.7001 {
			t.Fatalf("sample %d out of bounds: %v", i, v)
		}
	}
}

func TestNoiseDuplicatePreservesFeedbackMask(t *testing.T) {
	n := NewNoise(nil, graph.Balance{Kind: graph.BalanceBoth}, 0.5, true, 40, 48000)
	dup, err := n.Duplicate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	noiseDup, ok := dup.(*Noise)
	if !ok {
		t.Fatalf("expected *Noise, got %T", dup)
	}
	if noiseDup.feedbackMask != feedbackInner {
		t.Fatalf("expected inner feedback mask preserved, got %#x", noiseDup.feedbackMask)
	}
}
