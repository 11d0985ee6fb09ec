package effect

import (
	"testing"

	"synthgraph/internal/graph"
)

func TestFilterNoneIsSampleExactPassthrough(t *testing.T) {
	child := &constantNode{value: 0.42}
	f := NewFilter(nil, false, graph.FilterSpec{}, child, 48000, 64)

	buf := make([]float32, 16*graph.ChannelCount)
	f.FillBuffer(buf)
	for i, v := range buf {
		if v != 0.42 {
			t.Fatalf("expected sample-exact passthrough at %d, got %v", i, v)
		}
	}
}

func TestFilterLowPassAtNyquistApproximatesIdentity(t *testing.T) {
	child := &constantNode{value: 1.0}
	spec := graph.FilterSpec{Kind: graph.FilterLowPass, CutoffHz: 24000}
	f := NewFilter(nil, true, spec, child, 48000, 256)

	buf := make([]float32, 128*graph.ChannelCount)
	f.FillBuffer(buf)
	// Settle past the initial transient, then check the DC-ish value is
	// within a reasonable tolerance of the input constant.
	last := buf[len(buf)-2]
	if !near(last, 1.0, 0.2) {
		t.Fatalf("expected low-pass at near-Nyquist cutoff to approximate identity, got %v", last)
	}
}
