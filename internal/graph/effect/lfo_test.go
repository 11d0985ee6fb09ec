package effect

import (
	"testing"

	"synthgraph/internal/graph"
)

func TestLFOZeroStepsClampsToOne(t *testing.T) {
	child := &constantNode{value: 1.0}
	lfo := NewLFO(nil, child, 48000)

	graph.Dispatch(lfo, &graph.Message{
		Target: graph.BroadcastTarget,
		Data: graph.Event{
			Kind: graph.EventLfo, LfoProperty: graph.ModVolume,
			LfoLow: 0, LfoHigh: 1, LfoPeriodSecs: 1.0, LfoSteps: 0,
		},
	})

	buf := make([]float32, 32*graph.ChannelCount)
	lfo.FillBuffer(buf) // must not divide by zero or hang
	if lfo.cycleSteps != 1 {
		t.Fatalf("expected zero steps clamped to 1, got %d", lfo.cycleSteps)
	}
}

func TestLFOZeroPeriodClampsToOne(t *testing.T) {
	child := &constantNode{value: 1.0}
	lfo := NewLFO(nil, child, 48000)

	graph.Dispatch(lfo, &graph.Message{
		Target: graph.BroadcastTarget,
		Data: graph.Event{
			Kind: graph.EventLfo, LfoProperty: graph.ModVolume,
			LfoLow: 0, LfoHigh: 1, LfoPeriodSecs: 0, LfoSteps: 4,
		},
	})

	buf := make([]float32, 32*graph.ChannelCount)
	lfo.FillBuffer(buf)
	if lfo.framesPerStep <= 0 {
		t.Fatalf("expected a positive framesPerStep after clamping zero period, got %d", lfo.framesPerStep)
	}
}

func TestLFOPassesThroughChildUntouchedWhenInactive(t *testing.T) {
	child := &constantNode{value: 0.25}
	lfo := NewLFO(nil, child, 48000)

	buf := make([]float32, 8*graph.ChannelCount)
	lfo.FillBuffer(buf)
	for i, v := range buf {
		if v != 0.25 {
			t.Fatalf("expected untouched pass-through at %d, got %v", i, v)
		}
	}
}
