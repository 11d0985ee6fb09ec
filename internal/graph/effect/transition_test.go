package effect

import (
	"testing"

	"synthgraph/internal/graph"
)

func TestTransitionZeroStepsDoesNotDivideByZero(t *testing.T) {
	child := &constantNode{value: 1.0}
	tr := NewTransition(nil, child, 48000)

	graph.Dispatch(tr, &graph.Message{
		Target: graph.BroadcastTarget,
		Data: graph.Event{
			Kind: graph.EventTransition, TransitionProperty: graph.ModVolume,
			TransitionFrom: 0, TransitionTo: 1, TransitionSeconds: 1.0, TransitionSteps: 0,
		},
	})

	buf := make([]float32, 32*graph.ChannelCount)
	tr.FillBuffer(buf)
	if tr.totalSteps != 1 {
		t.Fatalf("expected zero steps clamped to 1, got %d", tr.totalSteps)
	}
	if tr.framesPerStep <= 0 {
		t.Fatalf("expected a positive framesPerStep after clamping, got %d", tr.framesPerStep)
	}
}

func TestTransitionDisablesAfterCompletion(t *testing.T) {
	const sr = 48000
	child := &constantNode{value: 1.0}
	tr := NewTransition(nil, child, sr)

	graph.Dispatch(tr, &graph.Message{
		Target: graph.BroadcastTarget,
		Data: graph.Event{
			Kind: graph.EventTransition, TransitionProperty: graph.ModVolume,
			TransitionFrom: 0, TransitionTo: 1, TransitionSeconds: 0.001, TransitionSteps: 4,
		},
	})

	// 0.001s at 48kHz is 48 frames total (12 frames/step); run well past
	// completion and confirm the node disabled itself and keeps forwarding.
	buf := make([]float32, 4800*graph.ChannelCount)
	tr.FillBuffer(buf)
	if tr.hasProperty {
		t.Fatalf("expected transition to auto-disable once totalSteps is reached")
	}
}
