package group

import (
	"testing"

	"synthgraph/internal/graph"
)

type constNode struct {
	id    uint64
	value float32
}

func (c *constNode) ID() uint64      { return c.id }
func (c *constNode) SetID(id uint64) { c.id = id }
func (c *constNode) Duplicate() (graph.Node, error) {
	return &constNode{id: c.id, value: c.value}, nil
}
func (c *constNode) TryConsumeEvent(msg *graph.Message) bool { return false }
func (c *constNode) Propagate(msg *graph.Message)            {}
func (c *constNode) FillBuffer(out []float32) {
	for i := range out {
		out[i] += c.value
	}
}
func (c *constNode) ReplaceChildren(children []graph.Node) error { return nil }

func TestMixerBalanceZeroUsesOnlyFirstChild(t *testing.T) {
	m := NewMixer(nil, 0.0, &constNode{value: 1.0}, &constNode{value: 2.0}, 4)
	buf := make([]float32, 4)
	m.FillBuffer(buf)
	for i, v := range buf {
		if v != 1.0 {
			t.Fatalf("expected 1.0 at %d with balance 0, got %v", i, v)
		}
	}
}

func TestMixerBalanceHalfBlendsEvenly(t *testing.T) {
	m := NewMixer(nil, 0.5, &constNode{value: 1.0}, &constNode{value: 3.0}, 4)
	buf := make([]float32, 4)
	m.FillBuffer(buf)
	for i, v := range buf {
		if v != 2.0 {
			t.Fatalf("expected 2.0 at %d with balance 0.5, got %v", i, v)
		}
	}
}

func TestMixerConsumesMixerBalanceEvent(t *testing.T) {
	m := NewMixer(nil, 0.0, &constNode{value: 1.0}, &constNode{value: 1.0}, 4)
	consumed := m.TryConsumeEvent(&graph.Message{Target: graph.BroadcastTarget, Data: graph.Event{Kind: graph.EventMixerBalance, MixerBalance: 0.75}})
	if !consumed {
		t.Fatalf("expected MixerBalance event to be consumed")
	}
	if m.balance != 0.75 {
		t.Fatalf("expected balance 0.75, got %v", m.balance)
	}
}
