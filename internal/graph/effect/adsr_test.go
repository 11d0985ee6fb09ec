package effect

import (
	"testing"

	"synthgraph/internal/graph"
)

// constantNode is a test-only leaf that additively writes a fixed value
// into every sample slot, used to isolate the envelope math from any
// generator's own waveform shape.
type constantNode struct {
	id    uint64
	value float32
}

func (c *constantNode) ID() uint64      { return c.id }
func (c *constantNode) SetID(id uint64) { c.id = id }
func (c *constantNode) Duplicate() (graph.Node, error) {
	return &constantNode{id: c.id, value: c.value}, nil
}
func (c *constantNode) TryConsumeEvent(*graph.Message) bool { return false }
func (c *constantNode) Propagate(*graph.Message)            {}
func (c *constantNode) FillBuffer(out []float32) {
	for i := range out {
		out[i] += c.value
	}
}
func (c *constantNode) ReplaceChildren([]graph.Node) error {
	return graph.UserErrorf("constantNode has no children")
}

func near(v, target, tolerance float32) bool {
	d := v - target
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

func TestADSREnvelopeShape(t *testing.T) {
	const sr = 48000
	child := &constantNode{value: 1.0}
	env := NewADSR(nil, 0.01, 0.01, 0.5, 0.02, child, sr, sr)

	graph.Dispatch(env, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(60, 1.0)})

	buf := make([]float32, 480*graph.ChannelCount)
	env.FillBuffer(buf)
	if !near(buf[len(buf)-2], 1.0, 0.02) {
		t.Fatalf("expected ~1.0 at end of attack (480 samples), got %v", buf[len(buf)-2])
	}

	buf2 := make([]float32, 480*graph.ChannelCount)
	env.FillBuffer(buf2)
	if !near(buf2[len(buf2)-2], 0.5, 0.02) {
		t.Fatalf("expected ~0.5 at end of decay (960 samples), got %v", buf2[len(buf2)-2])
	}

	// Sustain holds at 0.5 for a while.
	buf3 := make([]float32, 480*graph.ChannelCount)
	env.FillBuffer(buf3)
	if !near(buf3[len(buf3)-2], 0.5, 0.001) {
		t.Fatalf("expected sustain to hold at 0.5, got %v", buf3[len(buf3)-2])
	}

	graph.Dispatch(env, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOffEvent(60, 1.0)})

	buf4 := make([]float32, 960*graph.ChannelCount)
	env.FillBuffer(buf4)
	if !near(buf4[len(buf4)-2], 0.0, 0.02) {
		t.Fatalf("expected ~0.0 after release completes (960 samples), got %v", buf4[len(buf4)-2])
	}
}

func TestADSRSilentWithNoActiveNote(t *testing.T) {
	child := &constantNode{value: 1.0}
	env := NewADSR(nil, 0.01, 0.01, 0.5, 0.02, child, 48000, 64)
	// Drive it to Finished without ever sending NoteOn.
	env.mode = envFinished
	buf := make([]float32, 64)
	env.FillBuffer(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected silence once finished, got %v at %d", v, i)
		}
	}
}

func TestADSRReleaseMidAttackPreservesContinuity(t *testing.T) {
	const sr = 48000
	child := &constantNode{value: 1.0}
	env := NewADSR(nil, 0.01, 0.01, 0.5, 0.02, child, sr, sr)

	graph.Dispatch(env, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(60, 1.0)})

	// Halfway through attack (240 of 480 samples), multiplier ~0.5.
	buf := make([]float32, 240*graph.ChannelCount)
	env.FillBuffer(buf)
	beforeRelease := buf[len(buf)-2]

	graph.Dispatch(env, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOffEvent(60, 1.0)})

	// The very next sample must continue from beforeRelease, not jump.
	tiny := make([]float32, 2)
	env.FillBuffer(tiny)
	if !near(tiny[0], beforeRelease, 0.02) {
		t.Fatalf("expected release to begin near %v, got %v", beforeRelease, tiny[0])
	}
}
