package generator

import (
	"synthgraph/internal/graph"
	"synthgraph/internal/pitch"
)

// Triangle is a piecewise-linear oscillator with peak at half-cycle.
// Grounded on original_source/src/node/generator/triangle.rs, reworked
// against the current Message/Target event API used by Square and
// Sawtooth (the Rust file was caught mid-migration on an older
// NodeEvent API; spec.md's event model is the current one).
type Triangle struct {
	nodeID           uint64
	isOn             bool
	currentNote      uint8
	balance          graph.Balance
	currentAmplitude float32
	cycleProgress    float32
	periodA440       float32
	peakAmplitude    float32
	sampleRate       float32
}

func NewTriangle(nodeID *uint64, balance graph.Balance, amplitude, sampleRate float32) *Triangle {
	return &Triangle{
		nodeID:        resolveID(nodeID),
		balance:       balance,
		periodA440:    sampleRate / 440.0,
		peakAmplitude: amplitude,
		sampleRate:    sampleRate,
	}
}

func (t *Triangle) ID() uint64      { return t.nodeID }
func (t *Triangle) SetID(id uint64) { t.nodeID = id }

func (t *Triangle) Duplicate() (graph.Node, error) {
	id := t.nodeID
	return NewTriangle(&id, t.balance, t.peakAmplitude, t.sampleRate), nil
}

func (t *Triangle) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventNoteOff:
		if msg.Data.Note == t.currentNote || msg.Target.Broadcast {
			t.isOn = false
		}
	case graph.EventNoteOn:
		t.isOn = true
		t.currentNote = msg.Data.Note
		t.currentAmplitude = t.peakAmplitude * msg.Data.Velocity
	case graph.EventSourceBalance:
		t.balance = msg.Data.Balance
	case graph.EventVolume:
		t.peakAmplitude = msg.Data.Volume
	}
	return false
}

func (t *Triangle) Propagate(*graph.Message) {}

func (t *Triangle) FillBuffer(buffer []float32) {
	if !t.isOn {
		return
	}
	size := len(buffer)
	noteFrequency := pitch.FrequencyOf(t.currentNote)
	pitchPeriod := t.sampleRate / noteFrequency
	stretched := t.cycleProgress * pitchPeriod / t.periodA440

	left, right := t.balance.Amplitudes()
	for i := 0; i < size; i += graph.ChannelCount {
		stretched += 1.0
		if stretched >= pitchPeriod {
			stretched -= pitchPeriod
		}
		duty := stretched / pitchPeriod
		var amplitude float32
		if duty > 0.5 {
			amplitude = t.currentAmplitude * (3.0 - 4.0*duty)
		} else {
			amplitude = t.currentAmplitude * (4.0*duty - 1.0)
		}
		buffer[i] += left * amplitude
		buffer[i+1] += right * amplitude
	}

	t.cycleProgress = stretched * t.periodA440 / pitchPeriod
}

func (t *Triangle) ReplaceChildren(children []graph.Node) error {
	if len(children) != 0 {
		return graph.UserErrorf("Triangle cannot have children")
	}
	return nil
}
