package generator

import (
	"synthgraph/internal/graph"
	"synthgraph/internal/pitch"
)

// feedbackOuter and feedbackInner select where the XORed feedback bit is
// written back into the 16-bit shift register (bit 0 = least significant):
// outer sets only bit 14, inner sets bits 14 and 6 (a shorter effective
// period, brighter noise).
const (
	feedbackOuter uint16 = 0x4000
	feedbackInner uint16 = 0x4040
)

// Noise is a 16-bit LFSR noise source. Grounded on
// original_source/src/node/generator/noise.rs.
type Noise struct {
	nodeID          uint64
	isOn            bool
	noteOf16Shifts  uint8
	currentNote     uint8
	balance         graph.Balance
	currentAmp      float32
	lfsr            uint16
	feedbackMask    uint16
	insideFeedback  bool
	cycleProgress   float32
	cycleSamplesA440 float32
	peakAmplitude   float32
	sampleRate      float32
}

// NewNoise constructs an LFSR noise generator. noteOf16Shifts sets the
// reference period: that note's frequency corresponds to 16 register
// shifts per cycle, relative to A440.
func NewNoise(nodeID *uint64, balance graph.Balance, amplitude float32, insideFeedback bool, noteOf16Shifts uint8, sampleRate float32) *Noise {
	mask := feedbackOuter
	if insideFeedback {
		mask = feedbackInner
	}
	rotationsRequested := pitch.FrequencyOf(noteOf16Shifts)
	rotationsA440 := pitch.FrequencyOf(pitch.A440Note)
	shiftsPerRotation := float32(16.0)
	cycleSamplesA440 := sampleRate / (shiftsPerRotation * rotationsA440) / (rotationsRequested / rotationsA440)
	return &Noise{
		nodeID:           resolveID(nodeID),
		noteOf16Shifts:   noteOf16Shifts,
		balance:          balance,
		lfsr:             0x0001,
		feedbackMask:     mask,
		insideFeedback:   insideFeedback,
		cycleSamplesA440: cycleSamplesA440,
		peakAmplitude:    amplitude,
		sampleRate:       sampleRate,
	}
}

func (n *Noise) ID() uint64      { return n.nodeID }
func (n *Noise) SetID(id uint64) { n.nodeID = id }

func (n *Noise) Duplicate() (graph.Node, error) {
	id := n.nodeID
	return NewNoise(&id, n.balance, n.peakAmplitude, n.insideFeedback, n.noteOf16Shifts, n.sampleRate), nil
}

func (n *Noise) value() float32 {
	if n.lfsr&0x0001 == 0x0001 {
		return n.currentAmp
	}
	return -n.currentAmp
}

func (n *Noise) shift() {
	feedbackBits := (n.lfsr & 0x0001) ^ ((n.lfsr & 0x0002) >> 1)
	maskedFeedback := feedbackBits * n.feedbackMask
	n.lfsr = ((n.lfsr >> 1) &^ maskedFeedback) | maskedFeedback
}

func (n *Noise) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventNoteOff:
		if msg.Data.Note == n.currentNote || msg.Target.Broadcast {
			n.isOn = false
		}
	case graph.EventNoteOn:
		n.isOn = true
		n.currentNote = msg.Data.Note
		n.currentAmp = n.peakAmplitude * msg.Data.Velocity
	case graph.EventSourceBalance:
		n.balance = msg.Data.Balance
	case graph.EventVolume:
		n.peakAmplitude = msg.Data.Volume
	}
	return false
}

func (n *Noise) Propagate(*graph.Message) {}

func (n *Noise) FillBuffer(buffer []float32) {
	if !n.isOn {
		return
	}
	size := len(buffer)
	noteFrequency := pitch.FrequencyOf(n.currentNote)
	pitchCycleSamples := n.sampleRate / noteFrequency
	stretched := n.cycleProgress * pitchCycleSamples / n.cycleSamplesA440

	amplitude := n.value()
	left, right := n.balance.Amplitudes()
	for i := 0; i < size; i += graph.ChannelCount {
		stretched += 1.0
		if stretched >= pitchCycleSamples {
			stretched -= pitchCycleSamples
			n.shift()
			amplitude = n.value()
		}
		buffer[i] += left * amplitude
		buffer[i+1] += right * amplitude
	}

	n.cycleProgress = stretched * n.cycleSamplesA440 / pitchCycleSamples
}

func (n *Noise) ReplaceChildren(children []graph.Node) error {
	if len(children) != 0 {
		return graph.UserErrorf("Noise cannot have children")
	}
	return nil
}
