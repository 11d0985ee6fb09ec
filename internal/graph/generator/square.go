// Package generator holds the leaf nodes of the audio graph that
// synthesize raw waveforms or play back sample data: the pitched
// oscillators (square, triangle, sawtooth), the LFSR noise source, the
// one-shot and looping PCM samplers, and the silent Null placeholder.
package generator

import (
	"synthgraph/internal/graph"
	"synthgraph/internal/pitch"
)

// Square is a pulse-wave oscillator with a configurable duty cycle.
// Grounded on original_source/src/node/generator/square.rs.
type Square struct {
	nodeID           uint64
	isOn             bool
	currentNote      uint8
	balance          graph.Balance
	currentAmplitude float32
	cycleProgress    float32
	periodA440       float32
	peakAmplitude    float32
	dutyCycle        float32
	sampleRate       float32
}

// NewSquare constructs a square-wave generator. sampleRate is the
// system sample rate; dutyCycle is in (0,1).
func NewSquare(nodeID *uint64, balance graph.Balance, amplitude, dutyCycle float32, sampleRate float32) *Square {
	return &Square{
		nodeID:        resolveID(nodeID),
		balance:       balance,
		periodA440:    sampleRate / 440.0,
		peakAmplitude: amplitude,
		dutyCycle:     dutyCycle,
		sampleRate:    sampleRate,
	}
}

func resolveID(nodeID *uint64) uint64 {
	if nodeID != nil {
		return *nodeID
	}
	return graph.NewNodeID()
}

func (s *Square) ID() uint64     { return s.nodeID }
func (s *Square) SetID(id uint64) { s.nodeID = id }

func (s *Square) Duplicate() (graph.Node, error) {
	id := s.nodeID
	return NewSquare(&id, s.balance, s.peakAmplitude, s.dutyCycle, s.sampleRate), nil
}

func (s *Square) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventNoteOff:
		if msg.Data.Note == s.currentNote || msg.Target.Broadcast {
			s.isOn = false
		}
	case graph.EventNoteOn:
		s.isOn = true
		s.currentNote = msg.Data.Note
		s.currentAmplitude = s.peakAmplitude * msg.Data.Velocity
	case graph.EventSourceBalance:
		s.balance = msg.Data.Balance
	case graph.EventVolume:
		s.peakAmplitude = msg.Data.Volume
	}
	return false
}

func (s *Square) Propagate(*graph.Message) {}

func (s *Square) FillBuffer(buffer []float32) {
	if !s.isOn {
		return
	}
	size := len(buffer)
	noteFrequency := pitch.FrequencyOf(s.currentNote)
	pitchPeriod := s.sampleRate / noteFrequency
	stretched := s.cycleProgress * pitchPeriod / s.periodA440

	left, right := s.balance.Amplitudes()
	for i := 0; i < size; i += graph.ChannelCount {
		duty := stretched / pitchPeriod
		amplitude := s.currentAmplitude
		if duty > s.dutyCycle {
			amplitude = -s.currentAmplitude
		}
		buffer[i] += left * amplitude
		buffer[i+1] += right * amplitude

		stretched += 1.0
		if stretched >= pitchPeriod {
			stretched -= pitchPeriod
		}
	}

	s.cycleProgress = stretched * s.periodA440 / pitchPeriod
}

func (s *Square) ReplaceChildren(children []graph.Node) error {
	if len(children) != 0 {
		return graph.UserErrorf("Square cannot have children")
	}
	return nil
}
