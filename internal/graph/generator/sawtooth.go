package generator

import (
	"synthgraph/internal/graph"
	"synthgraph/internal/pitch"
)

// Sawtooth is a linear-ramp oscillator. Grounded on
// original_source/src/node/generator/sawtooth.rs.
type Sawtooth struct {
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

func NewSawtooth(nodeID *uint64, balance graph.Balance, amplitude, sampleRate float32) *Sawtooth {
	return &Sawtooth{
		nodeID:        resolveID(nodeID),
		balance:       balance,
		periodA440:    sampleRate / 440.0,
		peakAmplitude: amplitude,
		sampleRate:    sampleRate,
	}
}

func (s *Sawtooth) ID() uint64      { return s.nodeID }
func (s *Sawtooth) SetID(id uint64) { s.nodeID = id }

func (s *Sawtooth) Duplicate() (graph.Node, error) {
	id := s.nodeID
	return NewSawtooth(&id, s.balance, s.peakAmplitude, s.sampleRate), nil
}

func (s *Sawtooth) TryConsumeEvent(msg *graph.Message) bool {
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

func (s *Sawtooth) Propagate(*graph.Message) {}

func (s *Sawtooth) FillBuffer(buffer []float32) {
	if !s.isOn {
		return
	}
	size := len(buffer)
	noteFrequency := pitch.FrequencyOf(s.currentNote)
	pitchPeriod := s.sampleRate / noteFrequency
	stretched := s.cycleProgress * pitchPeriod / s.periodA440

	left, right := s.balance.Amplitudes()
	for i := 0; i < size; i += graph.ChannelCount {
		stretched += 1.0
		if stretched >= pitchPeriod {
			stretched -= pitchPeriod
		}
		duty := stretched / pitchPeriod
		amplitude := s.currentAmplitude * (-1.0 + 2.0*duty)
		buffer[i] += left * amplitude
		buffer[i+1] += right * amplitude
	}

	s.cycleProgress = stretched * s.periodA440 / pitchPeriod
}

func (s *Sawtooth) ReplaceChildren(children []graph.Node) error {
	if len(children) != 0 {
		return graph.UserErrorf("Sawtooth cannot have children")
	}
	return nil
}
