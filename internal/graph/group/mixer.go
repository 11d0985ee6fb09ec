package group

import "synthgraph/internal/graph"

// Mixer blends exactly two children by a continuous [0,1] balance,
// consumer0 scaled by (1-balance) and consumer1 by balance. Grounded on
// original_source/src/node/group/mixer.rs.
type Mixer struct {
	nodeID  uint64
	balance float32

	consumer0, consumer1 graph.Node
	intermediateBuffer   []float32
}

func NewMixer(nodeID *uint64, balance float32, consumer0, consumer1 graph.Node, bufferFrames int) *Mixer {
	return &Mixer{
		nodeID:             resolveID(nodeID),
		balance:            balance,
		consumer0:          consumer0,
		consumer1:          consumer1,
		intermediateBuffer: make([]float32, bufferFrames*graph.ChannelCount),
	}
}

func (m *Mixer) ID() uint64      { return m.nodeID }
func (m *Mixer) SetID(id uint64) { m.nodeID = id }

func (m *Mixer) Duplicate() (graph.Node, error) {
	dup0, err := m.consumer0.Duplicate()
	if err != nil {
		return nil, err
	}
	dup1, err := m.consumer1.Duplicate()
	if err != nil {
		return nil, err
	}
	return NewMixer(&m.nodeID, m.balance, dup0, dup1, len(m.intermediateBuffer)/graph.ChannelCount), nil
}

func (m *Mixer) TryConsumeEvent(msg *graph.Message) bool {
	if msg.Data.Kind != graph.EventMixerBalance {
		return false
	}
	m.balance = msg.Data.MixerBalance
	return true
}

func (m *Mixer) Propagate(msg *graph.Message) {
	graph.Dispatch(m.consumer0, msg)
	graph.Dispatch(m.consumer1, msg)
}

func (m *Mixer) FillBuffer(buffer []float32) {
	sampleCount := len(buffer) / graph.ChannelCount
	intermediate := m.intermediateBuffer[:len(buffer)]

	for i := range intermediate {
		intermediate[i] = 0
	}
	m.consumer0.FillBuffer(intermediate)
	multiplier0 := 1 - m.balance
	for i := 0; i < sampleCount; i++ {
		idx := i * 2
		buffer[idx] += multiplier0 * intermediate[idx]
		buffer[idx+1] += multiplier0 * intermediate[idx+1]
	}

	for i := range intermediate {
		intermediate[i] = 0
	}
	m.consumer1.FillBuffer(intermediate)
	for i := 0; i < sampleCount; i++ {
		idx := i * 2
		buffer[idx] += m.balance * intermediate[idx]
		buffer[idx+1] += m.balance * intermediate[idx+1]
	}
}

func (m *Mixer) ReplaceChildren(children []graph.Node) error {
	if len(children) != 2 {
		return graph.UserErrorf("Mixer requires exactly two children")
	}
	dup0, err := children[0].Duplicate()
	if err != nil {
		return err
	}
	dup1, err := children[1].Duplicate()
	if err != nil {
		return err
	}
	m.consumer0 = dup0
	m.consumer1 = dup1
	return nil
}
