package generator

import "synthgraph/internal/graph"

// OneShot plays decoded PCM once per NoteOn with no looping or pitch
// tracking: a drum-hit or foley sampler. Grounded on
// original_source/src/node/generator/one_shot.rs.
type OneShot struct {
	nodeID       uint64
	channels     int
	balance      graph.Balance
	volume       float32
	dataPosition int
	sourceData   []float32
}

// NewOneShotFromSamples constructs a OneShot from already-decoded PCM
// (see SourceFormat doc).
func NewOneShotFromSamples(nodeID *uint64, format SourceFormat, balance graph.Balance, data []float32) (*OneShot, error) {
	if err := validateSourceFormat(format); err != nil {
		return nil, err
	}
	return &OneShot{
		nodeID:       resolveID(nodeID),
		channels:     format.Channels,
		balance:      balance,
		volume:       1.0,
		dataPosition: len(data),
		sourceData:   data,
	}, nil
}

func (o *OneShot) ID() uint64      { return o.nodeID }
func (o *OneShot) SetID(id uint64) { o.nodeID = id }

func (o *OneShot) Duplicate() (graph.Node, error) {
	id := o.nodeID
	return NewOneShotFromSamples(&id, SourceFormat{Channels: o.channels}, o.balance, o.sourceData)
}

func (o *OneShot) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventNoteOn:
		o.dataPosition = 0
	case graph.EventNoteOff:
		o.dataPosition = len(o.sourceData)
	case graph.EventSourceBalance:
		o.balance = msg.Data.Balance
	case graph.EventVolume:
		o.volume = msg.Data.Volume
	}
	return false
}

func (o *OneShot) Propagate(*graph.Message) {}

func (o *OneShot) FillBuffer(buffer []float32) {
	if len(buffer) == 0 || o.dataPosition >= len(o.sourceData) {
		return
	}
	src := o.sourceData[o.dataPosition:]
	left, right := o.balance.Amplitudes()

	switch o.channels {
	case 1:
		srcPoints := len(buffer) / 2
		if srcPoints > len(src) {
			srcPoints = len(src)
		}
		for i := 0; i < srcPoints; i++ {
			sample := src[i] * o.volume
			buffer[i*2] += left * sample
			buffer[i*2+1] += right * sample
		}
		o.dataPosition += srcPoints
	case 2:
		srcPoints := len(buffer)
		if srcPoints > len(src) {
			srcPoints = len(src)
		}
		srcPoints -= srcPoints % 2
		for i := 0; i < srcPoints; i += 2 {
			buffer[i] += left * src[i] * o.volume
			buffer[i+1] += right * src[i+1] * o.volume
		}
		o.dataPosition += srcPoints
	}
}

func (o *OneShot) ReplaceChildren(children []graph.Node) error {
	if len(children) != 0 {
		return graph.UserErrorf("OneShot cannot have children")
	}
	return nil
}
