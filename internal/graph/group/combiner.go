package group

import "synthgraph/internal/graph"

// Combiner sums an arbitrary number of children additively and never
// consumes events itself, passing every message through to all
// children unchanged. Grounded on
// original_source/src/node/group/combiner.rs.
type Combiner struct {
	nodeID uint64

	consumers          []graph.Node
	intermediateBuffer []float32
}

func NewCombiner(nodeID *uint64, consumers []graph.Node, bufferFrames int) *Combiner {
	return &Combiner{
		nodeID:             resolveID(nodeID),
		consumers:          consumers,
		intermediateBuffer: make([]float32, bufferFrames*graph.ChannelCount),
	}
}

func (c *Combiner) ID() uint64      { return c.nodeID }
func (c *Combiner) SetID(id uint64) { c.nodeID = id }

func (c *Combiner) Duplicate() (graph.Node, error) {
	dups := make([]graph.Node, len(c.consumers))
	for i, consumer := range c.consumers {
		dup, err := consumer.Duplicate()
		if err != nil {
			return nil, err
		}
		dups[i] = dup
	}
	return NewCombiner(&c.nodeID, dups, len(c.intermediateBuffer)/graph.ChannelCount), nil
}

func (c *Combiner) TryConsumeEvent(msg *graph.Message) bool {
	return false
}

func (c *Combiner) Propagate(msg *graph.Message) {
	for _, consumer := range c.consumers {
		graph.Dispatch(consumer, msg)
	}
}

func (c *Combiner) FillBuffer(buffer []float32) {
	sampleCount := len(buffer) / graph.ChannelCount
	intermediate := c.intermediateBuffer[:len(buffer)]
	for _, consumer := range c.consumers {
		for i := range intermediate {
			intermediate[i] = 0
		}
		consumer.FillBuffer(intermediate)
		for i := 0; i < sampleCount; i++ {
			idx := i * 2
			buffer[idx] += intermediate[idx]
			buffer[idx+1] += intermediate[idx+1]
		}
	}
}

func (c *Combiner) ReplaceChildren(children []graph.Node) error {
	dups := make([]graph.Node, len(children))
	for i, child := range children {
		dup, err := child.Duplicate()
		if err != nil {
			return err
		}
		dups[i] = dup
	}
	c.consumers = dups
	return nil
}
