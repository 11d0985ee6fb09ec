package effect

import "synthgraph/internal/graph"

// Transition is a one-shot linear ramp from a "from" value to a "to"
// value over a fixed number of steps, auto-disabling once the ramp
// completes (unlike LFO, which wraps indefinitely). Grounded on
// original_source/src/node/effect/transition.rs.
type Transition struct {
	nodeID uint64

	hasProperty bool
	property    graph.ModulationProperty

	consumer graph.Node

	framesProgressInStep int64
	framesPerStep        int64
	currentStep          uint64
	totalSteps           uint64
	from, to             float32

	sampleRate float32
}

func NewTransition(nodeID *uint64, consumer graph.Node, sampleRate float32) *Transition {
	return &Transition{
		nodeID:        resolveID(nodeID),
		consumer:      consumer,
		framesPerStep: 1,
		from:          0.0,
		to:            1.0,
		sampleRate:    sampleRate,
	}
}

func (tr *Transition) ID() uint64      { return tr.nodeID }
func (tr *Transition) SetID(id uint64) { tr.nodeID = id }

func (tr *Transition) Duplicate() (graph.Node, error) {
	consumerDup, err := tr.consumer.Duplicate()
	if err != nil {
		return nil, err
	}
	return &Transition{
		nodeID:        tr.nodeID,
		consumer:      consumerDup,
		framesPerStep: tr.framesPerStep,
		totalSteps:    tr.totalSteps,
		from:          0.0,
		to:            1.0,
		sampleRate:    tr.sampleRate,
	}, nil
}

func (tr *Transition) sendEvent() {
	if !tr.hasProperty {
		return
	}
	periodValue := float32(tr.currentStep) / float32(tr.totalSteps)
	value := tr.from + (tr.to-tr.from)*periodValue
	ev := modulationEvent(tr.property, value)
	graph.Dispatch(tr.consumer, &graph.Message{Target: graph.BroadcastTarget, Data: ev})
}

func (tr *Transition) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventTransition:
		totalSteps := msg.Data.TransitionSteps
		if totalSteps == 0 {
			totalSteps = 1
		}
		durationSecs := msg.Data.TransitionSeconds
		if durationSecs < 1e-6 {
			durationSecs = 1.0
		}
		framesPerStep := tr.sampleRate / (float32(totalSteps) / durationSecs)
		tr.hasProperty = true
		tr.property = msg.Data.TransitionProperty
		tr.from = msg.Data.TransitionFrom
		tr.to = msg.Data.TransitionTo
		tr.framesProgressInStep = 0
		tr.framesPerStep = int64(framesPerStep)
		tr.currentStep = 0
		tr.totalSteps = uint64(totalSteps)
	case graph.EventEndModulation:
		tr.hasProperty = false
	}
	return false
}

func (tr *Transition) Propagate(msg *graph.Message) {
	graph.Dispatch(tr.consumer, msg)
}

func (tr *Transition) FillBuffer(buffer []float32) {
	if !tr.hasProperty {
		tr.consumer.FillBuffer(buffer)
		return
	}
	framesInBuffer := int64(len(buffer)) / graph.ChannelCount
	framesAvailable := framesInBuffer
	for framesAvailable > 0 {
		if !tr.hasProperty {
			bufferIndex := graph.ChannelCount * (framesInBuffer - framesAvailable)
			tr.consumer.FillBuffer(buffer[bufferIndex:])
			return
		}
		framesLeftInStep := tr.framesPerStep - tr.framesProgressInStep
		framesToFill := framesLeftInStep
		if framesAvailable < framesToFill {
			framesToFill = framesAvailable
		}
		bufferIndex := graph.ChannelCount * (framesInBuffer - framesAvailable)
		bufferEnd := bufferIndex + graph.ChannelCount*framesToFill
		tr.consumer.FillBuffer(buffer[bufferIndex:bufferEnd])
		tr.framesProgressInStep += framesToFill
		if framesToFill == framesLeftInStep {
			tr.framesProgressInStep -= tr.framesPerStep
			tr.currentStep++
			tr.sendEvent()
			if tr.currentStep >= tr.totalSteps {
				tr.hasProperty = false
			}
		}
		framesAvailable -= framesToFill
	}
}

func (tr *Transition) ReplaceChildren(children []graph.Node) error {
	if len(children) != 1 {
		return graph.UserErrorf("Transition requires exactly one child")
	}
	dup, err := children[0].Duplicate()
	if err != nil {
		return err
	}
	tr.consumer = dup
	return nil
}
