package effect

import (
	"math"

	"synthgraph/internal/graph"
)

// LFO is a stepwise-cosine modulator. It pulls its child directly into
// the caller's output slice per step-segment — no intermediate buffer
// is needed since the LFO mutates the child via broadcast events
// between slices rather than scaling samples itself. Grounded on
// original_source/src/node/effect/lfo.rs.
type LFO struct {
	nodeID uint64

	hasProperty bool
	property    graph.ModulationProperty

	consumer graph.Node

	framesProgressInStep int64
	framesPerStep        int64
	currentStep          uint64
	cycleSteps           uint64
	low, high            float32

	sampleRate float32
}

func NewLFO(nodeID *uint64, consumer graph.Node, sampleRate float32) *LFO {
	return &LFO{
		nodeID:        resolveID(nodeID),
		consumer:      consumer,
		framesPerStep: 1,
		low:           0.0,
		high:          1.0,
		sampleRate:    sampleRate,
	}
}

func (l *LFO) ID() uint64      { return l.nodeID }
func (l *LFO) SetID(id uint64) { l.nodeID = id }

func (l *LFO) Duplicate() (graph.Node, error) {
	consumerDup, err := l.consumer.Duplicate()
	if err != nil {
		return nil, err
	}
	return &LFO{
		nodeID:        l.nodeID,
		hasProperty:   l.hasProperty,
		property:      l.property,
		consumer:      consumerDup,
		framesPerStep: l.framesPerStep,
		cycleSteps:    l.cycleSteps,
		low:           0.0,
		high:          1.0,
		sampleRate:    l.sampleRate,
	}, nil
}

func modulationEvent(property graph.ModulationProperty, value float32) graph.Event {
	switch property {
	case graph.ModVolume:
		return graph.Event{Kind: graph.EventVolume, Volume: value}
	case graph.ModPan:
		return graph.Event{Kind: graph.EventSourceBalance, Balance: graph.Balance{Kind: graph.BalancePan, Pan: value}}
	case graph.ModPitchMultiplier:
		return graph.Event{Kind: graph.EventPitchMultiplier, PitchMultiplier: value}
	case graph.ModMixBalance:
		return graph.Event{Kind: graph.EventMixerBalance, MixerBalance: value}
	case graph.ModTimeDilation:
		return graph.Event{Kind: graph.EventTimeDilation, TimeDilation: value}
	default:
		return graph.Event{Kind: graph.EventUnknown}
	}
}

func (l *LFO) sendStepEvent() {
	if !l.hasProperty {
		return
	}
	periodValue := float32(l.currentStep) / float32(l.cycleSteps)
	value := l.low + (l.high-l.low)*(float32(math.Cos(float64(periodValue)*2*math.Pi))*0.5+0.5)
	ev := modulationEvent(l.property, value)
	graph.Dispatch(l.consumer, &graph.Message{Target: graph.BroadcastTarget, Data: ev})
}

func (l *LFO) sendOffEvent() {
	if !l.hasProperty {
		return
	}
	var ev graph.Event
	switch l.property {
	case graph.ModVolume:
		ev = graph.Event{Kind: graph.EventVolume, Volume: 1.0}
	case graph.ModPan:
		ev = graph.Event{Kind: graph.EventSourceBalance, Balance: graph.Balance{Kind: graph.BalanceBoth}}
	case graph.ModPitchMultiplier:
		ev = graph.Event{Kind: graph.EventPitchMultiplier, PitchMultiplier: 1.0}
	case graph.ModMixBalance:
		ev = graph.Event{Kind: graph.EventMixerBalance, MixerBalance: 0.5}
	case graph.ModTimeDilation:
		ev = graph.Event{Kind: graph.EventTimeDilation, TimeDilation: 1.0}
	default:
		return
	}
	graph.Dispatch(l.consumer, &graph.Message{Target: graph.BroadcastTarget, Data: ev})
}

func (l *LFO) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventLfo:
		cycleSteps := msg.Data.LfoSteps
		if cycleSteps == 0 {
			cycleSteps = 1
		}
		periodSecs := msg.Data.LfoPeriodSecs
		if periodSecs < 1e-6 {
			periodSecs = 1.0
		}
		framesPerStep := l.sampleRate / (float32(cycleSteps) / periodSecs)
		l.hasProperty = true
		l.property = msg.Data.LfoProperty
		l.low = msg.Data.LfoLow
		l.high = msg.Data.LfoHigh
		l.framesProgressInStep = 0
		l.framesPerStep = int64(framesPerStep)
		l.currentStep = 0
		l.cycleSteps = uint64(cycleSteps)
	case graph.EventEndModulation:
		l.sendOffEvent()
		l.hasProperty = false
	}
	return false
}

func (l *LFO) Propagate(msg *graph.Message) {
	graph.Dispatch(l.consumer, msg)
}

func (l *LFO) FillBuffer(buffer []float32) {
	if !l.hasProperty {
		l.consumer.FillBuffer(buffer)
		return
	}
	framesInBuffer := int64(len(buffer)) / graph.ChannelCount
	framesAvailable := framesInBuffer
	for framesAvailable > 0 {
		framesLeftInStep := l.framesPerStep - l.framesProgressInStep
		framesToFill := framesLeftInStep
		if framesAvailable < framesToFill {
			framesToFill = framesAvailable
		}
		bufferIndex := graph.ChannelCount * (framesInBuffer - framesAvailable)
		bufferEnd := bufferIndex + graph.ChannelCount*framesToFill
		l.consumer.FillBuffer(buffer[bufferIndex:bufferEnd])
		l.framesProgressInStep += framesToFill
		if framesToFill == framesLeftInStep {
			l.framesProgressInStep -= l.framesPerStep
			l.currentStep++
			l.sendStepEvent()
			if l.currentStep >= l.cycleSteps {
				l.currentStep -= l.cycleSteps
			}
		}
		framesAvailable -= framesToFill
	}
}

func (l *LFO) ReplaceChildren(children []graph.Node) error {
	if len(children) != 1 {
		return graph.UserErrorf("LFO requires exactly one child")
	}
	dup, err := children[0].Duplicate()
	if err != nil {
		return err
	}
	l.consumer = dup
	return nil
}
