// Package effect holds the single-child modulation nodes: ADSR envelope,
// Fader, LFO, Transition, and the stereo IIR Filter. Each owns one child
// and a preallocated intermediate buffer, pulls the child into it, then
// writes a transformed result additively into its own output — the
// sub-buffer segmentation pattern described in spec.md §4.3 and §9.
package effect

import (
	"synthgraph/internal/graph"
)

const adsrPeakAmplitude float32 = 1.0

type envelopeMode int

const (
	envAttack envelopeMode = iota
	envDecay
	envSustain
	envRelease
	envFinished
)

// ADSR is the attack/decay/sustain/release envelope. Grounded on
// original_source/src/node/effect/adsr.rs.
type ADSR struct {
	nodeID uint64

	attackGradient     float32
	decayGradient      float32
	sustainMultiplier  float32
	releaseGradient    float32

	consumer            graph.Node
	intermediateBuffer  []float32

	mode                envelopeMode
	samplesProgress     int64
}

// NewADSR builds an envelope from times in seconds. bufferFrames sizes
// the preallocated intermediate buffer (I4: no audio-thread allocation
// once built).
func NewADSR(nodeID *uint64, attackSecs, decaySecs, sustainMultiplier, releaseSecs float32, consumer graph.Node, sampleRate float32, bufferFrames int) *ADSR {
	return &ADSR{
		nodeID:             resolveID(nodeID),
		attackGradient:     adsrPeakAmplitude / (attackSecs * sampleRate),
		decayGradient:      (sustainMultiplier - adsrPeakAmplitude) / (decaySecs * sampleRate),
		sustainMultiplier:  sustainMultiplier,
		releaseGradient:    (0.0 - sustainMultiplier) / (releaseSecs * sampleRate),
		consumer:           consumer,
		intermediateBuffer: make([]float32, bufferFrames*graph.ChannelCount),
		mode:               envAttack,
	}
}

func resolveID(nodeID *uint64) uint64 {
	if nodeID != nil {
		return *nodeID
	}
	return graph.NewNodeID()
}

func (a *ADSR) ID() uint64      { return a.nodeID }
func (a *ADSR) SetID(id uint64) { a.nodeID = id }

func (a *ADSR) Duplicate() (graph.Node, error) {
	consumerDup, err := a.consumer.Duplicate()
	if err != nil {
		return nil, err
	}
	return &ADSR{
		nodeID:             a.nodeID,
		attackGradient:     a.attackGradient,
		decayGradient:      a.decayGradient,
		sustainMultiplier:  a.sustainMultiplier,
		releaseGradient:    a.releaseGradient,
		consumer:           consumerDup,
		intermediateBuffer: make([]float32, len(a.intermediateBuffer)),
		mode:               envAttack,
	}, nil
}

// release transitions into Release, pre-seeding samplesProgress so the
// release ramp begins from whatever multiplier value the envelope was
// already at — this is what preserves ramp continuity (spec.md §4.3.1)
// when NoteOff arrives mid-attack or mid-decay.
func (a *ADSR) release() {
	switch a.mode {
	case envAttack:
		currentMultiplier := float32(a.samplesProgress) * a.attackGradient
		a.samplesProgress = int64((currentMultiplier - a.sustainMultiplier) / a.releaseGradient)
	case envDecay:
		currentMultiplier := adsrPeakAmplitude + float32(a.samplesProgress)*a.decayGradient
		a.samplesProgress = int64((currentMultiplier - a.sustainMultiplier) / a.releaseGradient)
	case envSustain:
		a.samplesProgress = 0
	case envRelease:
		// already mid-release; keep progress as-is
	case envFinished:
		a.samplesProgress = int64(-a.sustainMultiplier / a.releaseGradient)
	}
	a.mode = envRelease
}

func (a *ADSR) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventNoteOn:
		a.mode = envAttack
		a.samplesProgress = 0
	case graph.EventNoteOff:
		a.release()
	}
	return false
}

func (a *ADSR) Propagate(msg *graph.Message) {
	graph.Dispatch(a.consumer, msg)
}

func (a *ADSR) FillBuffer(buffer []float32) {
	bufferSize := len(buffer)
	samplesInBuffer := bufferSize / graph.ChannelCount

	intermediate := a.intermediateBuffer[:bufferSize]
	for i := range intermediate {
		intermediate[i] = 0
	}
	a.consumer.FillBuffer(intermediate)

	samplesAvailable := samplesInBuffer
	for samplesAvailable > 0 {
		samplesLeftInMode := a.samplesLeftInMode()
		samplesToFill := samplesLeftInMode
		if samplesAvailable < samplesToFill {
			samplesToFill = samplesAvailable
		}
		bufferIndex := graph.ChannelCount * (samplesInBuffer - samplesAvailable)
		bufferSlice := buffer[bufferIndex:]
		intermediateSlice := intermediate[bufferIndex:]

		switch a.mode {
		case envAttack:
			for i := 0; i < samplesToFill; i++ {
				multiplier := float32(a.samplesProgress+int64(i)) * a.attackGradient
				bufferSlice[2*i] += multiplier * intermediateSlice[2*i]
				bufferSlice[2*i+1] += multiplier * intermediateSlice[2*i+1]
			}
			if samplesToFill == samplesLeftInMode {
				a.mode = envDecay
				a.samplesProgress = 0
			} else {
				a.samplesProgress += int64(samplesToFill)
			}
		case envDecay:
			for i := 0; i < samplesToFill; i++ {
				multiplier := adsrPeakAmplitude + float32(a.samplesProgress+int64(i))*a.decayGradient
				bufferSlice[2*i] += multiplier * intermediateSlice[2*i]
				bufferSlice[2*i+1] += multiplier * intermediateSlice[2*i+1]
			}
			if samplesToFill == samplesLeftInMode {
				a.mode = envSustain
				a.samplesProgress = 0
			} else {
				a.samplesProgress += int64(samplesToFill)
			}
		case envSustain:
			multiplier := a.sustainMultiplier
			for i := 0; i < samplesToFill; i++ {
				bufferSlice[2*i] += multiplier * intermediateSlice[2*i]
				bufferSlice[2*i+1] += multiplier * intermediateSlice[2*i+1]
			}
			a.samplesProgress += int64(samplesToFill)
		case envRelease:
			for i := 0; i < samplesToFill; i++ {
				multiplier := a.sustainMultiplier + float32(a.samplesProgress+int64(i))*a.releaseGradient
				bufferSlice[2*i] += multiplier * intermediateSlice[2*i]
				bufferSlice[2*i+1] += multiplier * intermediateSlice[2*i+1]
			}
			if samplesToFill == samplesLeftInMode {
				a.mode = envFinished
				a.samplesProgress = 0
			} else {
				a.samplesProgress += int64(samplesToFill)
			}
		case envFinished:
			// no contribution
		}
		samplesAvailable -= samplesToFill
	}
}

func (a *ADSR) samplesLeftInMode() int {
	var total int64
	switch a.mode {
	case envAttack:
		total = int64(adsrPeakAmplitude/a.attackGradient) - a.samplesProgress
	case envDecay:
		total = int64(adsrPeakAmplitude*(a.sustainMultiplier-1.0)/a.decayGradient) - a.samplesProgress
	case envSustain:
		return int(^uint(0) >> 1)
	case envRelease:
		total = int64(-a.sustainMultiplier/a.releaseGradient) - a.samplesProgress
	case envFinished:
		return int(^uint(0) >> 1)
	}
	if total < 0 {
		total = 0
	}
	return int(total)
}

func (a *ADSR) ReplaceChildren(children []graph.Node) error {
	if len(children) != 1 {
		return graph.UserErrorf("ADSR requires exactly one child")
	}
	dup, err := children[0].Duplicate()
	if err != nil {
		return err
	}
	a.consumer = dup
	return nil
}
