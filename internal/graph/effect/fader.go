package effect

import "synthgraph/internal/graph"

// Fader applies a linear volume ramp in response to Fade events.
// Grounded on original_source/src/node/effect/fader.rs.
type Fader struct {
	nodeID uint64

	durationSeconds float32
	fromVolume      float32
	toVolume        float32
	progressSeconds float32

	consumer           graph.Node
	intermediateBuffer []float32
	sampleRate         float32
}

// NewFader builds a Fader holding steady at initialVolume until a Fade
// event arrives.
func NewFader(nodeID *uint64, initialVolume float32, consumer graph.Node, sampleRate float32, bufferFrames int) *Fader {
	return &Fader{
		nodeID:             resolveID(nodeID),
		fromVolume:         initialVolume,
		toVolume:           initialVolume,
		consumer:           consumer,
		intermediateBuffer: make([]float32, bufferFrames*graph.ChannelCount),
		sampleRate:         sampleRate,
	}
}

func (f *Fader) ID() uint64      { return f.nodeID }
func (f *Fader) SetID(id uint64) { f.nodeID = id }

func (f *Fader) Duplicate() (graph.Node, error) {
	consumerDup, err := f.consumer.Duplicate()
	if err != nil {
		return nil, err
	}
	return &Fader{
		nodeID:             f.nodeID,
		durationSeconds:    f.durationSeconds,
		fromVolume:         f.fromVolume,
		toVolume:           f.toVolume,
		progressSeconds:    f.progressSeconds,
		consumer:           consumerDup,
		intermediateBuffer: make([]float32, len(f.intermediateBuffer)),
		sampleRate:         f.sampleRate,
	}, nil
}

func (f *Fader) TryConsumeEvent(msg *graph.Message) bool {
	if msg.Data.Kind != graph.EventFade {
		return false
	}
	f.fromVolume = msg.Data.FadeFrom
	f.toVolume = msg.Data.FadeTo
	f.durationSeconds = msg.Data.FadeSeconds
	f.progressSeconds = 0
	return true
}

func (f *Fader) Propagate(msg *graph.Message) {
	graph.Dispatch(f.consumer, msg)
}

func (f *Fader) FillBuffer(buffer []float32) {
	intermediate := f.intermediateBuffer[:len(buffer)]
	for i := range intermediate {
		intermediate[i] = 0
	}
	f.consumer.FillBuffer(intermediate)

	if f.progressSeconds >= f.durationSeconds {
		for i, data := range intermediate {
			buffer[i] += data * f.toVolume
		}
		return
	}

	framesRemaining := int((f.durationSeconds - f.progressSeconds) * f.sampleRate)
	samplesToFade := framesRemaining
	if bufferFrames := len(buffer) / graph.ChannelCount; samplesToFade > bufferFrames {
		samplesToFade = bufferFrames
	}

	fadeGradientPerSample := (f.toVolume - f.fromVolume) / f.durationSeconds / f.sampleRate
	baseVolume := f.fromVolume + (f.progressSeconds/f.durationSeconds)*(f.toVolume-f.fromVolume)

	for i := 0; i < samplesToFade; i++ {
		volume := baseVolume + float32(i)*fadeGradientPerSample
		buffer[2*i] += intermediate[2*i] * volume
		buffer[2*i+1] += intermediate[2*i+1] * volume
	}

	for i := 2 * samplesToFade; i < len(buffer); i++ {
		buffer[i] += intermediate[i] * f.toVolume
	}

	f.progressSeconds += float32(len(buffer)/graph.ChannelCount) / f.sampleRate
	if f.progressSeconds > f.durationSeconds {
		f.progressSeconds = f.durationSeconds
	}
}

func (f *Fader) ReplaceChildren(children []graph.Node) error {
	if len(children) != 1 {
		return graph.UserErrorf("Fader requires exactly one child")
	}
	dup, err := children[0].Duplicate()
	if err != nil {
		return err
	}
	f.consumer = dup
	return nil
}
