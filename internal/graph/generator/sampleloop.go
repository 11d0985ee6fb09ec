package generator

import (
	"synthgraph/internal/graph"
	"synthgraph/internal/pitch"
)

// SampleLoop plays interleaved PCM at a pitch-tracked rate with loop
// points: the sampler described by spec.md §4.2 as the non-trivial one.
// Grounded on original_source/src/node/generator/wav.rs.
type SampleLoop struct {
	nodeID uint64

	isOn bool

	sourceNote   uint8
	channels     int
	balance      graph.Balance
	loopStart    int // data index (channel-interleaved), not frame index
	loopEnd      int
	dataPosition int
	currentNote  uint8

	pitchMultiplier float32
	volume          float32
	sourceData      []float32

	// playbackScale converts a ratio computed at the playback sample
	// rate into one expressed in source-data advance per output frame.
	playbackScale float64
}

// NewSampleLoopFromSamples constructs a SampleLoop. loopRange is in
// sample frames; pass nil for "loop the whole buffer" (a SampleLoop
// with no explicit loop points still respects NoteOff by playing the
// remaining tail without wrapping).
func NewSampleLoopFromSamples(nodeID *uint64, format SourceFormat, playbackSampleRate uint32, sourceNote uint8, balance graph.Balance, data []float32, loopRange *graph.LoopRange) (*SampleLoop, error) {
	if err := validateSourceFormat(format); err != nil {
		return nil, err
	}
	lr := graph.LoopRange{StartFrame: 0, EndFrame: len(data) / format.Channels}
	if loopRange != nil {
		lr = *loopRange
	}
	playbackScale := float64(playbackSampleRate) / float64(format.SampleRate)
	return &SampleLoop{
		nodeID:        resolveID(nodeID),
		sourceNote:    sourceNote,
		channels:      format.Channels,
		balance:       balance,
		loopStart:     lr.StartFrame * format.Channels,
		loopEnd:       lr.EndFrame * format.Channels,
		dataPosition:  len(data),
		pitchMultiplier: 1.0,
		volume:        1.0,
		sourceData:    data,
		playbackScale: playbackScale,
	}, nil
}

func (s *SampleLoop) ID() uint64      { return s.nodeID }
func (s *SampleLoop) SetID(id uint64) { s.nodeID = id }

func (s *SampleLoop) Duplicate() (graph.Node, error) {
	id := s.nodeID
	var sourceRate uint32 = playbackSampleRateHint
	if s.playbackScale != 0 {
		sourceRate = uint32(float64(playbackSampleRateHint) / s.playbackScale)
	}
	lr := graph.LoopRange{
		StartFrame: s.loopStart / s.channels,
		EndFrame:   s.loopEnd / s.channels,
	}
	return NewSampleLoopFromSamples(&id, SourceFormat{Channels: s.channels, SampleRate: sourceRate}, playbackSampleRateHint, s.sourceNote, s.balance, s.sourceData, &lr)
}

// playbackSampleRateHint is used only to recover a source sample rate
// on Duplicate (construction-time state only; see graph.Node.Duplicate
// doc — transient playback state is never preserved by duplication).
const playbackSampleRateHint = graph.DefaultSampleRate

func (s *SampleLoop) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventNoteOn:
		s.isOn = true
		s.dataPosition = 0
		s.currentNote = msg.Data.Note
		s.pitchMultiplier = 1.0
	case graph.EventNoteOff:
		if s.currentNote == msg.Data.Note && s.isOn {
			s.isOn = false
		}
	case graph.EventPitchMultiplier:
		s.pitchMultiplier = msg.Data.PitchMultiplier
	case graph.EventSourceBalance:
		s.balance = msg.Data.Balance
	case graph.EventVolume:
		s.volume = msg.Data.Volume
	}
	return true
}

func (s *SampleLoop) Propagate(*graph.Message) {}

// stretchBuffer resamples src (in sourceFramesPerOutputFrame steps) into
// dst, additively, applying balance and volume. Returns how many source
// data points and destination data points were advanced.
func (s *SampleLoop) stretchBuffer(src []float32, dst []float32, sourceFramesPerOutputFrame float64) (srcAdvanced, dstAdvanced int) {
	srcIndex, dstIndex := 0, 0
	left, right := s.balance.Amplitudes()
	for srcIndex < len(src) && dstIndex < len(dst) {
		switch s.channels {
		case 1:
			sample := src[srcIndex] * s.volume
			dst[dstIndex] += left * sample
			dst[dstIndex+1] += right * sample
		case 2:
			dst[dstIndex] += left * src[srcIndex] * s.volume
			dst[dstIndex+1] += right * src[srcIndex+1] * s.volume
		}
		dstIndex += 2
		srcIndex = int(float64(dstIndex/2)*sourceFramesPerOutputFrame) * s.channels
	}
	return srcIndex, dstIndex
}

func (s *SampleLoop) FillBuffer(buffer []float32) {
	if len(buffer) == 0 {
		return
	}

	if s.isOn && s.dataPosition >= s.loopEnd {
		s.dataPosition -= s.loopEnd - s.loopStart
	}

	relativePitch := float64(s.pitchMultiplier) * float64(pitch.RelativePitchRatio(s.currentNote, s.sourceNote))
	sourceFramesPerOutputFrame := relativePitch * s.playbackScale

	remaining := buffer
	for len(remaining) > 0 {
		if s.dataPosition >= len(s.sourceData) {
			s.isOn = false
			return
		}

		sourceEndPoint := len(s.sourceData)
		if s.isOn && s.loopEnd < sourceEndPoint {
			sourceEndPoint = s.loopEnd
		}

		srcAdvanced, dstAdvanced := s.stretchBuffer(s.sourceData[s.dataPosition:sourceEndPoint], remaining, sourceFramesPerOutputFrame)
		s.dataPosition += srcAdvanced

		if s.dataPosition != sourceEndPoint {
			break
		}
		if s.isOn && sourceEndPoint == s.loopEnd {
			s.dataPosition = s.loopStart
			remainingDst := len(remaining) - dstAdvanced
			dstIndex := len(buffer) - remainingDst
			remaining = buffer[dstIndex:]
		} else {
			s.isOn = false
			return
		}
	}
}

func (s *SampleLoop) ReplaceChildren(children []graph.Node) error {
	if len(children) != 0 {
		return graph.UserErrorf("SampleLoop cannot have children")
	}
	return nil
}
