package config

import (
	"synthgraph/internal/graph"
	"synthgraph/internal/graph/generator"
	"synthgraph/internal/graph/group"
	"synthgraph/internal/sf2"
)

// SoundFontConfig builds a group.Font from a SoundFont2 file's
// instrument zones, the FontSource::Sf2FilePath variant of
// original_source/src/node/group/font.rs's FontSource enum (see
// groups.go's FontConfig doc for why that variant lives here instead).
// Each zone becomes a group.Polyphony pool of SampleLoop voices sharing
// one decoded sample buffer, matching spec.md §4.6's "shared read-only
// SampleBuffer" invariant.
type SoundFontConfig struct {
	idRef
	FilePath        string `json:"file_path"`
	InstrumentIndex int    `json:"instrument_index,omitempty"`
	MaxVoices       *int   `json:"max_voices,omitempty"`
}

func (c *SoundFontConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}

	payload, err := ctx.Assets.LoadAssetData(c.FilePath)
	if err != nil {
		return nil, err
	}

	var metadata AssetMetadata
	var samples *SampleBuffer
	if payload.Prepared {
		metadata, samples = payload.Metadata, payload.Samples
	} else {
		if payload.Raw == nil {
			return nil, graph.UserErrorf("SoundFont asset %q returned neither raw bytes nor prepared data", c.FilePath)
		}
		zones, pool, err := sf2.Decode(payload.Raw, c.InstrumentIndex)
		if err != nil {
			return nil, err
		}
		metadata = AssetMetadata{Zones: make([]AssetZone, len(zones))}
		for i, z := range zones {
			metadata.Zones[i] = AssetZone{
				Notes: z.Notes, BaseNote: z.BaseNote,
				Offset: z.Offset, Length: z.Length,
				LoopStart: z.LoopStart, LoopEnd: z.LoopEnd, HasLoop: z.HasLoop,
			}
		}
		samples = &SampleBuffer{Data: pool.Data, Channels: 1, SampleRate: pool.SampleRate}
		ctx.Assets.StorePreparedData(c.FilePath, metadata, samples)
		ctx.log("decoded SoundFont %q: %d zone(s)", c.FilePath, len(metadata.Zones))
	}

	maxVoices := intOr(c.MaxVoices, defaultSoundFontVoices)
	ranges := make([]group.Range, len(metadata.Zones))
	for i, z := range metadata.Zones {
		var loopRange *graph.LoopRange
		if z.HasLoop {
			loopRange = &graph.LoopRange{StartFrame: z.LoopStart, EndFrame: z.LoopEnd}
		}
		frames := samples.Data[z.Offset : z.Offset+z.Length]
		voice, err := generator.NewSampleLoopFromSamples(nil, generator.SourceFormat{Channels: samples.Channels, SampleRate: samples.SampleRate}, uint32(ctx.SampleRate), z.BaseNote, defaultBalance(), frames, loopRange)
		if err != nil {
			return nil, err
		}
		pool, err := group.NewPolyphony(nil, maxVoices, voice)
		if err != nil {
			return nil, err
		}
		ranges[i] = group.Range{Notes: z.Notes, Consumer: pool}
	}
	return group.NewFont(c.resolve(), ranges), nil
}

func (c *SoundFontConfig) CloneChildConfigs() []NodeConfig { return nil }
func (c *SoundFontConfig) AssetSource() string             { return c.FilePath }
func (c *SoundFontConfig) Duplicate() NodeConfig {
	cp := *c
	return &cp
}
