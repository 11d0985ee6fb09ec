package generator

import "synthgraph/internal/graph"

// SourceFormat describes decoded PCM handed to OneShot/SampleLoop by the
// asset loader: already float32, already decoded, channel count and
// native sample rate known. WAV/SF2 byte decoding itself is out of
// scope (spec.md §1's asset-loader boundary); this is the shape the
// loader must produce, supplemented from
// original_source/src/node/generator/{one_shot,wav}.rs's two
// constructors (from WavSpec, from an SF2 SampleHeader).
type SourceFormat struct {
	Channels   int
	SampleRate uint32
}

func validateSourceFormat(f SourceFormat) error {
	if f.Channels == 0 || f.Channels > 2 {
		return graph.UserErrorf("%d channels is not supported (only 1 or 2 is supported)", f.Channels)
	}
	return nil
}
