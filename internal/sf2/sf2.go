// Package sf2 decodes SoundFont2 assets via github.com/sinshu/go-meltysynth,
// producing the shared sample pool and per-zone metadata described by
// spec.md §4.6 and §6: presets ignored, one required instrument, a
// mandatory key-range generator per zone, mono 16-bit PCM converted to
// float32 in [-1, 1]. Grounded on
// original_source/src/file/font.rs's soundfont_from_file, which drives
// the Rust `soundfont` crate's raw chunk parser directly; this
// repository uses go-meltysynth's higher-level SoundFont/Instrument/
// InstrumentRegion types for the same job instead of hand-rolling RIFF
// chunk parsing, per DESIGN.md's "never fall back to stdlib where the
// pack shows a library" rule.
package sf2

import (
	"bytes"

	"github.com/sinshu/go-meltysynth/meltysynth"

	"synthgraph/internal/graph"
)

// Zone is one instrument zone's key range and sample-region placement
// within the shared sample pool (spec.md §4.6's "instrument/zone
// descriptions"). Expressed independently of internal/config's
// AssetZone to avoid an import cycle (internal/config wires Decode's
// result into its own asset types); internal/config/sf2_config.go
// converts between the two.
type Zone struct {
	Notes     graph.NoteRange
	BaseNote  uint8
	Offset    int
	Length    int
	LoopStart int
	LoopEnd   int
	HasLoop   bool
}

// SamplePool is the decoded, shared mono PCM data every Zone's Offset
// and Length index into.
type SamplePool struct {
	Data       []float32
	SampleRate uint32
}

// Decode parses SF2 bytes and extracts one instrument's zones plus the
// shared float32 sample pool its offsets index into. instrumentIndex
// selects which instrument to use; presets are ignored per spec.md §6.
func Decode(data []byte, instrumentIndex int) ([]Zone, *SamplePool, error) {
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(data))
	if err != nil {
		return nil, nil, graph.ParseErrorf("parsing SoundFont2 data: %v", err)
	}
	if len(sf.Instruments) == 0 {
		return nil, nil, graph.UserErrorf("SF2: file has no instruments")
	}
	if instrumentIndex < 0 || instrumentIndex >= len(sf.Instruments) {
		return nil, nil, graph.UserErrorf("SF2: instrument index %d out of bounds (%d instruments)", instrumentIndex, len(sf.Instruments))
	}
	instrument := sf.Instruments[instrumentIndex]

	samples := make([]float32, len(sf.WaveData))
	for i, s := range sf.WaveData {
		samples[i] = float32(s) / 32768.0
	}
	pool := &SamplePool{Data: samples}

	var zones []Zone
	for _, region := range instrument.Regions {
		sample := region.Sample
		if sample == nil {
			continue
		}
		if pool.SampleRate == 0 {
			pool.SampleRate = uint32(sample.SampleRate)
		}
		low, high, err := keyRangeOf(region)
		if err != nil {
			return nil, nil, err
		}
		start := int(region.GetSampleStart())
		end := int(region.GetSampleEnd())
		loopStart := int(region.GetSampleStartLoop())
		loopEnd := int(region.GetSampleEndLoop())
		zones = append(zones, Zone{
			Notes:     graph.NoteRange{Low: low, High: high},
			BaseNote:  sample.OriginalPitch,
			Offset:    start,
			Length:    end - start,
			LoopStart: loopStart - start,
			LoopEnd:   loopEnd - start,
			HasLoop:   loopEnd > loopStart,
		})
	}
	if len(zones) == 0 {
		return nil, nil, graph.UserErrorf("SF2: instrument %d has no usable zones", instrumentIndex)
	}
	return zones, pool, nil
}

// keyRangeOf reads an instrument zone's mandatory key-range generator
// (spec.md §6: "each instrument zone must declare a key range
// generator").
func keyRangeOf(region *meltysynth.InstrumentRegion) (low, high uint8, err error) {
	start := region.GetKeyRangeStart()
	end := region.GetKeyRangeEnd()
	if start < 0 || end < start {
		return 0, 0, graph.UserErrorf("SF2: instrument zone has no key range generator")
	}
	return uint8(start), uint8(end), nil
}
