package config

import (
	"os"
	"sync"

	"synthgraph/internal/graph"
)

// SampleBuffer is a reference-counted, read-only pool of decoded PCM
// samples shared across every SampleLoop/OneShot node that references
// a range within it (spec.md §4.6, §5 "Shared resources": "The sample
// buffer from a loaded SoundFont is shared read-only by all SampleLoop
// nodes; no mutation after publication"). Go's slice + GC already give
// reference-counted sharing for free; this type exists to pair the
// data with the format metadata needed to interpret it.
type SampleBuffer struct {
	Data       []float32
	Channels   int
	SampleRate uint32
}

// AssetMetadata is the "extracted metadata" half of the two-phase
// cache described in spec.md §4.6: for a SoundFont this is the
// instrument/zone description (note ranges, base notes, loop points,
// offsets into the shared SampleBuffer); for a plain WAV asset it
// degenerates to a single implicit zone spanning the whole buffer.
type AssetMetadata struct {
	Zones []AssetZone
}

// AssetZone names one (note range, sample region) pairing within an
// asset's shared SampleBuffer.
type AssetZone struct {
	Notes      graph.NoteRange
	BaseNote   uint8
	Offset     int // sample-frame offset into the buffer's Data
	Length     int // in sample frames
	LoopStart  int
	LoopEnd    int
	HasLoop    bool
}

// AssetPayload is the tagged union AssetLoader.Load returns: either
// raw, not-yet-decoded bytes (a config document, a MIDI file, a plain
// WAV/SF2 file nobody has parsed yet) or already-prepared metadata and
// sample data (a SoundFont whose zones were decoded by an earlier
// load). Grounded on original_source/src/file/mod.rs's AssetLoadPayload.
type AssetPayload struct {
	Raw      []byte
	Prepared bool
	Metadata AssetMetadata
	Samples  *SampleBuffer
}

// AssetLoader is the injected collaborator of spec.md §4.6: byte
// acquisition is abstracted behind it so internal/config never touches
// the filesystem (or network, or an embedded bundle) directly.
type AssetLoader interface {
	LoadAssetData(path string) (AssetPayload, error)
	StorePreparedData(path string, metadata AssetMetadata, samples *SampleBuffer)
}

// FileAssetLoader is the filesystem-backed AssetLoader implementation:
// plain os.ReadFile for raw bytes, with an in-memory two-phase cache
// for prepared (SoundFont) data so a document referencing the same SF2
// file from several Font nodes only pays the parse cost once.
// Grounded on original_source/src/file/mod.rs's FileAssetLoader.
type FileAssetLoader struct {
	mu     sync.RWMutex
	cached map[string]preparedEntry
}

type preparedEntry struct {
	metadata AssetMetadata
	samples  *SampleBuffer
}

// NewFileAssetLoader builds an empty FileAssetLoader.
func NewFileAssetLoader() *FileAssetLoader {
	return &FileAssetLoader{cached: make(map[string]preparedEntry)}
}

func (l *FileAssetLoader) LoadAssetData(path string) (AssetPayload, error) {
	l.mu.RLock()
	entry, ok := l.cached[path]
	l.mu.RUnlock()
	if ok {
		return AssetPayload{Prepared: true, Metadata: entry.metadata, Samples: entry.samples}, nil
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return AssetPayload{}, graph.IOErrorf(err, "reading asset %q", path)
	}
	return AssetPayload{Raw: bytes}, nil
}

func (l *FileAssetLoader) StorePreparedData(path string, metadata AssetMetadata, samples *SampleBuffer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached[path] = preparedEntry{metadata: metadata, samples: samples}
}
