package config

import (
	"errors"
	"testing"

	"synthgraph/internal/graph"
)

type stubAssetLoader struct {
	raw map[string][]byte
}

func (s *stubAssetLoader) LoadAssetData(path string) (AssetPayload, error) {
	data, ok := s.raw[path]
	if !ok {
		return AssetPayload{}, graph.IOErrorf(nil, "no such asset %q", path)
	}
	return AssetPayload{Raw: data}, nil
}

func (s *stubAssetLoader) StorePreparedData(path string, metadata AssetMetadata, samples *SampleBuffer) {
}

func newTestContext(assets AssetLoader) *BuildContext {
	return NewBuildContext(graph.DefaultSampleRate, graph.DefaultBufferFrames, assets, NewRegistry(), nil)
}

func TestLoadSquareWaveBuildsNode(t *testing.T) {
	ctx := newTestContext(&stubAssetLoader{})
	root, err := Load([]byte(`{"type":"SquareWave","amplitude":0.75}`), ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root == nil {
		t.Fatal("expected a node")
	}
}

func TestDecodeUnrecognizedTypeIsUserError(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Decode([]byte(`{"type":"DoesNotExist"}`))
	if err == nil {
		t.Fatal("expected an error for an unregistered type")
	}
	var gerr *graph.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a graph.Error, got %T: %v", err, err)
	}
	if gerr.Kind != graph.KindUser {
		t.Fatalf("expected KindUser, got %v", gerr.Kind)
	}
}

func TestNestedADSROverFaderOverSquareBuilds(t *testing.T) {
	doc := []byte(`{
		"type": "AdsrEnvelope",
		"attack": 0.01,
		"consumer": {
			"type": "Fader",
			"consumer": {"type": "SquareWave"}
		}
	}`)
	ctx := newTestContext(&stubAssetLoader{})
	root, err := Load(doc, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := make([]float32, 8)
	root.FillBuffer(buf) // should not panic: silent until NoteOn
}

func TestMixerWithTwoChildrenBuilds(t *testing.T) {
	doc := []byte(`{
		"type": "Mixer",
		"consumer_0": {"type": "SquareWave"},
		"consumer_1": {"type": "TriangleWave"}
	}`)
	ctx := newTestContext(&stubAssetLoader{})
	root, err := Load(doc, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root == nil {
		t.Fatal("expected a node")
	}
}

func TestSubtreeDetectsSelfCycle(t *testing.T) {
	assets := &stubAssetLoader{raw: map[string][]byte{
		"a.json": []byte(`{"type":"Subtree","file_path":"a.json"}`),
	}}
	ctx := newTestContext(assets)
	doc := []byte(`{"type":"Subtree","file_path":"a.json"}`)
	_, err := Load(doc, ctx)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
}

func TestSubtreeResolvesReferencedDocument(t *testing.T) {
	assets := &stubAssetLoader{raw: map[string][]byte{
		"osc.json": []byte(`{"type":"SquareWave"}`),
	}}
	ctx := newTestContext(assets)
	doc := []byte(`{"type":"Subtree","file_path":"osc.json"}`)
	root, err := Load(doc, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root == nil {
		t.Fatal("expected a node")
	}
}

func TestReservedNodeIDRejected(t *testing.T) {
	ctx := newTestContext(&stubAssetLoader{})
	doc := []byte(`{"type":"SquareWave","id":4294967297}`)
	_, err := Load(doc, ctx)
	if err == nil {
		t.Fatal("expected a reserved-id error")
	}
}
