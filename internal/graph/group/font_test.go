package group

import (
	"testing"

	"synthgraph/internal/graph"
	"synthgraph/internal/graph/generator"
)

func newTestSquare() graph.Node {
	return generator.NewSquare(nil, graph.Balance{Kind: graph.BalanceBoth}, 1.0, 0.5, graph.DefaultSampleRate)
}

func TestFontRoutesNoteToMatchingRangeOnly(t *testing.T) {
	low := newTestSquare()
	high := newTestSquare()
	f := NewFont(nil, []Range{
		{Notes: graph.NoteRange{Low: 0, High: 59}, Consumer: low},
		{Notes: graph.NoteRange{Low: 60, High: 127}, Consumer: high},
	})

	graph.Dispatch(f, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(64, 1.0)})

	buf := make([]float32, 8)
	f.FillBuffer(buf)
	if buf[0] == 0 {
		t.Fatalf("expected the matching high range to contribute sound")
	}

	silent := make([]float32, 8)
	low.FillBuffer(silent)
	for i, v := range silent {
		if v != 0 {
			t.Fatalf("expected low range to stay silent at %d, got %v", i, v)
		}
	}
}

func TestFontAlwaysConsumesEvents(t *testing.T) {
	f := NewFont(nil, []Range{{Notes: graph.NoteRange{Low: 0, High: 127}, Consumer: newTestSquare()}})
	consumed := f.TryConsumeEvent(&graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(64, 1.0)})
	if !consumed {
		t.Fatalf("Font must report every event as consumed")
	}
}

func TestFontRefusesDuplicateAndReplaceChildren(t *testing.T) {
	f := NewFont(nil, []Range{{Notes: graph.NoteRange{Low: 0, High: 127}, Consumer: newTestSquare()}})
	if _, err := f.Duplicate(); err == nil {
		t.Fatalf("expected Font.Duplicate to error")
	}
	if err := f.ReplaceChildren(nil); err == nil {
		t.Fatalf("expected Font.ReplaceChildren to error")
	}
}
