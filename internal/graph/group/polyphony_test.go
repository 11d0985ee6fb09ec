package group

import (
	"testing"

	"synthgraph/internal/graph"
)

func TestPolyphonyAssignsDistinctVoicesToConcurrentNotes(t *testing.T) {
	p, err := NewPolyphony(nil, 2, newTestSquare())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	graph.Dispatch(p, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(60, 1.0)})
	graph.Dispatch(p, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(64, 1.0)})

	if !p.voices[0].hasNote || !p.voices[1].hasNote {
		t.Fatalf("expected both voices to be occupied")
	}
	if p.voices[0].currentNote == p.voices[1].currentNote {
		t.Fatalf("expected distinct notes per voice")
	}
}

func TestPolyphonyDropsNoteOnWhenAllVoicesBusy(t *testing.T) {
	p, err := NewPolyphony(nil, 1, newTestSquare())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	graph.Dispatch(p, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(60, 1.0)})
	graph.Dispatch(p, &graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(64, 1.0)})

	if p.voices[0].currentNote != 60 {
		t.Fatalf("expected the first note to hold the only voice, got %v", p.voices[0].currentNote)
	}
}

func TestPolyphonyRejectsZeroVoices(t *testing.T) {
	if _, err := NewPolyphony(nil, 0, newTestSquare()); err == nil {
		t.Fatalf("expected error constructing Polyphony with zero voices")
	}
}
