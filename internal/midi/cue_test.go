package midi

import (
	"testing"

	"synthgraph/internal/graph"
)

func TestParseCueLabelAnchor(t *testing.T) {
	cues := parseCueLabel("#12")
	if len(cues) != 1 || cues[0].Kind != graph.CueAnchor || cues[0].N != 12 {
		t.Fatalf("expected Anchor(12), got %+v", cues)
	}
}

func TestParseCueLabelSeek(t *testing.T) {
	cues := parseCueLabel(">7")
	if len(cues) != 1 || cues[0].Kind != graph.CueSeek || cues[0].N != 7 {
		t.Fatalf("expected Seek(7), got %+v", cues)
	}
}

func TestParseCueLabelIdealSeekPoint(t *testing.T) {
	cues := parseCueLabel("?")
	if len(cues) != 1 || cues[0].Kind != graph.CueIdealSeekPoint {
		t.Fatalf("expected IdealSeekPoint, got %+v", cues)
	}
}

func TestParseCueLabelMultipleCuesShareOneLabel(t *testing.T) {
	cues := parseCueLabel("#1?")
	if len(cues) != 2 {
		t.Fatalf("expected two cues from one label, got %+v", cues)
	}
	if cues[0].Kind != graph.CueAnchor || cues[0].N != 1 {
		t.Fatalf("expected first cue Anchor(1), got %+v", cues[0])
	}
	if cues[1].Kind != graph.CueIdealSeekPoint {
		t.Fatalf("expected second cue IdealSeekPoint, got %+v", cues[1])
	}
}

func TestParseCueLabelAbortsOnUnrecognizedCharacter(t *testing.T) {
	cues := parseCueLabel("#1!>2")
	if len(cues) != 1 {
		t.Fatalf("expected parsing to stop at the unrecognized '!', got %+v", cues)
	}
}

func TestParseCueLabelAnchorWithoutDigitsIsDropped(t *testing.T) {
	cues := parseCueLabel("#")
	if len(cues) != 0 {
		t.Fatalf("expected no cues for a bare '#', got %+v", cues)
	}
}
