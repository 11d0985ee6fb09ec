package midi

import (
	"strconv"

	"synthgraph/internal/graph"
)

// parseCueLabel scans a MIDI CuePoint label into zero or more cues per
// the grammar in spec.md §6: "#<digits>" -> Anchor(n), "><digits>" ->
// Seek(n), "?" -> IdealSeekPoint. An unrecognized character aborts
// parsing of the remainder of the label. Grounded on
// original_source/src/node/midi/cue.rs's character scan, adapted from
// its index-by-rune-position style to a plain rune slice.
func parseCueLabel(label string) []graph.Cue {
	runes := []rune(label)
	var cues []graph.Cue
	i := 0
	for i < len(runes) {
		switch runes[i] {
		case '#':
			n, next, ok := scanDigits(runes, i+1)
			if !ok {
				return cues
			}
			cues = append(cues, graph.Cue{Kind: graph.CueAnchor, N: n})
			i = next
		case '>':
			n, next, ok := scanDigits(runes, i+1)
			if !ok {
				return cues
			}
			cues = append(cues, graph.Cue{Kind: graph.CueSeek, N: n})
			i = next
		case '?':
			cues = append(cues, graph.Cue{Kind: graph.CueIdealSeekPoint})
			i++
		default:
			return cues
		}
	}
	return cues
}

func scanDigits(runes []rune, start int) (uint32, int, bool) {
	end := start
	for end < len(runes) && runes[end] >= '0' && runes[end] <= '9' {
		end++
	}
	if end == start {
		return 0, start, false
	}
	n, err := strconv.ParseUint(string(runes[start:end]), 10, 32)
	if err != nil {
		return 0, start, false
	}
	return uint32(n), end, true
}
