package group

import "synthgraph/internal/graph"

type voice struct {
	currentNote uint8
	hasNote     bool
	source      graph.Node
}

// Polyphony holds a fixed pool of duplicated voices and assigns each
// NoteOn to the first idle voice, dropping the note entirely if every
// voice is already in use — this node never steals a voice. Grounded on
// original_source/src/node/group/polyphony.rs.
type Polyphony struct {
	nodeID uint64
	voices []voice
}

// NewPolyphony duplicates consumer maxVoices-1 times to build a pool of
// maxVoices independent voices (consumer itself becomes the last one).
func NewPolyphony(nodeID *uint64, maxVoices int, consumer graph.Node) (*Polyphony, error) {
	if maxVoices < 1 {
		return nil, graph.UserErrorf("cannot form Polyphony with %d voices", maxVoices)
	}
	voices := make([]voice, maxVoices)
	for i := 0; i < maxVoices-1; i++ {
		dup, err := consumer.Duplicate()
		if err != nil {
			return nil, err
		}
		voices[i] = voice{source: dup}
	}
	voices[maxVoices-1] = voice{source: consumer}
	return &Polyphony{
		nodeID: resolveID(nodeID),
		voices: voices,
	}, nil
}

func (p *Polyphony) ID() uint64      { return p.nodeID }
func (p *Polyphony) SetID(id uint64) { p.nodeID = id }

func (p *Polyphony) Duplicate() (graph.Node, error) {
	voices := make([]voice, len(p.voices))
	for i, v := range p.voices {
		dup, err := v.source.Duplicate()
		if err != nil {
			return nil, err
		}
		voices[i] = voice{source: dup}
	}
	return &Polyphony{nodeID: p.nodeID, voices: voices}, nil
}

func (p *Polyphony) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventNoteOn:
		for i := range p.voices {
			if !p.voices[i].hasNote {
				p.voices[i].currentNote = msg.Data.Note
				p.voices[i].hasNote = true
				graph.Dispatch(p.voices[i].source, msg)
				break
			}
		}
		return true
	case graph.EventNoteOff:
		for i := range p.voices {
			if p.voices[i].hasNote && p.voices[i].currentNote == msg.Data.Note {
				graph.Dispatch(p.voices[i].source, msg)
				p.voices[i].hasNote = false
				break
			}
		}
		return true
	}
	return false
}

func (p *Polyphony) Propagate(msg *graph.Message) {
	for i := range p.voices {
		graph.Dispatch(p.voices[i].source, msg)
	}
}

func (p *Polyphony) FillBuffer(buffer []float32) {
	for i := range p.voices {
		p.voices[i].source.FillBuffer(buffer)
	}
}

func (p *Polyphony) ReplaceChildren(children []graph.Node) error {
	if len(children) != 1 {
		return graph.UserErrorf("Polyphony requires exactly one child, which will be duplicated as needed")
	}
	voices := make([]voice, len(p.voices))
	for i := range voices {
		dup, err := children[0].Duplicate()
		if err != nil {
			return err
		}
		voices[i] = voice{source: dup}
	}
	p.voices = voices
	return nil
}
