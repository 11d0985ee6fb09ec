// Package graph defines the node-graph abstraction at the core of the
// synthesizer: a uniform pull-based sample interface, an event-routing
// rule, and the node identity allocator. Concrete generators, effects,
// and group nodes live in the generator, effect, and group subpackages;
// this package only holds the shared contract they all satisfy.
package graph

import "sync/atomic"

// StartGeneratedNodeIDs is the reserved threshold below which ids may be
// chosen by the user at construction time; at or above it, ids are
// atomically auto-assigned by NewNodeID.
const StartGeneratedNodeIDs uint64 = 0x10000

var nodeIDCounter uint64 = StartGeneratedNodeIDs

// NewNodeID atomically allocates the next auto-generated node id.
func NewNodeID() uint64 {
	return atomic.AddUint64(&nodeIDCounter, 1) - 1
}

// Node is the capability set every vertex in the audio graph satisfies
// (spec.md §3, §4.1). Buffers passed to FillBuffer are always additive:
// implementations must add into out, never overwrite it.
type Node interface {
	ID() uint64
	SetID(id uint64)

	// Duplicate produces an independent instance with equivalent
	// construction-time state. Transient runtime state (envelope phase,
	// playback position) is not preserved. Some nodes (MIDI, Font) refuse
	// duplication and return an error.
	Duplicate() (Node, error)

	// TryConsumeEvent applies msg locally if relevant, returning whether
	// it was consumed. Consuming an event does not by itself stop
	// propagation; see Target.PropagatesFrom.
	TryConsumeEvent(msg *Message) bool

	// Propagate forwards msg to children, in whatever fan-out shape is
	// appropriate for this node (single child, selective multi-child, all
	// children, or none for leaves).
	Propagate(msg *Message)

	// FillBuffer additively writes this node's contribution into out.
	// len(out) is always even (interleaved stereo frames).
	FillBuffer(out []float32)

	// ReplaceChildren performs a structural mutation. Nodes with a fixed
	// arity (leaves: zero children; most effects: exactly one) return a
	// user error if given the wrong number of children.
	ReplaceChildren(children []Node) error
}

// Dispatch implements the single event-routing skeleton described in
// spec.md §4.1; parents and the runtime call it directly for each node:
//
//	consumed = if target.Influences(id): node.TryConsumeEvent(msg) else false
//	if target.PropagatesFrom(id, consumed): node.Propagate(msg)
func Dispatch(n Node, msg *Message) {
	id := n.ID()
	consumed := false
	if msg.Target.Influences(id) {
		consumed = n.TryConsumeEvent(msg)
	}
	if msg.Target.PropagatesFrom(id, consumed) {
		n.Propagate(msg)
	}
}
