package generator

import "synthgraph/internal/graph"

// Null is a no-op generator: permanent silence that consumes every
// event it receives, so a Null leaf can stand in for an unused voice
// slot without leaking events past it. Grounded on
// original_source/src/node/generator/null.rs.
type Null struct {
	nodeID uint64
}

func NewNull(nodeID *uint64) *Null {
	return &Null{nodeID: resolveID(nodeID)}
}

func (n *Null) ID() uint64      { return n.nodeID }
func (n *Null) SetID(id uint64) { n.nodeID = id }

func (n *Null) Duplicate() (graph.Node, error) {
	id := n.nodeID
	return NewNull(&id), nil
}

func (n *Null) TryConsumeEvent(*graph.Message) bool { return true }
func (n *Null) Propagate(*graph.Message)            {}
func (n *Null) FillBuffer([]float32)                {}

func (n *Null) ReplaceChildren(children []graph.Node) error {
	if len(children) != 0 {
		return graph.UserErrorf("Null cannot have children")
	}
	return nil
}
