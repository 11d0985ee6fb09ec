package group

import "synthgraph/internal/graph"

func resolveID(nodeID *uint64) uint64 {
	if nodeID != nil {
		return *nodeID
	}
	return graph.NewNodeID()
}
