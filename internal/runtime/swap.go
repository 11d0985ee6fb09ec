package runtime

import (
	"sync/atomic"

	"synthgraph/internal/graph"
)

// SwappableRoot is a lock-free, atomically-exchanged pointer to the
// currently active graph root, mirroring
// original_source/src/mix/swap.rs's SwappableConsumer (an
// Arc<AtomicPtr<Box<dyn Node>>> with manual drop/raw-pointer juggling).
// Go's generic atomic.Pointer gives the same acquire/release exchange
// semantics (spec.md §4.7 "atomically swappable pointer... for
// lock-free program change from any thread") without unsafe code or a
// manual Drop impl; the garbage collector retires the previous root
// once nothing references it.
type SwappableRoot struct {
	ptr atomic.Pointer[graph.Node]
}

// Load returns the current root, or nil if none has been published.
func (s *SwappableRoot) Load() graph.Node {
	p := s.ptr.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Swap atomically publishes root as current, returning the previous
// one (nil if this is the first publish).
func (s *SwappableRoot) Swap(root graph.Node) graph.Node {
	old := s.ptr.Swap(&root)
	if old == nil {
		return nil
	}
	return *old
}
