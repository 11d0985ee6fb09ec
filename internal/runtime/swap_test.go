package runtime

import (
	"testing"

	"synthgraph/internal/graph"
	"synthgraph/internal/graph/generator"
)

func TestSwappableRootLoadNilBeforeAnyPublish(t *testing.T) {
	var s SwappableRoot
	if got := s.Load(); got != nil {
		t.Fatalf("expected nil before first Swap, got %v", got)
	}
}

func TestSwappableRootSwapReturnsPrevious(t *testing.T) {
	var s SwappableRoot
	a := generator.NewNull(nil)
	b := generator.NewNull(nil)

	if prev := s.Swap(a); prev != nil {
		t.Fatalf("expected nil previous on first swap, got %v", prev)
	}
	if got := s.Load(); got != graph.Node(a) {
		t.Fatal("expected Load to return the just-published root")
	}
	if prev := s.Swap(b); prev != graph.Node(a) {
		t.Fatal("expected Swap to return the prior root")
	}
	if got := s.Load(); got != graph.Node(b) {
		t.Fatal("expected Load to return the newly published root")
	}
}
