package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

func nodeSet(ids ...int) []types.Node {
	nodes := make([]types.Node, len(ids))
	for i, id := range ids {
		nodes[i] = types.Node{ID: id}
	}
	return nodes
}

func TestDetectCycles_NoCycle(t *testing.T) {
	nodes := nodeSet(0, 1, 2)
	edges := []types.Edge{{From: 0, To: 1}, {From: 1, To: 2}}
	cycles := detectCycles(nodes, edges)
	require.Empty(t, cycles)
}

func TestDetectCycles_SimpleTwoNodeCycle(t *testing.T) {
	nodes := nodeSet(0, 1)
	edges := []types.Edge{{From: 0, To: 1}, {From: 1, To: 0}}
	cycles := detectCycles(nodes, edges)
	require.Len(t, cycles, 1)
	require.Equal(t, cycles[0][0], cycles[0][len(cycles[0])-1])
}

func TestDetectCycles_DeduplicatesAcrossEntryPoints(t *testing.T) {
	// Two separate components could reach the same cycle (1->2->3->1)
	// from different unvisited starting nodes; it must be recorded once.
	nodes := nodeSet(0, 1, 2, 3)
	edges := []types.Edge{
		{From: 0, To: 1},
		{From: 1, To: 2},
		{From: 2, To: 3},
		{From: 3, To: 1},
	}
	cycles := detectCycles(nodes, edges)
	require.Len(t, cycles, 1)
}

func TestDetectCycles_SelfLoopNotCounted(t *testing.T) {
	// A cycle must have >= 2 distinct ids (§3's invariant); a
	// self-referencing edge alone has only one and must not be recorded.
	nodes := nodeSet(0)
	edges := []types.Edge{{From: 0, To: 0}}
	cycles := detectCycles(nodes, edges)
	require.Empty(t, cycles)
}

func TestCanonicalRotation_InvariantUnderRotation(t *testing.T) {
	a := canonicalRotation([]int{1, 2, 3, 1})
	b := canonicalRotation([]int{2, 3, 1, 2})
	c := canonicalRotation([]int{3, 1, 2, 3})
	require.Equal(t, a, b)
	require.Equal(t, a, c)
}

func TestCanonicalCycle_RotatesToSmallestFirst(t *testing.T) {
	got := canonicalCycle([]int{3, 1, 2, 3})
	require.Equal(t, []int{1, 2, 3, 1}, got)
}
