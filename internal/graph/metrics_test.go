package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

func TestComputeMetrics_DegreesAndIsolated(t *testing.T) {
	nodes := []types.Node{
		{ID: 0, Type: types.NodeSourceJS},
		{ID: 1, Type: types.NodeSourceJS},
		{ID: 2, Type: types.NodeSourceJS}, // isolated
	}
	edges := []types.Edge{{From: 0, To: 1}}

	m := computeMetrics(nodes, edges, nil)

	require.Equal(t, 3, m.TotalNodes)
	require.Equal(t, 1, m.TotalEdges)
	require.Equal(t, 1, m.IsolatedNodes)
	require.Equal(t, 1, m.MaxOutDegree.Value)
	require.Equal(t, []int{0}, m.MaxOutDegree.Nodes)
	require.Equal(t, 1, m.MaxInDegree.Value)
	require.Equal(t, []int{1}, m.MaxInDegree.Nodes)
}

func TestComputeMetrics_ArgmaxTiesKeepAllNodes(t *testing.T) {
	nodes := []types.Node{
		{ID: 0, Type: types.NodeSourceJS},
		{ID: 1, Type: types.NodeSourceJS},
		{ID: 2, Type: types.NodeSourceJS},
	}
	edges := []types.Edge{{From: 0, To: 2}, {From: 1, To: 2}}

	m := computeMetrics(nodes, edges, nil)
	require.Equal(t, 2, m.MaxInDegree.Value)
	require.Equal(t, []int{2}, m.MaxInDegree.Nodes)
	require.Equal(t, 1, m.MaxOutDegree.Value)
	require.ElementsMatch(t, []int{0, 1}, m.MaxOutDegree.Nodes)
}

func TestComputeMetrics_NodesByTypeHistogram(t *testing.T) {
	nodes := []types.Node{
		{ID: 0, Type: types.NodeSourceJS},
		{ID: 1, Type: types.NodeSourcePython},
		{ID: 2, Type: types.NodeExternal},
	}
	m := computeMetrics(nodes, nil, nil)
	require.Equal(t, 1, m.NodesByType[types.NodeSourceJS])
	require.Equal(t, 1, m.NodesByType[types.NodeSourcePython])
	require.Equal(t, 1, m.NodesByType[types.NodeExternal])
}

func TestComputeMetrics_EmptyGraph(t *testing.T) {
	m := computeMetrics(nil, nil, nil)
	require.Equal(t, 0, m.TotalNodes)
	require.Equal(t, float64(0), m.AverageInDegree)
	require.Equal(t, float64(0), m.AverageOutDegree)
}
