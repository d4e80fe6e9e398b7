package graph

import (
	"sort"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

// computeMetrics derives the per-type node histogram, in/out-degree
// extrema, averages, and isolated-node counts from the finished node
// and edge sets (§4.F).
func computeMetrics(nodes []types.Node, edges []types.Edge, cycles []types.Cycle) types.Metrics {
	inDegree := make(map[int]int, len(nodes))
	outDegree := make(map[int]int, len(nodes))
	for _, n := range nodes {
		inDegree[n.ID] = 0
		outDegree[n.ID] = 0
	}
	for _, e := range edges {
		outDegree[e.From]++
		inDegree[e.To]++
	}

	byType := make(map[types.NodeType]int)
	isolated := 0
	var totalIn, totalOut int
	maxIn := types.DegreeExtremum{}
	maxOut := types.DegreeExtremum{}

	ids := make([]int, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
		byType[n.Type]++
		in, out := inDegree[n.ID], outDegree[n.ID]
		totalIn += in
		totalOut += out
		if in == 0 && out == 0 {
			isolated++
		}
	}
	sort.Ints(ids)

	for _, id := range ids {
		in := inDegree[id]
		switch {
		case in > maxIn.Value:
			maxIn = types.DegreeExtremum{Value: in, Nodes: []int{id}}
		case in == maxIn.Value && in > 0:
			maxIn.Nodes = append(maxIn.Nodes, id)
		}
		out := outDegree[id]
		switch {
		case out > maxOut.Value:
			maxOut = types.DegreeExtremum{Value: out, Nodes: []int{id}}
		case out == maxOut.Value && out > 0:
			maxOut.Nodes = append(maxOut.Nodes, id)
		}
	}

	var avgIn, avgOut float64
	if len(nodes) > 0 {
		avgIn = float64(totalIn) / float64(len(nodes))
		avgOut = float64(totalOut) / float64(len(nodes))
	}

	return types.Metrics{
		TotalNodes:       len(nodes),
		TotalEdges:       len(edges),
		NodesByType:      byType,
		MaxInDegree:      maxIn,
		MaxOutDegree:     maxOut,
		IsolatedNodes:    isolated,
		AverageInDegree:  avgIn,
		AverageOutDegree: avgOut,
		CycleCount:       len(cycles),
	}
}
