package graph

import (
	"sort"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

// detectCycles runs DFS from every unvisited node, recording a cycle
// whenever an edge reaches a node currently on the recursion stack.
// The same cycle reached from different entry points is recorded once,
// compared by canonical rotation of its id tuple (§4.F, resolving the
// Open Question in favor of rotation-canonical dedup).
func detectCycles(nodes []types.Node, edges []types.Edge) []types.Cycle {
	adjacency := make(map[int][]int, len(nodes))
	for _, e := range edges {
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}
	for from := range adjacency {
		sort.Ints(adjacency[from])
	}

	visited := make(map[int]bool, len(nodes))
	onStack := make(map[int]bool, len(nodes))
	stackIndex := make(map[int]int, len(nodes))
	var path []int
	seenCycles := make(map[string]bool)
	var cycles []types.Cycle

	var dfs func(node int)
	dfs = func(node int) {
		visited[node] = true
		onStack[node] = true
		stackIndex[node] = len(path)
		path = append(path, node)

		for _, next := range adjacency[node] {
			if onStack[next] {
				cyclePath := append(append([]int{}, path[stackIndex[next]:]...), next)
				// A cycle needs >= 2 distinct ids (§3's invariant); a
				// self-loop (A -> A) closes on itself but has only one,
				// so it is not recorded as a cycle.
				if len(cyclePath)-1 < 2 {
					continue
				}
				canon := canonicalCycle(cyclePath)
				key := canonicalRotation(cyclePath)
				if !seenCycles[key] {
					seenCycles[key] = true
					cycles = append(cycles, types.Cycle(canon))
				}
				continue
			}
			if !visited[next] {
				dfs(next)
			}
		}

		path = path[:len(path)-1]
		onStack[node] = false
	}

	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	sort.Ints(ids)

	for _, id := range ids {
		if !visited[id] {
			dfs(id)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return canonicalRotation(cycles[i]) < canonicalRotation(cycles[j])
	})
	return cycles
}

// canonicalCycle rotates a cycle (closing repeat included) so its
// smallest id comes first, for deterministic output across runs and
// across discovery order.
func canonicalCycle(cycle []int) []int {
	distinct := cycle[:len(cycle)-1]
	n := len(distinct)
	minIdx := 0
	for i := 1; i < n; i++ {
		if distinct[i] < distinct[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]int, 0, n+1)
	for i := 0; i < n; i++ {
		rotated = append(rotated, distinct[(minIdx+i)%n])
	}
	rotated = append(rotated, rotated[0])
	return rotated
}

// canonicalRotation returns a deterministic string key for a cycle that
// is identical regardless of which element the DFS happened to start
// from: the distinct ids (excluding the closing repeat) are rotated so
// the smallest id comes first, then stringified.
func canonicalRotation(cycle []int) string {
	if len(cycle) < 2 {
		return ""
	}
	distinct := cycle[:len(cycle)-1] // drop the closing repeat of cycle[0]
	n := len(distinct)
	minIdx := 0
	for i := 1; i < n; i++ {
		if distinct[i] < distinct[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]int, n)
	for i := 0; i < n; i++ {
		rotated[i] = distinct[(minIdx+i)%n]
	}

	key := make([]byte, 0, n*8)
	for _, id := range rotated {
		key = append(key, byte(id>>24), byte(id>>16), byte(id>>8), byte(id), ',')
	}
	return string(key)
}
