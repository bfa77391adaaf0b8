package graph

import (
	"fmt"
	"sort"
)

// Build constructs a TaskGraph from plan nodes. References to ids not
// present among the nodes are ignored; callers that care about dangling
// references must check them before building. Build does not reject
// cycles — use DetectCycle or TopoSort.
func Build(nodes []Node) *TaskGraph {
	g := &TaskGraph{
		Nodes:  make(map[int]*Node),
		Adj:    make(map[int][]int),
		RevAdj: make(map[int][]int),
	}

	for i := range nodes {
		n := nodes[i]
		g.Nodes[n.ID] = &n
	}

	edgeSet := make(map[[2]int]bool)
	addEdge := func(from, to int) {
		key := [2]int{from, to}
		if edgeSet[key] {
			return
		}
		edgeSet[key] = true
		g.Adj[from] = append(g.Adj[from], to)
		g.RevAdj[to] = append(g.RevAdj[to], from)
	}

	for id, node := range g.Nodes {
		for _, dep := range node.DependsOn {
			if _, ok := g.Nodes[dep]; ok {
				addEdge(dep, id)
			}
		}
	}

	// Sort adjacency lists for deterministic ordering
	for k := range g.Adj {
		sort.Ints(g.Adj[k])
	}
	for k := range g.RevAdj {
		sort.Ints(g.RevAdj[k])
	}

	for id := range g.Nodes {
		if len(g.RevAdj[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Adj[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}
	sort.Ints(g.Roots)
	sort.Ints(g.Leaves)

	return g
}

// DetectCycle returns the cycle path if one exists, or nil if the graph is
// acyclic. Uses DFS with coloring: white (unvisited), gray (in progress),
// black (done).
func (g *TaskGraph) DetectCycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[int]int)
	parent := make(map[int]int)

	var dfs func(node int) []int
	dfs = func(node int) []int {
		color[node] = gray
		for _, next := range g.Adj[node] {
			if color[next] == gray {
				// Found a cycle — reconstruct it
				cycle := []int{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				// Reverse to get forward order
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	// Sort keys for deterministic detection
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// TopoSort returns the node ids in topological order using Kahn's
// algorithm. Fails if the graph has a cycle.
func (g *TaskGraph) TopoSort() ([]int, error) {
	inDegree := make(map[int]int)
	for id := range g.Nodes {
		inDegree[id] = len(g.RevAdj[id])
	}

	// Start with roots (in-degree 0), sorted for determinism
	var queue []int
	for id := range g.Nodes {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Ints(queue)

	var order []int
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []int
		for _, succ := range g.Adj[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				newReady = append(newReady, succ)
			}
		}
		sort.Ints(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != len(g.Nodes) {
		return nil, fmt.Errorf("topological sort failed: graph has a cycle (%d of %d tasks sorted)", len(order), len(g.Nodes))
	}

	return order, nil
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Nodes)
}
