package graph

// Node is a single plan task as seen by the dependency graph.
type Node struct {
	ID           int
	Title        string
	DurationDays float64
	DependsOn    []int
}

// TaskGraph is a directed acyclic graph of plan tasks. Edges point from a
// task to the tasks that depend on it.
type TaskGraph struct {
	Nodes  map[int]*Node
	Adj    map[int][]int // task -> tasks that depend on it
	RevAdj map[int][]int // task -> tasks it depends on
	Roots  []int         // tasks with no dependencies
	Leaves []int         // tasks nothing depends on
}
