package plan

import (
	"time"

	"github.com/mintu3770/task-planner/internal/graph"
)

// Task is one step of a generated plan.
type Task struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	DurationDays float64 `json:"duration_days"`
	DependsOn    []int   `json:"depends_on"`
}

// Plan is an ordered sequence of tasks produced from one goal. It is
// immutable once built; the parser is the only producer.
type Plan struct {
	ID        string    `json:"id"`
	Goal      string    `json:"goal"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Tasks     []Task    `json:"tasks"`
}

// Graph builds the dependency graph over the plan's tasks.
func (p *Plan) Graph() *graph.TaskGraph {
	nodes := make([]graph.Node, len(p.Tasks))
	for i, t := range p.Tasks {
		nodes[i] = graph.Node{
			ID:           t.ID,
			Title:        t.Title,
			DurationDays: t.DurationDays,
			DependsOn:    t.DependsOn,
		}
	}
	return graph.Build(nodes)
}

// Topological returns the tasks in dependency order. It is derived on
// demand; the plan itself keeps the model's original ordering. The parser
// guarantees acyclicity, so a validated plan cannot fail here.
func (p *Plan) Topological() ([]Task, error) {
	order, err := p.Graph().TopoSort()
	if err != nil {
		return nil, err
	}
	byID := make(map[int]Task, len(p.Tasks))
	for _, t := range p.Tasks {
		byID[t.ID] = t
	}
	out := make([]Task, len(order))
	for i, id := range order {
		out[i] = byID[id]
	}
	return out, nil
}

// Task returns the task with the given id, or nil.
func (p *Plan) Task(id int) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// TotalDays sums the estimated durations of all tasks.
func (p *Plan) TotalDays() float64 {
	var total float64
	for _, t := range p.Tasks {
		total += t.DurationDays
	}
	return total
}
