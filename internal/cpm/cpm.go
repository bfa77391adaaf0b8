package cpm

import (
	"math"
	"sort"

	"github.com/mintu3770/task-planner/internal/graph"
)

// slackEpsilon guards float comparison when deciding criticality.
const slackEpsilon = 1e-9

// Analyze performs critical path method analysis on a task graph. A task's
// DurationDays is used as its duration when positive; tasks with no
// estimate count as one day so that dependency depth still shows up in the
// schedule.
func Analyze(g *graph.TaskGraph) (*Result, error) {
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}

	durations := make(map[int]float64)
	for id, n := range g.Nodes {
		if n.DurationDays > 0 {
			durations[id] = n.DurationDays
		} else {
			durations[id] = 1
		}
	}

	result := &Result{
		Tasks:     make(map[int]*TaskSchedule),
		TopoOrder: order,
	}

	// Initialize schedules
	for _, id := range order {
		result.Tasks[id] = &TaskSchedule{TaskID: id}
	}

	// Forward pass: compute ES and EF
	for _, id := range order {
		ts := result.Tasks[id]
		// ES = max(EF of all predecessors)
		es := 0.0
		for _, pred := range g.RevAdj[id] {
			predTS := result.Tasks[pred]
			if predTS.EF > es {
				es = predTS.EF
			}
		}
		ts.ES = es
		ts.EF = es + durations[id]
	}

	// Total project duration
	totalDuration := 0.0
	for _, ts := range result.Tasks {
		if ts.EF > totalDuration {
			totalDuration = ts.EF
		}
	}
	result.TotalDuration = totalDuration

	// Backward pass: compute LS and LF
	// Initialize leaves with LF = totalDuration
	for _, id := range g.Leaves {
		if ts, ok := result.Tasks[id]; ok {
			ts.LF = totalDuration
			ts.LS = totalDuration - durations[id]
		}
	}

	// Process in reverse topological order
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		ts := result.Tasks[id]

		// If LF not set yet (non-leaf), compute from successors
		if ts.LF == 0 && len(g.Adj[id]) > 0 {
			minLS := totalDuration
			for _, succ := range g.Adj[id] {
				succTS := result.Tasks[succ]
				if succTS.LS < minLS {
					minLS = succTS.LS
				}
			}
			ts.LF = minLS
			ts.LS = minLS - durations[id]
		} else if ts.LF == 0 {
			// Leaf that wasn't in g.Leaves (shouldn't happen)
			ts.LF = totalDuration
			ts.LS = totalDuration - durations[id]
		}

		ts.Slack = ts.LS - ts.ES
		ts.IsCritical = math.Abs(ts.Slack) < slackEpsilon
	}

	// Build critical path (critical tasks in topological order)
	for _, id := range order {
		if result.Tasks[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	// Compute waves: group tasks by earliest start time
	result.Waves = computeWaves(result)

	return result, nil
}

// computeWaves groups tasks by their earliest start time.
func computeWaves(result *Result) []Wave {
	// Group tasks by ES
	esGroups := make(map[float64][]int)
	for _, id := range result.TopoOrder {
		es := result.Tasks[id].ES
		esGroups[es] = append(esGroups[es], id)
	}

	// Sort ES values
	esValues := make([]float64, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	sort.Float64s(esValues)

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		taskIDs := esGroups[es]
		sort.Ints(taskIDs)

		hasCritical := false
		for _, id := range taskIDs {
			result.Tasks[id].Wave = i
			if result.Tasks[id].IsCritical {
				hasCritical = true
			}
		}

		// Sort critical tasks first within wave
		sort.SliceStable(taskIDs, func(a, b int) bool {
			aCrit := result.Tasks[taskIDs[a]].IsCritical
			bCrit := result.Tasks[taskIDs[b]].IsCritical
			if aCrit != bCrit {
				return aCrit
			}
			return false
		})

		waves[i] = Wave{
			Index:      i,
			TaskIDs:    taskIDs,
			IsCritical: hasCritical,
		}
	}

	return waves
}
