package cpm

// Result holds the complete critical path analysis for a plan.
type Result struct {
	Tasks         map[int]*TaskSchedule
	CriticalPath  []int // ordered task ids on critical path
	TotalDuration float64
	Waves         []Wave // parallelizable groups
	TopoOrder     []int
}

// TaskSchedule holds the scheduling info for a single task. All times are
// in days from project start.
type TaskSchedule struct {
	TaskID     int
	ES, EF     float64 // earliest start/finish
	LS, LF     float64 // latest start/finish
	Slack      float64
	IsCritical bool
	Wave       int // which parallel wave this belongs to
}

// Wave represents a group of tasks that can start at the same time.
type Wave struct {
	Index      int
	TaskIDs    []int
	IsCritical bool // true if wave contains critical path tasks
}
