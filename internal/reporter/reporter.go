// Package reporter renders a generated plan for the terminal and for
// machine consumers. It only reads Plan values; construction belongs to
// the parser.
package reporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mintu3770/task-planner/internal/cpm"
	"github.com/mintu3770/task-planner/internal/plan"
	"github.com/mintu3770/task-planner/internal/ui"
)

// Reporter provides plan display.
type Reporter struct {
	Plan     *plan.Plan
	Schedule *cpm.Result
}

// New creates a Reporter, running schedule analysis over the plan's
// dependency graph. The parser guarantees acyclicity, so analysis cannot
// fail on a validated plan.
func New(p *plan.Plan) (*Reporter, error) {
	schedule, err := cpm.Analyze(p.Graph())
	if err != nil {
		return nil, err
	}
	return &Reporter{Plan: p, Schedule: schedule}, nil
}

// PrintPlan writes a terminal-friendly breakdown of the plan: tasks
// grouped into parallel waves, with duration, dependency labels, and
// critical path markers.
func (r *Reporter) PrintPlan(w io.Writer) {
	p := r.Plan

	fmt.Fprintf(w, "%s %s\n", ui.BoldCyan("🎯 Plan:"), ui.Bold(p.Goal))
	if p.Model != "" {
		fmt.Fprintf(w, "%s\n", ui.Dim(fmt.Sprintf("model %s — plan %s", p.Model, p.ID)))
	}

	if len(p.Tasks) == 0 {
		fmt.Fprintf(w, "\n%s\n", ui.Yellow("The model returned an empty plan. Try a more specific goal."))
		return
	}

	fmt.Fprintf(w, "%d tasks — %s estimated — critical path %s\n\n",
		len(p.Tasks),
		ui.Bold(formatDays(p.TotalDays())),
		ui.BoldYellow(formatDays(r.Schedule.TotalDuration)))

	for _, wave := range r.Schedule.Waves {
		marker := ""
		if wave.IsCritical {
			marker = " " + ui.BoldYellow("⚡")
		}
		fmt.Fprintf(w, "  🌊 %s %d%s\n", ui.BoldWhite("WAVE"), wave.Index+1, marker)

		for _, id := range wave.TaskIDs {
			r.printTask(w, *p.Task(id))
		}
		fmt.Fprintln(w)
	}
}

func (r *Reporter) printTask(w io.Writer, t plan.Task) {
	critical := " "
	if ts, ok := r.Schedule.Tasks[t.ID]; ok && ts.IsCritical {
		critical = ui.BoldYellow("⚡")
	}

	title := t.Title
	if len(title) > 44 {
		title = title[:41] + "..."
	}

	fmt.Fprintf(w, "    %s %-44s %8s %s %s\n",
		ui.TaskLabel(t.ID), title, formatDays(t.DurationDays), critical, depsLabel(t.DependsOn))

	if t.Description != "" {
		fmt.Fprintf(w, "       %s\n", ui.Dim(t.Description))
	}
}

// PrintTopo writes the tasks in dependency order, one per line.
func (r *Reporter) PrintTopo(w io.Writer) error {
	ordered, err := r.Plan.Topological()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", ui.BoldCyan("Dependency order:"))
	for i, t := range ordered {
		fmt.Fprintf(w, "  %2d. %s %s %s\n", i+1, ui.TaskLabel(t.ID), t.Title, ui.Dim(depsLabel(t.DependsOn)))
	}
	return nil
}

// JSON returns machine-readable plan output with the schedule summary.
func (r *Reporter) JSON() ([]byte, error) {
	type scheduleOut struct {
		TotalDurationDays float64 `json:"total_duration_days"`
		CriticalPath      []int   `json:"critical_path"`
		TopoOrder         []int   `json:"topo_order"`
		Waves             [][]int `json:"waves"`
	}
	type output struct {
		Plan     *plan.Plan  `json:"plan"`
		Schedule scheduleOut `json:"schedule"`
	}

	o := output{
		Plan: r.Plan,
		Schedule: scheduleOut{
			TotalDurationDays: r.Schedule.TotalDuration,
			CriticalPath:      r.Schedule.CriticalPath,
			TopoOrder:         r.Schedule.TopoOrder,
		},
	}
	for _, wave := range r.Schedule.Waves {
		o.Schedule.Waves = append(o.Schedule.Waves, wave.TaskIDs)
	}

	return json.MarshalIndent(o, "", "  ")
}

// PrintError writes a one-line user-facing message for a pipeline error,
// with the raw model output below it when one was captured.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", ui.BoldRed("Error:"), err)

	var pe *plan.Error
	if errors.As(err, &pe) && pe.Raw != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", ui.Dim("Raw model output:"), strings.TrimSpace(pe.Raw))
	}
}

func depsLabel(deps []int) string {
	if len(deps) == 0 {
		return ui.Dim("no deps")
	}
	labels := make([]string, len(deps))
	for i, d := range deps {
		labels[i] = ui.TaskLabel(d)
	}
	return ui.Dim("after ") + strings.Join(labels, ", ")
}

func formatDays(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64) + "d"
}
