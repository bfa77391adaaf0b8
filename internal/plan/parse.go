package plan

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse turns raw model output into a validated Plan. It is a pure
// function of its input: extraction, structural parsing, schema checks, id
// assignment, and graph validation, in that order. A validation failure
// discards the whole parse — a Plan is never partially built.
//
// Both response shapes the model may emit are accepted: a bare task array,
// or a {"plan": [...]} envelope. An empty array is a valid zero-task plan.
func Parse(raw string) (*Plan, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	root := gjson.Parse(payload)
	arr := root
	if root.IsObject() {
		arr = root.Get("plan")
		if !arr.Exists() || !arr.IsArray() {
			return nil, schemaErr(raw, "plan", -1, "object response must carry a \"plan\" array")
		}
	}
	if !arr.IsArray() {
		return nil, schemaErr(raw, "", -1, "top-level JSON value must be a task array")
	}

	elems := arr.Array()
	tasks := make([]Task, 0, len(elems))

	// First pass: field validation and explicit id collection.
	explicit := 0
	for i, el := range elems {
		if !el.IsObject() {
			return nil, schemaErr(raw, "", i, "task element must be a JSON object")
		}

		t := Task{DependsOn: []int{}}

		title := firstField(el, "title", "task_name")
		if !title.Exists() {
			return nil, schemaErr(raw, "title", i, "missing")
		}
		if title.Type != gjson.String || strings.TrimSpace(title.String()) == "" {
			return nil, schemaErr(raw, "title", i, "must be a non-empty string")
		}
		t.Title = title.String()
		t.Description = el.Get("description").String()

		dur := el.Get("duration_days")
		if dur.Exists() {
			f, ok := numberValue(dur)
			if !ok {
				return nil, schemaErr(raw, "duration_days", i, "must be a number")
			}
			if f < 0 || math.IsNaN(f) {
				return nil, schemaErr(raw, "duration_days", i, "must be non-negative")
			}
			t.DurationDays = f
		}

		if id := firstField(el, "id", "task_id"); id.Exists() {
			n, ok := intValue(id)
			if !ok {
				return nil, schemaErr(raw, "id", i, "must be an integer")
			}
			t.ID = n
			explicit++
		}

		tasks = append(tasks, t)
	}

	// Id assignment: either the model supplied an id for every task, or the
	// parser assigns sequential ids in array order and depends_on references
	// are positional.
	positional := explicit == 0
	switch {
	case positional:
		for i := range tasks {
			tasks[i].ID = i
		}
	case explicit != len(tasks):
		for i, el := range elems {
			if !firstField(el, "id", "task_id").Exists() {
				return nil, schemaErr(raw, "id", i, "missing on some tasks but present on others")
			}
		}
	}

	ids := make(map[int]int, len(tasks)) // id -> element index
	for i, t := range tasks {
		if prev, dup := ids[t.ID]; dup {
			return nil, schemaErr(raw, "id", i, "duplicate id %d (also used by task %d)", t.ID, prev)
		}
		ids[t.ID] = i
	}

	// Second pass: resolve depends_on references now that all ids are known.
	for i, el := range elems {
		deps := firstField(el, "depends_on", "dependencies")
		if !deps.Exists() {
			continue
		}
		if !deps.IsArray() {
			return nil, schemaErr(raw, "depends_on", i, "must be an array of task ids")
		}

		seen := make(map[int]bool)
		for _, d := range deps.Array() {
			ref, ok := intValue(d)
			if !ok {
				return nil, schemaErr(raw, "depends_on", i, "reference %q is not an integer id", d.String())
			}
			if _, exists := ids[ref]; !exists {
				return nil, schemaErr(raw, "depends_on", i, "reference %d does not match any task", ref)
			}
			if !seen[ref] {
				seen[ref] = true
				tasks[i].DependsOn = append(tasks[i].DependsOn, ref)
			}
		}
		sort.Ints(tasks[i].DependsOn)
	}

	p := &Plan{Tasks: tasks}
	if cycle := p.Graph().DetectCycle(); cycle != nil {
		e := Errorf(KindCyclicDependency, "tasks form a dependency cycle")
		e.Cycle = cycle
		e.Raw = raw
		return nil, e
	}

	return p, nil
}

func schemaErr(raw, field string, index int, format string, args ...any) *Error {
	e := Errorf(KindSchemaViolation, format, args...)
	e.Field = field
	e.Index = index
	e.Raw = raw
	return e
}

// firstField returns the first of the named fields present on el. The
// model is prompted for the canonical names but older prompt variants used
// task_name/task_id/dependencies, so both spellings are accepted.
func firstField(el gjson.Result, names ...string) gjson.Result {
	for _, name := range names {
		if v := el.Get(name); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// numberValue reads a JSON number, coercing numeric strings.
func numberValue(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// intValue reads a JSON integer, coercing integral strings and rejecting
// fractional numbers.
func intValue(v gjson.Result) (int, bool) {
	f, ok := numberValue(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
