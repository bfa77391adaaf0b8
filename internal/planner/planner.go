// Package planner wires the goal-to-plan pipeline: prompt construction,
// one model call, and parse/validation of the response.
package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mintu3770/task-planner/internal/plan"
)

// CompletionClient is the model call the pipeline depends on.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Options tune a single generation.
type Options struct {
	TemplatePath string // custom prompt template, empty for the default
}

// GeneratePlan runs one goal through the full pipeline and returns a
// validated Plan or a pipeline error. Each call is an isolated
// request/response exchange; nothing is shared between invocations and
// nothing is persisted.
func GeneratePlan(ctx context.Context, client CompletionClient, goal string, opts Options) (*plan.Plan, error) {
	prompt, err := BuildPrompt(goal, opts.TemplatePath)
	if err != nil {
		return nil, err
	}

	raw, err := client.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	p, err := plan.Parse(raw)
	if err != nil {
		return nil, err
	}

	p.ID = uuid.NewString()
	p.Goal = goal
	p.Model = client.Model()
	p.CreatedAt = time.Now()
	return p, nil
}
