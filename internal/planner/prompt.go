package planner

import (
	"bytes"
	"os"
	"strings"
	"text/template"

	"github.com/mintu3770/task-planner/internal/plan"
)

const defaultPromptTemplate = `You are an expert project manager. Break the user's goal down into a structured action plan.

Goal: "{{.Goal}}"

Return ONLY a JSON array with this exact structure:
[
  {
    "id": 1,
    "title": "Task name here",
    "description": "Detailed description here",
    "depends_on": [],
    "duration_days": 5
  }
]

Rules:
- id: integer starting from 1
- title: concise, non-empty string
- description: detailed string
- depends_on: array of id integers for tasks that must complete first (empty array if none)
- duration_days: estimated effort as a non-negative number of days
- Only reference ids that exist in the array
- Do not create dependency cycles; a task cannot depend on itself

Provide a complete, logical breakdown of the goal into sequential tasks.
Return ONLY the JSON, no other text or markdown formatting.
`

// PromptData holds the data used to render a prompt template.
type PromptData struct {
	Goal string
}

// BuildPrompt renders the decomposition instruction for a goal, using
// either a custom template file or the default. It is a pure function of
// its inputs; a blank goal fails with invalid_input before anything else
// happens.
func BuildPrompt(goal string, templatePath string) (string, error) {
	if strings.TrimSpace(goal) == "" {
		return "", plan.Errorf(plan.KindInvalidInput, "goal must not be empty")
	}

	tmplStr := defaultPromptTemplate
	if templatePath != "" {
		content, err := os.ReadFile(templatePath)
		if err != nil {
			return "", &plan.Error{Kind: plan.KindConfig, Index: -1, Msg: "read prompt template", Err: err}
		}
		tmplStr = string(content)
	}

	tmpl, err := template.New("prompt").Parse(tmplStr)
	if err != nil {
		return "", &plan.Error{Kind: plan.KindConfig, Index: -1, Msg: "parse prompt template", Err: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, PromptData{Goal: goal}); err != nil {
		return "", &plan.Error{Kind: plan.KindConfig, Index: -1, Msg: "render prompt template", Err: err}
	}
	return buf.String(), nil
}
