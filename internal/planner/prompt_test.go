package planner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mintu3770/task-planner/internal/plan"
)

func TestBuildPrompt_ContainsGoalVerbatim(t *testing.T) {
	goal := "Launch a minimal e-commerce web app in 4 weeks."
	prompt, err := BuildPrompt(goal, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompt == "" {
		t.Fatal("prompt must not be empty")
	}
	if !strings.Contains(prompt, goal) {
		t.Error("prompt should contain the goal verbatim")
	}
}

func TestBuildPrompt_StatesSchema(t *testing.T) {
	prompt, err := BuildPrompt("write a book", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, field := range []string{"title", "duration_days", "depends_on"} {
		if !strings.Contains(prompt, field) {
			t.Errorf("prompt should name schema field %q", field)
		}
	}
	if !strings.Contains(prompt, "Return ONLY") {
		t.Error("prompt should forbid extraneous prose")
	}
}

func TestBuildPrompt_EmptyGoal(t *testing.T) {
	for _, goal := range []string{"", "   ", "\n\t"} {
		_, err := BuildPrompt(goal, "")
		if !plan.IsKind(err, plan.KindInvalidInput) {
			t.Errorf("goal %q: expected invalid_input, got %v", goal, err)
		}
	}
}

func TestBuildPrompt_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmpl.txt")
	if err := os.WriteFile(path, []byte("plan this: {{.Goal}}"), 0644); err != nil {
		t.Fatal(err)
	}

	prompt, err := BuildPrompt("paint the house", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompt != "plan this: paint the house" {
		t.Errorf("unexpected render: %q", prompt)
	}
}

func TestBuildPrompt_MissingTemplateFile(t *testing.T) {
	_, err := BuildPrompt("a goal", filepath.Join(t.TempDir(), "nope.txt"))
	if !plan.IsKind(err, plan.KindConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}
