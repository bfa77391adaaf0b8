package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mintu3770/task-planner/internal/config"
	"github.com/mintu3770/task-planner/internal/llm"
	"github.com/mintu3770/task-planner/internal/plan"
	"github.com/mintu3770/task-planner/internal/planner"
	"github.com/mintu3770/task-planner/internal/reporter"
	"github.com/mintu3770/task-planner/internal/ui"
	"github.com/mintu3770/task-planner/internal/viewer"
)

var (
	flagConfig   string
	flagModel    string
	flagTimeout  time.Duration
	flagRetries  int
	flagTemplate string
	flagJSON     bool
	flagOutput   string
	flagTopo     bool
	flagServe    bool
	flagPort     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskplanner",
		Short: "Break a goal into a dependency-checked action plan with an LLM",
		Long: `Task Planner sends a free-text goal to the Anthropic API, asks the model
to decompose it into dependent sub-tasks with estimated durations, then
validates the returned JSON into a typed plan: no dangling dependency
references, no cycles, and a derived schedule with critical path and
parallel waves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file path")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(modelsCmd())

	if err := rootCmd.Execute(); err != nil {
		reporter.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// buildConfig resolves process configuration once: defaults, optional
// config file, then flag overrides. The API key is only required (and
// resolved) by commands that call the model.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("model") {
		cfg.Model = flagModel
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if cmd.Flags().Changed("retries") {
		cfg.Retries = flagRetries
	}
	return cfg, cfg.Validate()
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan \"<goal>\"",
		Short: "Generate a validated task plan from a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal := strings.Join(args, " ")

			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ResolveAPIKey(); err != nil {
				return err
			}

			client, err := llm.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !flagJSON {
				ui.PrintLogo()
				fmt.Fprintln(os.Stderr, ui.Dim("🧠 asking the model..."))
			}

			p, err := planner.GeneratePlan(ctx, client, goal, planner.Options{TemplatePath: flagTemplate})
			if err != nil {
				return err
			}

			return renderPlan(ctx, p)
		},
	}

	cmd.Flags().StringVar(&flagModel, "model", "sonnet", "Model to use (see 'taskplanner models')")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 60*time.Second, "Model request timeout")
	cmd.Flags().IntVar(&flagRetries, "retries", 0, "Extra attempts on transport failure (max 3)")
	cmd.Flags().StringVar(&flagTemplate, "prompt-template", "", "Custom prompt template path")
	addRenderFlags(cmd)

	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [FILE]",
		Short: "Validate a saved model response without calling the model",
		Long: `Check runs the parser/validator over raw model output read from FILE or
stdin. Useful for inspecting a response the model got wrong.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			p, err := plan.Parse(string(raw))
			if err != nil {
				return err
			}
			p.Goal = "(checked from saved response)"

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return renderPlan(ctx, p)
		},
	}

	addRenderFlags(cmd)
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List known model identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range llm.AvailableModels {
				fmt.Printf("  %-8s %-28s %s\n", ui.BoldCyan(m.Name), m.ID, ui.Dim(m.Note))
			}
			return nil
		},
	}
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagOutput, "output", "", "Save plan JSON to file")
	cmd.Flags().BoolVar(&flagTopo, "topo", false, "Also print tasks in dependency order")
	cmd.Flags().BoolVar(&flagServe, "serve", false, "Serve the plan graph in a browser view")
	cmd.Flags().IntVar(&flagPort, "port", 7171, "Viewer port")
}

// renderPlan is shared output logic for plan and check.
func renderPlan(ctx context.Context, p *plan.Plan) error {
	rep, err := reporter.New(p)
	if err != nil {
		return err
	}

	if flagJSON {
		data, err := rep.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		rep.PrintPlan(os.Stdout)
		if flagTopo {
			if err := rep.PrintTopo(os.Stdout); err != nil {
				return err
			}
		}
	}

	if flagOutput != "" {
		data, err := rep.JSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(flagOutput, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", flagOutput, err)
		}
		fmt.Fprintf(os.Stderr, "%s plan saved to %s\n", ui.Green("✓"), flagOutput)
	}

	if flagServe {
		addr, err := viewer.Start(flagPort, viewer.ToGraph(p, rep.Schedule))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s viewer at %s (ctrl-c to stop)\n", ui.Green("✓"), ui.BoldCyan(addr))
		<-ctx.Done()
	}

	return nil
}
