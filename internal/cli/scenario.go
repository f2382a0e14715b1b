package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/loupe-ui/loupe/internal/scenario"
	"github.com/loupe-ui/loupe/internal/trace"
)

// ScenarioRunOptions holds flags for the scenario run command.
type ScenarioRunOptions struct {
	*RootOptions
	DBPath string // persist the trace when set
}

// ScenarioRunResult is the run payload in JSON output.
type ScenarioRunResult struct {
	Name         string   `json:"name"`
	SessionToken string   `json:"session_token"`
	Passed       bool     `json:"passed"`
	Events       int      `json:"events"`
	Errors       []string `json:"errors,omitempty"`
}

// NewScenarioCommand creates the scenario command group.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Validate and run input scenarios",
	}
	cmd.AddCommand(newScenarioValidateCommand(rootOpts))
	cmd.AddCommand(newScenarioRunCommand(rootOpts))
	return cmd
}

func newScenarioValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a scenario file without running it",
		Long: `Parse a scenario file and check it against the schema.

Exit codes:
  0 - Scenario is valid
  2 - File missing or invalid

Examples:
  loupe scenario validate scenarios/palette.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				if rootOpts.Format == "json" {
					return writeJSONError(cmd.OutOrStdout(), err.Error())
				}
				return WrapExitError(ExitCommandError, "scenario invalid", err)
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"name":  s.Name,
					"steps": len(s.Steps),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scenario %q is valid (%d steps, %d assertions).\n",
				s.Name, len(s.Steps), len(s.Assertions))
			return nil
		},
	}
}

func newScenarioRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioRunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a scenario and report its assertions",
		Long: `Run a scenario against a fresh window harness.

Exit codes:
  0 - Scenario ran and all assertions passed
  1 - One or more assertions failed
  2 - Command error (file missing, invalid scenario, database error)

Examples:
  loupe scenario run scenarios/palette.yaml
  loupe scenario run scenarios/palette.yaml --db traces.db
  loupe scenario run scenarios/palette.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "persist the recorded trace to this SQLite database")

	return cmd
}

func runScenario(opts *ScenarioRunOptions, path string, cmd *cobra.Command) error {
	s, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	runner := scenario.NewRunner(scenario.WithLogger(slog.Default()))
	result, err := runner.Run(s)
	if err != nil {
		return WrapExitError(ExitCommandError, "run scenario", err)
	}

	if opts.DBPath != "" {
		if err := persistTrace(opts.DBPath, s.Name, result); err != nil {
			return WrapExitError(ExitCommandError, "persist trace", err)
		}
	}

	payload := ScenarioRunResult{
		Name:         s.Name,
		SessionToken: result.SessionToken,
		Passed:       result.Passed,
		Events:       len(result.Trace),
		Errors:       result.Errors,
	}

	if opts.Format == "json" {
		if err := writeJSON(cmd.OutOrStdout(), payload); err != nil {
			return err
		}
	} else {
		printScenarioResult(cmd, payload)
	}

	if !result.Passed {
		return NewExitError(ExitFailure,
			fmt.Sprintf("scenario %q failed %d assertion(s)", s.Name, len(result.Errors)))
	}
	return nil
}

func persistTrace(dbPath, name string, result *scenario.Result) error {
	st, err := trace.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.WriteTrace(context.Background(), result.SessionToken, name, result.Trace)
}

func printScenarioResult(cmd *cobra.Command, r ScenarioRunResult) {
	out := cmd.OutOrStdout()
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(out, "%s %s (session %s, %d events)\n", status, r.Name, r.SessionToken, r.Events)
	for _, msg := range r.Errors {
		fmt.Fprintf(out, "\n%s\n", msg)
	}
}
