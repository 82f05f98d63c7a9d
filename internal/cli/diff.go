package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomkit/loom/internal/harness"
	"github.com/loomkit/loom/internal/trace"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	ScenarioPath string
	Database     string // optional - record the pass when set
}

// DiffResult holds the diff command output.
type DiffResult struct {
	Scenario     string         `json:"scenario"`
	Token        string         `json:"token"`
	Root         string         `json:"root"`
	Effects      []trace.Effect `json:"effects"`
	ExpectErrors []string       `json:"expect_errors,omitempty"`
	Recorded     bool           `json:"recorded"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Run a scenario and print its mutation trace",
		Long: `Run a scenario file through the diff engine and print the mutation
trace it produces.

When --db is given, the pass is also recorded for later inspection
(loom trace) and determinism verification (loom replay).

Exit codes:
  0 - Scenario ran and matched its expectations
  1 - Scenario ran but inline expectations did not match
  2 - Command error (scenario not found, malformed, database error)

Examples:
  loom diff --scenario testdata/scenarios/reorder.yaml
  loom diff --scenario reorder.yaml --db ./loom.db
  loom diff --scenario reorder.yaml --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ScenarioPath, "scenario", "", "path to scenario YAML file (required)")
	_ = cmd.MarkFlagRequired("scenario")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database to record the pass in")

	return cmd
}

func runDiff(opts *DiffOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	raw, err := os.ReadFile(opts.ScenarioPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read scenario", err)
	}

	scenario, err := harness.ParseScenario(raw)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to parse scenario", err)
	}

	h := harness.New(harness.WithLogger(diagnosticLogger(opts.RootOptions, cmd)))
	result, err := h.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}

	expectErrors := harness.CheckExpectations(scenario, result)

	diffResult := DiffResult{
		Scenario:     result.Scenario,
		Token:        result.Token,
		Root:         result.Root,
		Effects:      result.Effects,
		ExpectErrors: expectErrors,
	}

	if opts.Database != "" {
		st, err := trace.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		inserted, err := st.RecordPass(context.Background(), trace.Pass{
			Token:    result.Token,
			Root:     result.Root,
			Scenario: raw,
		}, result.Effects)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record pass", err)
		}
		diffResult.Recorded = inserted
		if !inserted {
			out.VerboseLog("pass %s already recorded, kept original", result.Token)
		}
	}

	if opts.Format == "json" {
		if err := out.Success(diffResult); err != nil {
			return err
		}
	} else {
		printDiffText(out, diffResult)
	}

	if len(expectErrors) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d expectation(s) failed", len(expectErrors)))
	}
	return nil
}

func printDiffText(out *OutputFormatter, r DiffResult) {
	fmt.Fprintf(out.Writer, "scenario: %s (root %s, pass %s)\n", r.Scenario, r.Root, r.Token)
	if len(r.Effects) == 0 {
		fmt.Fprintln(out.Writer, "no effects")
	}
	for _, e := range r.Effects {
		fmt.Fprintln(out.Writer, "  "+formatEffect(e))
	}
	for _, msg := range r.ExpectErrors {
		fmt.Fprintf(out.Writer, "FAIL: %s\n", msg)
	}
	if r.Recorded {
		fmt.Fprintln(out.Writer, "recorded")
	}
}

// formatEffect renders one effect as a single trace line.
func formatEffect(e trace.Effect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%3d %-24s %s", e.Seq, e.Op, e.Tag)
	if e.NodeType != "" {
		fmt.Fprintf(&b, "/%s", e.NodeType)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, " key=%s", e.Key)
	}
	fmt.Fprintf(&b, " index=%d", e.NodeIndex)
	if e.Content != "" {
		fmt.Fprintf(&b, " content=%q", e.Content)
	}
	return b.String()
}

// diagnosticLogger routes reconciler warnings (duplicate keys) to stderr
// in verbose mode and discards them otherwise.
func diagnosticLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	if !opts.Verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
