package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomkit/loom/internal/harness"
	"github.com/loomkit/loom/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	TotalPasses   int      `json:"total_passes"`
	Divergent     int      `json:"divergent"`
	Deterministic bool     `json:"deterministic"`
	Divergences   []string `json:"divergences,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run recorded passes and verify determinism",
		Long: `Re-run every recorded pass's scenario through the live diff engine
and verify the fresh mutation trace matches the recording.

A divergence means either the recording was made by a different engine
version or the diff is non-deterministic; both warrant investigation.

Exit codes:
  0 - Every pass reproduced its recorded trace
  1 - At least one pass diverged
  2 - Command error (database not found, malformed scenario, etc.)

Examples:
  loom replay --db ./loom.db
  loom replay --db ./loom.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := context.Background()

	passes, err := st.ListPasses(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list passes", err)
	}

	h := harness.New(harness.WithLogger(diagnosticLogger(opts.RootOptions, cmd)))
	divergences, err := st.ReplayAll(ctx, h.Runner())
	if err != nil {
		return WrapExitError(ExitCommandError, "replay failed", err)
	}

	result := ReplayResult{
		TotalPasses:   len(passes),
		Divergent:     len(divergences),
		Deterministic: len(divergences) == 0,
	}
	for _, d := range divergences {
		result.Divergences = append(result.Divergences, d.String())
	}

	if out.Format == "json" {
		if err := out.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out.Writer, "replayed %d pass(es), %d divergent\n", result.TotalPasses, result.Divergent)
		for _, d := range result.Divergences {
			fmt.Fprintf(out.Writer, "FAIL: %s\n", d)
		}
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("%d pass(es) diverged", result.Divergent))
	}
	return nil
}
