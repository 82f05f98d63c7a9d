package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomkit/loom/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Pass     string // optional - specific pass token
}

// TracePassResult holds one pass for output.
type TracePassResult struct {
	Token     string         `json:"token"`
	Root      string         `json:"root"`
	CreatedAt string         `json:"created_at"`
	Effects   []trace.Effect `json:"effects,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded passes",
		Long: `List recorded passes, or print the full mutation trace of one pass.

Without --pass, lists every recorded pass in recording order. With
--pass, prints that pass's effect sequence exactly as recorded.

Examples:
  loom trace --db ./loom.db
  loom trace --db ./loom.db --pass 0195fe3e-8f2a-7c1e-b0f3-1d2c3b4a5e6f
  loom trace --db ./loom.db --pass pass-reorder --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceCmd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Pass, "pass", "", "pass token to print in full")

	return cmd
}

func runTraceCmd(opts *TraceOptions, cmd *cobra.Command) error {
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

	if opts.Pass == "" {
		return listPasses(ctx, st, out)
	}
	return showPass(ctx, st, out, opts.Pass)
}

func listPasses(ctx context.Context, st *trace.Store, out *OutputFormatter) error {
	passes, err := st.ListPasses(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list passes", err)
	}

	results := make([]TracePassResult, len(passes))
	for i, p := range passes {
		results[i] = TracePassResult{
			Token:     p.Token,
			Root:      p.Root,
			CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	if out.Format == "json" {
		return out.Success(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out.Writer, "no passes recorded")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out.Writer, "%s  root=%s  %s\n", r.Token, r.Root, r.CreatedAt)
	}
	return nil
}

func showPass(ctx context.Context, st *trace.Store, out *OutputFormatter, token string) error {
	pass, effects, err := st.GetPass(ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return NewExitError(ExitCommandError, fmt.Sprintf("no pass recorded with token %q", token))
		}
		return WrapExitError(ExitCommandError, "failed to read pass", err)
	}

	result := TracePassResult{
		Token:     pass.Token,
		Root:      pass.Root,
		CreatedAt: pass.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Effects:   effects,
	}

	if out.Format == "json" {
		return out.Success(result)
	}

	fmt.Fprintf(out.Writer, "pass %s (root %s, recorded %s)\n", result.Token, result.Root, result.CreatedAt)
	if len(effects) == 0 {
		fmt.Fprintln(out.Writer, "no effects")
	}
	for _, e := range effects {
		fmt.Fprintln(out.Writer, "  "+formatEffect(e))
	}
	return nil
}
