package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/loupe-ui/loupe/internal/trace"
)

// TraceShowOptions holds flags for the trace show command.
type TraceShowOptions struct {
	*RootOptions
	DBPath  string
	Session string
}

// NewTraceCommand creates the trace command group.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect persisted input traces",
	}
	cmd.AddCommand(newTraceShowCommand(rootOpts))
	return cmd
}

func newTraceShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show recorded sessions or one session's events",
		Long: `Without --session, list all recorded sessions. With --session,
print that session's events in dispatch order.

Examples:
  loupe trace show --db traces.db
  loupe trace show --db traces.db --session 0190a5e2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite trace database (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token to show events for")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func showTrace(opts *TraceShowOptions, cmd *cobra.Command) error {
	if _, err := os.Stat(opts.DBPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("trace database not found: %s", opts.DBPath))
	}

	st, err := trace.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open trace database", err)
	}
	defer st.Close()

	ctx := context.Background()
	if opts.Session != "" {
		return showSessionEvents(ctx, st, opts, cmd)
	}
	return listSessions(ctx, st, opts, cmd)
}

func listSessions(ctx context.Context, st *trace.Store, opts *TraceShowOptions, cmd *cobra.Command) error {
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "list sessions", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), sessions)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded.")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSCENARIO\tEVENTS")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%d\n", s.Token, s.Scenario, s.EventCount)
	}
	return w.Flush()
}

func showSessionEvents(ctx context.Context, st *trace.Store, opts *TraceShowOptions, cmd *cobra.Command) error {
	events, err := st.ReadEvents(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "read events", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), events)
	}

	if len(events) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No events for session %s.\n", opts.Session)
		return nil
	}
	for _, ev := range events {
		switch ev.Kind {
		case "key_down":
			fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s %s\n", ev.Seq, ev.Kind, ev.Keystroke)
		case "mouse_down", "mouse_up":
			fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s %s (%d,%d)\n", ev.Seq, ev.Kind, ev.Button, ev.X, ev.Y)
		case "mouse_move":
			fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s (%d,%d)\n", ev.Seq, ev.Kind, ev.X, ev.Y)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s %s\n", ev.Seq, ev.Kind, ev.Modifiers)
		}
	}
	return nil
}
