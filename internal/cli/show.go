package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/probgraph/internal/graph"
	"github.com/roach88/probgraph/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DBPath string
}

// ShowResult is the JSON payload for the show command.
type ShowResult struct {
	ID         string   `json:"id"`
	NodeCount  int      `json:"node_count"`
	QueryCount int      `json:"query_count"`
	Nodes      []string `json:"nodes"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <graph-id>",
		Short: "Show a stored graph's nodes",
		Long: `Show a stored graph, one node per line in sequence order.

The graph is re-validated on load, so a corrupted database surfaces as an
error rather than a partial listing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("opening database: %v", err), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("opening database: %v", err))
	}
	defer st.Close()

	g, err := st.GetGraph(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("graph not found: %s", id), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("graph not found: %s", id))
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	lines := make([]string, 0, g.Len())
	for _, n := range g.Nodes() {
		lines = append(lines, graph.FormatNode(n))
	}

	if formatter.Format == "json" {
		return formatter.Success(ShowResult{
			ID:         id,
			NodeCount:  g.Len(),
			QueryCount: g.QueryCount(),
			Nodes:      lines,
		})
	}

	fmt.Fprintf(formatter.Writer, "graph %s (%d node(s), %d query(ies))\n",
		id, g.Len(), g.QueryCount())
	for _, line := range lines {
		fmt.Fprintf(formatter.Writer, "  %s\n", line)
	}
	return nil
}
