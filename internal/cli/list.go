package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/probgraph/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	DBPath string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored graphs",
		Long: `List every stored graph with its name, content-addressed id and size.

Output order is deterministic: by name, then id.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
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

	infos, err := st.ListGraphs(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "No graphs stored.")
		return nil
	}

	fmt.Fprintf(formatter.Writer, "%d graph(s)\n\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "  %s: %d node(s), %d query(ies), id=%s\n",
			info.Name, info.NodeCount, info.QueryCount, info.ID)
	}
	return nil
}
