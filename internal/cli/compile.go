package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/probgraph/internal/compiler"
	"github.com/roach88/probgraph/internal/graph"
	"github.com/roach88/probgraph/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	DBPath string // database to persist compiled graphs into
}

// ModelSummary describes one compiled model.
type ModelSummary struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	NodeCount  int    `json:"node_count"`
	QueryCount int    `json:"query_count"`
}

// CompilationResult holds the compiled models with their canonical forms.
type CompilationResult struct {
	Models []CompiledModel `json:"models"`
}

// CompiledModel is one model's persistent representation.
type CompiledModel struct {
	Name      string          `json:"name"`
	ID        string          `json:"id"`
	Canonical json.RawMessage `json:"canonical"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <models-dir>",
		Short: "Compile CUE models to validated graphs",
		Long: `Compile CUE model definitions to validated graphs.

The compiler parses CUE files, feeds each model's node list through the
graph builder, and runs the full validation pass. Compiled graphs can be
written to a file as canonical JSON or persisted to a database.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "database path to persist compiled graphs")

	return cmd
}

func runCompile(opts *CompileOptions, modelsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	// Use shared loader with collect-all mode
	loadResult, loadErrors := LoadModels(modelsDir, LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, modelsDir)
	for _, m := range loadResult.Models {
		formatter.VerboseLog("Compiled model: %s (%d node(s))", m.Name, m.Graph.Len())
	}

	// Handle compilation errors
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	summaries, result, err := summarize(loadResult.Models)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, err.Error())
	}

	// Persist to database if --db specified
	if opts.DBPath != "" {
		if err := persistModels(cmd.Context(), opts.DBPath, loadResult.Models); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("persisting graphs: %v", err))
		}
		formatter.VerboseLog("Persisted %d graph(s) to %s", len(loadResult.Models), opts.DBPath)
	}

	// Write to file if --output specified
	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, summaries, opts.Output)
}

// summarize computes each model's summary and persistent form.
func summarize(models []compiler.Model) ([]ModelSummary, *CompilationResult, error) {
	summaries := make([]ModelSummary, 0, len(models))
	result := &CompilationResult{Models: make([]CompiledModel, 0, len(models))}

	for _, m := range models {
		id, err := graph.GraphID(m.Graph)
		if err != nil {
			return nil, nil, fmt.Errorf("model %s: %w", m.Name, err)
		}
		canonical, err := graph.MarshalCanonical(m.Graph)
		if err != nil {
			return nil, nil, fmt.Errorf("model %s: %w", m.Name, err)
		}

		summaries = append(summaries, ModelSummary{
			Name:       m.Name,
			ID:         id,
			NodeCount:  m.Graph.Len(),
			QueryCount: m.Graph.QueryCount(),
		})
		result.Models = append(result.Models, CompiledModel{
			Name:      m.Name,
			ID:        id,
			Canonical: json.RawMessage(canonical),
		})
	}
	return summaries, result, nil
}

// persistModels stores every compiled graph in the database at dbPath.
func persistModels(ctx context.Context, dbPath string, models []compiler.Model) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, m := range models {
		if _, err := st.PutGraph(ctx, m.Name, m.Graph); err != nil {
			return fmt.Errorf("model %s: %w", m.Name, err)
		}
	}
	return nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, summaries []ModelSummary, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d model(s)\n\n", len(summaries))
	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "  %s: %d node(s), %d query(ies), id=%s\n",
			s.Name, s.NodeCount, s.QueryCount, s.ID)
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote canonical graphs to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseLoadError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseLoadError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseLoadError extracts error code and message from an error.
func parseLoadError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeResultToFile writes the compilation result to a file as indented JSON.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
