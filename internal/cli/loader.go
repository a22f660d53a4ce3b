package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/probgraph/internal/compiler"
	"github.com/roach88/probgraph/internal/graph"
)

// LoadMode controls how errors are handled during model loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading models from a directory.
type LoadResult struct {
	Models    []compiler.Model
	FileCount int // Number of CUE files found
}

// LoadError represents an error that occurred during model loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadModels loads and compiles every CUE model definition in a directory.
// Model files declare entries under the top-level "model" struct:
//
//	model: coinflip: {
//		nodes: [
//			{op: "CONSTANT", value: 2.0},
//			...
//		]
//	}
//
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
// Models are returned sorted by name for deterministic output.
func LoadModels(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("models directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing models directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	// Find CUE files
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	// Load CUE instances. Files are named explicitly so model files without
	// a package clause load too.
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	relFiles := make([]string, len(cueFiles))
	for i, f := range cueFiles {
		rel, relErr := filepath.Rel(dir, f)
		if relErr != nil {
			rel = f
		}
		relFiles[i] = rel
	}
	instances := load.Instances(relFiles, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	// Unify all instances into one value so model files spread across
	// multiple standalone files contribute to a single "model" struct.
	var value cue.Value
	for i, inst := range instances {
		if inst.Err != nil {
			return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
		}
		v := ctx.BuildInstance(inst)
		if err := v.Err(); err != nil {
			return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
		}
		if i == 0 {
			value = v
		} else {
			value = value.Unify(v)
		}
	}
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{FileCount: len(cueFiles)}

	modelsVal := value.LookupPath(cue.ParsePath("model"))
	if !modelsVal.Exists() {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no model definitions found (expected a top-level \"model\" struct)"})
		return result, errs
	}

	iter, iterErr := modelsVal.Fields()
	if iterErr != nil {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating models: %v", iterErr)})
		return result, errs
	}
	for iter.Next() {
		m, compileErr := compiler.CompileModel(iter.Value())
		if compileErr != nil {
			errs = append(errs, convertCompileError(compileErr, "model."+iter.Label()))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Models = append(result.Models, *m)
	}

	if len(result.Models) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no models found"})
	}

	sort.Slice(result.Models, func(i, j int) bool {
		return result.Models[i].Name < result.Models[j].Name
	})

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler or graph error to a LoadError.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeBadModel,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	var graphErr *graph.GraphError
	if errors.As(err, &graphErr) {
		return &LoadError{
			Code:    MapGraphErrorCode(graphErr.Code),
			Message: fmt.Sprintf("%s: %s", context, graphErr.Error()),
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeBadModel    = "E008" // Malformed model definition

	// Graph validation errors
	ErrCodeStructural   = "E101" // Broken positional identity or node shape
	ErrCodeArity        = "E102" // Operand count mismatch
	ErrCodeTypeMismatch = "E103" // Operand type mismatch
	ErrCodeQueryIndex   = "E104" // Non-dense query indices
	ErrCodeValue        = "E105" // Non-finite constant
	ErrCodeOutOfRange   = "E106" // Reference to a node that does not exist
)

// MapGraphErrorCode maps a graph error code to a CLI error code.
func MapGraphErrorCode(code graph.ErrorCode) string {
	switch code {
	case graph.ErrCodeStructural:
		return ErrCodeStructural
	case graph.ErrCodeArity:
		return ErrCodeArity
	case graph.ErrCodeTypeMismatch:
		return ErrCodeTypeMismatch
	case graph.ErrCodeQueryIndex:
		return ErrCodeQueryIndex
	case graph.ErrCodeValue:
		return ErrCodeValue
	case graph.ErrCodeOutOfRange:
		return ErrCodeOutOfRange
	default:
		return ErrCodeGeneric
	}
}
