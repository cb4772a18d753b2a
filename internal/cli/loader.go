package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/padmarajnidagundi/Quantum-Programming/internal/compiler"
	"github.com/padmarajnidagundi/Quantum-Programming/internal/ir"
)

// LoadMode controls how errors are handled during circuit loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the programs loaded from a directory.
type LoadResult struct {
	Programs  []*compiler.Program
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during circuit loading.
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

// LoadCircuits reads every CUE file under dir, unifies them and compiles the
// programs under circuit:.
// If mode is LoadModeFailFast, returns on first compile error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadCircuits(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("circuits directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing circuits directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	value, err := compiler.BuildValue(cueFiles...)
	if err != nil {
		loadErr := convertCompileError(err, "build")
		loadErr.Code = ErrCodeBuildFailed
		return nil, []error{loadErr}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	progs, compileErrs := compiler.CompileAll(value)
	result.Programs = progs

	var errs []error
	for _, err := range compileErrs {
		errs = append(errs, convertCompileError(err, "circuit"))
		if mode == LoadModeFailFast {
			return result, errs
		}
	}

	if len(result.Programs) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no circuits found"})
	}

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

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeCompile,
			Message: err.Error(),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands. Validation codes
// E2xx come from the compiler.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // Scenario or file load failed
	ErrCodeNotFound    = "E005" // Path, circuit or run not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File or journal write error
	ErrCodeBadFlag     = "E008" // Invalid flag value
	ErrCodeSimulation  = "E009" // Simulation or estimation failed
	ErrCodeFailed      = "E010" // Scenario failed or run did not reproduce

	ErrCodeCompile = "E101" // Circuit program does not compile
)

// loadProgram loads dir and returns the named, validated program.
func loadProgram(dir, name string) (*compiler.Program, *LoadError) {
	result, errs := LoadCircuits(dir, LoadModeCollectAll)
	if result == nil {
		return nil, asLoadError(errs[0])
	}
	prog, ok := compiler.Find(result.Programs, name)
	if !ok {
		for _, err := range errs {
			if strings.Contains(err.Error(), "circuit."+name+":") {
				return nil, asLoadError(err)
			}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("circuit %q not found in %s", name, dir)}
	}
	if verrs := compiler.Validate(prog); len(verrs) > 0 {
		return nil, &LoadError{Code: verrs[0].Code, Message: verrs[0].Error()}
	}
	return prog, nil
}

func asLoadError(err error) *LoadError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// parseBindings parses repeated name=value flags.
func parseBindings(pairs []string) (ir.Bindings, error) {
	b := ir.Bindings{}
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("binding %q: want name=value", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", pair, err)
		}
		b[name] = v
	}
	return b, nil
}

// newFormatter builds the formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
