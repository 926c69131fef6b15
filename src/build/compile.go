package build

import (
	"context"
	"os"
	"path/filepath"

	"github.com/PythonWorkbench/clang-build/src/core"
	"github.com/PythonWorkbench/clang-build/src/process"
)

// generateDepfile runs a SourceUnit's depfile-generation command, per spec
// §4.5. A failed generation command marks DepfileFailed and leaves any
// previous object file untouched.
func generateDepfile(ctx context.Context, executor *process.Executor, target *core.Target, unit *core.SourceUnit) error {
	if err := os.MkdirAll(filepath.Dir(unit.DepFile), 0o755); err != nil {
		return &core.FilesystemError{Path: unit.DepFile, Err: err}
	}
	result, err := executor.Run(ctx, target.RootDirectory, unit.DepfileCommand)
	unit.CompileReport = result.Output
	if err != nil {
		unit.DepfileFailed = true
		return &core.CompileError{Source: unit.Source, Output: result.Output, Err: err}
	}
	return nil
}

// compileSource runs a SourceUnit's compile command, per spec §4.5. A
// non-zero exit marks CompilationFailed with stdout+stderr captured into
// CompileReport; the object file is left in whatever state the compiler
// left it in (it is never deleted on failure).
func compileSource(ctx context.Context, executor *process.Executor, target *core.Target, unit *core.SourceUnit) error {
	if err := os.MkdirAll(filepath.Dir(unit.ObjectFile), 0o755); err != nil {
		return &core.FilesystemError{Path: unit.ObjectFile, Err: err}
	}
	result, err := executor.Run(ctx, target.RootDirectory, unit.CompileCommand)
	unit.CompileReport = result.Output
	if err != nil {
		unit.CompilationFailed = true
		return &core.CompileError{Source: unit.Source, Output: result.Output, Err: err}
	}
	return nil
}
