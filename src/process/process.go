// Package process implements subprocess execution for compiler, archiver
// and user-script invocations. It is grounded on please's src/process
// package, simplified to the single concern cbuild needs: run one
// external command, capture its combined output, and report success.
package process

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/PythonWorkbench/clang-build/src/cli/logging"
)

var log = logging.Log

// Executor runs external processes (compiler, archiver, user scripts) on
// behalf of the build. Per spec §5, the only suspension points in the
// system are around process execution, filesystem stats and depfile
// reads; Executor owns the former.
type Executor struct{}

// New returns a ready-to-use Executor.
func New() *Executor { return &Executor{} }

// Result captures the outcome of running one external command.
type Result struct {
	Output   string // combined stdout+stderr
	ExitCode int
}

// Run executes argv[0] with the remaining elements as arguments, in dir,
// and returns its combined stdout+stderr. A non-zero exit is reported via
// err but Output is still populated so callers can build a CompileError/
// LinkError/ScriptError with the captured output.
func (e *Executor) Run(ctx context.Context, dir string, argv []string) (Result, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	log.Debug("%s", argv)
	err := cmd.Run()
	result := Result{Output: buf.String()}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
	}
	return result, err
}

// RunScript implements core.ScriptExecutor: it runs a script file as an
// external process with dir as its working directory, per Design Note 9
// (pre/post-build scripts are never executed in-process).
func (e *Executor) RunScript(scriptPath, dir string) (string, error) {
	result, err := e.Run(context.Background(), dir, []string{scriptPath})
	return result.Output, err
}
