package build

import (
	"context"

	"github.com/PythonWorkbench/clang-build/src/core"
)

// runBeforeCompileScript, runBeforeLinkScript and runAfterBuildScript
// implement Design Note 9: a target's before_compile/before_link/
// after_build script (if any) is spawned as an external process through
// core.ScriptExecutor, never exec'd in-process. A failure is fatal only to
// the owning target (spec §4.6).

func (d *Driver) runBeforeCompileScript(ctx context.Context, t *core.Target) error {
	return d.runScript(t, t.BeforeCompileScript)
}

func (d *Driver) runBeforeLinkScript(ctx context.Context, t *core.Target) error {
	return d.runScript(t, t.BeforeLinkScript)
}

func (d *Driver) runAfterBuildScript(ctx context.Context, t *core.Target) error {
	return d.runScript(t, t.AfterBuildScript)
}

func (d *Driver) runScript(t *core.Target, script string) error {
	if script == "" || d.Env.Executor == nil {
		return nil
	}
	log.Info("[%s]: running script %s", t.Identifier(), script)
	output, err := d.Env.Executor.RunScript(script, t.RootDirectory)
	if err != nil {
		return &core.ScriptError{Target: t.Identifier(), Script: script, Output: output, Err: err}
	}
	return nil
}
