package build

import (
	"context"
	"os"

	"github.com/PythonWorkbench/clang-build/src/core"
	"github.com/PythonWorkbench/clang-build/src/process"
)

// Driver drives the compile/link phases of a constructed project tree, per
// spec §4.1 and §5.
type Driver struct {
	Env      *core.Environment
	Executor *process.Executor
	Pool     Pool
}

// NewDriver constructs a Driver with the given worker-pool size.
func NewDriver(env *core.Environment, executor *process.Executor, numWorkers int) *Driver {
	return &Driver{Env: env, Executor: executor, Pool: NewPool(numWorkers)}
}

// BuildProject drives a full build of a project tree: subprojects first
// (they share no dependencies with their parent's own targets, so order
// between them is immaterial to correctness), then the project's own
// targets level by level.
func (d *Driver) BuildProject(ctx context.Context, proj *core.Project) *Report {
	report := NewReport()
	for _, sub := range proj.Subprojects {
		report.Merge(d.BuildProject(ctx, sub))
	}
	report.Merge(d.buildTargets(ctx, proj.Targets))
	return report
}

// buildTargets drives the targets of a single project, already in
// topological order (spec §4.1's "walk"). It groups them into levels (a
// target's level is one more than the highest level among its
// dependencies) and, per spec §5, treats each level as a serial barrier:
// every target's link in a level completes before any dependant's compile
// begins, while independent targets within a level may compile (and link)
// concurrently.
func (d *Driver) buildTargets(ctx context.Context, targets []*core.Target) *Report {
	report := NewReport()
	levels := computeLevels(targets)
	failedOrSkipped := map[*core.Target]bool{}

	for _, level := range levels {
		var buildable []*core.Target
		for _, t := range level {
			if skippedDep := firstFailedDependency(t, failedOrSkipped); skippedDep != nil {
				t.Skipped = true
				failedOrSkipped[t] = true
				report.AddSkipped(t, skippedDep)
				continue
			}
			buildable = append(buildable, t)
		}

		d.compileLevel(ctx, buildable, report)
		for _, t := range buildable {
			if t.Unsuccessful {
				failedOrSkipped[t] = true
			}
		}

		d.linkLevel(ctx, buildable, report)
		for _, t := range buildable {
			if t.Unsuccessful {
				failedOrSkipped[t] = true
			}
		}
	}
	return report
}

// firstFailedDependency returns the first dependency of t that previously
// failed or was skipped, or nil if none did.
func firstFailedDependency(t *core.Target, failedOrSkipped map[*core.Target]bool) *core.Target {
	for _, dep := range t.Dependencies {
		if failedOrSkipped[dep] {
			return dep
		}
	}
	return nil
}

// computeLevels groups targets into topological levels: a target with no
// dependencies (within this slice) is level 0; otherwise it is one more
// than the deepest level among its dependencies.
func computeLevels(targets []*core.Target) [][]*core.Target {
	level := make(map[*core.Target]int, len(targets))
	var assign func(t *core.Target) int
	assign = func(t *core.Target) int {
		if l, ok := level[t]; ok {
			return l
		}
		l := 0
		for _, dep := range t.Dependencies {
			if dl := assign(dep); dl+1 > l {
				l = dl + 1
			}
		}
		level[t] = l
		return l
	}

	maxLevel := 0
	for _, t := range targets {
		if l := assign(t); l > maxLevel {
			maxLevel = l
		}
	}

	levels := make([][]*core.Target, maxLevel+1)
	for _, t := range targets {
		l := level[t]
		levels[l] = append(levels[l], t)
	}
	return levels
}

// compileLevel runs depfile generation then compilation for every
// Compilable target's stale source units across an entire topological
// level in two batched pool submissions, per spec §5's "collapse all
// compilations of independent targets at the same topological level into
// one pool submission" guidance. HeaderOnly targets are observable no-ops.
func (d *Driver) compileLevel(ctx context.Context, level []*core.Target, report *Report) {
	type job struct {
		target *core.Target
		unit   *core.SourceUnit
	}
	var jobs []job

	for _, t := range level {
		if t.Kind == core.KindHeaderOnly {
			log.Info("[%s]: header-only target does not require compiling", t.Identifier())
			continue
		}

		var staleUnits []*core.SourceUnit
		for _, unit := range t.Units {
			unit.NeedsRebuild = needsRebuild(unit, d.Env.ForceBuild)
			if unit.NeedsRebuild {
				staleUnits = append(staleUnits, unit)
			}
		}
		if len(staleUnits) == 0 {
			continue
		}

		if err := d.runBeforeCompileScript(ctx, t); err != nil {
			t.Unsuccessful = true
			report.AddError(t, err)
			continue
		}
		for _, unit := range staleUnits {
			jobs = append(jobs, job{target: t, unit: unit})
		}
	}
	if len(jobs) == 0 {
		return
	}

	depfileTasks := make([]func(context.Context) error, len(jobs))
	for i, j := range jobs {
		j := j
		depfileTasks[i] = func(ctx context.Context) error {
			return generateDepfile(ctx, d.Executor, j.target, j.unit)
		}
	}
	d.Pool.RunBestEffort(ctx, depfileTasks)

	var compileJobs []job
	for _, j := range jobs {
		if !j.unit.DepfileFailed {
			compileJobs = append(compileJobs, j)
		}
	}
	compileTasks := make([]func(context.Context) error, len(compileJobs))
	for i, j := range compileJobs {
		j := j
		compileTasks[i] = func(ctx context.Context) error {
			return compileSource(ctx, d.Executor, j.target, j.unit)
		}
	}
	d.Pool.RunBestEffort(ctx, compileTasks)

	for _, j := range jobs {
		if j.unit.DepfileFailed || j.unit.CompilationFailed {
			j.target.Unsuccessful = true
			report.AddError(j.target, &core.CompileError{Source: j.unit.Source, Output: j.unit.CompileReport})
		}
	}
}

// linkLevel links every Compilable target in the level that needs it
// (spec's "link always re-run if any source is recompiled"; otherwise
// skipped if the artifact already exists). Independent targets in a level
// link concurrently.
func (d *Driver) linkLevel(ctx context.Context, level []*core.Target, report *Report) {
	var tasks []func(context.Context) error
	linkErrs := make([]error, len(level))

	for i, t := range level {
		if t.Kind == core.KindHeaderOnly || t.Unsuccessful {
			if t.Kind == core.KindHeaderOnly {
				log.Info("[%s]: header-only target does not require linking", t.Identifier())
			}
			continue
		}
		hasRebuilt := false
		for _, u := range t.Units {
			if u.NeedsRebuild {
				hasRebuilt = true
				break
			}
		}
		if !hasRebuilt && core.PathExists(t.OutFile) {
			log.Info("[%s]: target is already built", t.Identifier())
			continue
		}
		i, t := i, t
		tasks = append(tasks, func(ctx context.Context) error {
			linkErrs[i] = d.linkOne(ctx, t)
			return linkErrs[i]
		})
	}

	d.Pool.RunBestEffort(ctx, tasks)
	// Each target's own error (link, script or filesystem) is attached to it.
	for i, t := range level {
		if linkErrs[i] != nil {
			report.AddError(t, linkErrs[i])
		}
	}
}

func (d *Driver) linkOne(ctx context.Context, t *core.Target) error {
	if err := d.runBeforeLinkScript(ctx, t); err != nil {
		t.Unsuccessful = true
		return err
	}

	if err := os.MkdirAll(t.OutputFolder, 0o755); err != nil {
		t.Unsuccessful = true
		return &core.FilesystemError{Path: t.OutputFolder, Err: err}
	}

	log.Info("[%s]: link -> %q", t.Identifier(), t.OutFile)
	result, err := d.Executor.Run(ctx, t.RootDirectory, t.LinkCommand)
	t.LinkOutput = result.Output
	if err != nil {
		t.Unsuccessful = true
		return &core.LinkError{Target: t.Identifier(), Output: result.Output, Err: err}
	}

	if err := d.runAfterBuildScript(ctx, t); err != nil {
		t.Unsuccessful = true
		return err
	}
	return nil
}
