package build

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/PythonWorkbench/clang-build/src/core"
)

// Failure records one target's build failure, with the error that caused
// it (a *core.CompileError, *core.LinkError or *core.ScriptError).
type Failure struct {
	Target string
	Err    error
}

// Skip records a target that was never attempted because a dependency
// failed or was itself skipped.
type Skip struct {
	Target string
	Cause  string
}

// Report accumulates the outcome of a build across every target touched,
// and classifies it into the exit code taxonomy of spec §6.4.
type Report struct {
	Failures []Failure
	Skips    []Skip
	started  time.Time
}

// NewReport returns an empty report with its clock started.
func NewReport() *Report {
	return &Report{started: time.Now()}
}

// AddError records a target failure and logs it immediately so the user
// sees it as soon as it happens, not only in the final summary.
func (r *Report) AddError(t *core.Target, err error) {
	t.Unsuccessful = true
	log.Error("[%s]: %s", t.Identifier(), err)
	r.Failures = append(r.Failures, Failure{Target: t.Identifier(), Err: err})
}

// AddSkipped records a target that was skipped because cause failed or
// was itself skipped.
func (r *Report) AddSkipped(t *core.Target, cause *core.Target) {
	log.Warning("[%s]: skipped, depends on failed target %s", t.Identifier(), cause.Identifier())
	r.Skips = append(r.Skips, Skip{Target: t.Identifier(), Cause: cause.Identifier()})
}

// Merge folds another report's failures and skips into r and returns r,
// so callers can chain report.Merge(d.BuildProject(ctx, sub)).
func (r *Report) Merge(other *Report) *Report {
	if other == nil {
		return r
	}
	r.Failures = append(r.Failures, other.Failures...)
	r.Skips = append(r.Skips, other.Skips...)
	return r
}

// ExitCode classifies the report into spec §6.4's taxonomy: any failure
// is a build failure; skips alone (no target actually failed, e.g. a
// cancelled run) still count as a build failure since the build did not
// complete as requested.
func (r *Report) ExitCode() core.ExitCode {
	if len(r.Failures) > 0 || len(r.Skips) > 0 {
		return core.ExitBuildFailure
	}
	return core.ExitSuccess
}

// Summary renders a human-readable build summary: counts of failed and
// skipped targets and the wall-clock time spent, in the spirit of
// please's end-of-build report line.
func (r *Report) Summary() string {
	elapsed := time.Since(r.started)
	if len(r.Failures) == 0 && len(r.Skips) == 0 {
		return fmt.Sprintf("build succeeded in %s", elapsed.Round(time.Millisecond))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "build failed in %s: %s failed, %s skipped\n",
		elapsed.Round(time.Millisecond),
		humanize.Comma(int64(len(r.Failures))),
		humanize.Comma(int64(len(r.Skips))),
	)
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "  %s: %s\n", f.Target, f.Err)
	}
	for _, s := range r.Skips {
		fmt.Fprintf(&b, "  %s: skipped (depends on failed %s)\n", s.Target, s.Cause)
	}
	return strings.TrimRight(b.String(), "\n")
}
