// Package build implements the orchestrator that drives compilation and
// linking of a constructed project tree: incremental per-source staleness
// decisions, the worker pool, and the serial link barrier between
// topological levels (spec §4.1, §4.5, §5).
package build

import (
	"os"

	"github.com/PythonWorkbench/clang-build/src/cli/logging"
	"github.com/PythonWorkbench/clang-build/src/core"
)

var log = logging.Log

// needsRebuild implements spec §4.5's staleness decision for one
// SourceUnit:
//   - object file absent -> rebuild
//   - depfile absent -> rebuild (and it will be regenerated)
//   - otherwise, rebuild iff any listed prerequisite is missing or newer
//     than the object file
//   - force_build always rebuilds
func needsRebuild(unit *core.SourceUnit, forceBuild bool) bool {
	if forceBuild {
		return true
	}
	objInfo, err := os.Stat(unit.ObjectFile)
	if err != nil {
		return true
	}
	if _, err := os.Stat(unit.DepFile); err != nil {
		return true
	}
	prereqs, err := parseDepfile(unit.DepFile)
	if err != nil {
		return true
	}
	for _, prereq := range prereqs {
		info, err := os.Stat(prereq)
		if err != nil {
			return true // prerequisite is missing
		}
		if info.ModTime().After(objInfo.ModTime()) {
			return true
		}
	}
	return false
}
