// Package dialect implements the compiler dialect probe of spec §6.1: the
// highest "-std=c++NN" a driver accepts.
package dialect

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/PythonWorkbench/clang-build/src/process"
)

// knownDialects lists the C++ dialects cbuild knows to probe for, newest
// first, expressed as bare major versions so they can be compared with
// github.com/Masterminds/semver/v3 the same way please compares tool
// versions elsewhere in the pack.
var knownDialects = []string{"23", "20", "17", "14", "11"}

// Prober is the default DialectProber implementation.
type Prober struct {
	Executor *process.Executor
}

// New returns a ready-to-use Prober.
func New(executor *process.Executor) *Prober {
	return &Prober{Executor: executor}
}

// MaxDialect implements core.DialectProber: it invokes driver as
// `<driver> -x c++ -std=c++NN -E -` against an empty input for each known
// dialect, newest first, and returns the first one that exits zero.
func (p *Prober) MaxDialect(driverPath string) (string, error) {
	versions := make([]*semver.Version, 0, len(knownDialects))
	byVersion := map[string]string{}
	for _, d := range knownDialects {
		v, err := semver.NewVersion(d)
		if err != nil {
			continue
		}
		versions = append(versions, v)
		byVersion[v.String()] = d
	}
	sort.Sort(sort.Reverse(semver.Collection(versions)))

	for _, v := range versions {
		d := byVersion[v.Original()]
		if d == "" {
			d = byVersion[v.String()]
		}
		dialectFlag := "-std=c++" + d
		argv := []string{driverPath, "-x", "c++", dialectFlag, "-E", "-"}
		result, err := p.Executor.Run(context.Background(), "", argv)
		if err == nil && result.ExitCode == 0 {
			return dialectFlag, nil
		}
	}
	return "", fmt.Errorf("driver %s does not accept any known -std=c++NN dialect", driverPath)
}

// GetDialectString converts a user-specified cpp_version property (e.g.
// "17" or "c++17") into the "-std=c++NN" form the compiler expects.
func GetDialectString(version string) string {
	version = strings.TrimPrefix(version, "c++")
	return "-std=c++" + version
}
