package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PythonWorkbench/clang-build/src/core"
)

// ExpandTests and ExpandExamples synthesise the secondary Executable
// targets described by spec §4.7, once the primary target tree for a
// project is fully constructed. They are a separate pass rather than part
// of core.NewTarget because a test/example target's dependency is the
// owning target itself — it cannot exist until the owner does.
//
// This also carries the fix for a missing_dependencies accumulator bug in
// the original example-expansion code (Design Note 4): every unresolved
// named example dependency is collected before raising a single
// *core.ConfigError listing all of them, rather than raising on (or
// silently dropping) the first one found.

func ExpandTests(env *core.Environment, proj *core.Project) error {
	byName := targetsByName(proj.Targets)
	for _, t := range proj.Targets {
		if t.TestsFolder == "" {
			continue
		}
		synthesised, err := expandSecondary(env, t, t.TestsFolder, "tests", byName)
		if err != nil {
			return err
		}
		t.TestTargets = synthesised
		proj.Targets = append(proj.Targets, synthesised...)
	}
	for _, sub := range proj.Subprojects {
		if err := ExpandTests(env, sub); err != nil {
			return err
		}
	}
	return nil
}

func ExpandExamples(env *core.Environment, proj *core.Project) error {
	byName := targetsByName(proj.Targets)
	for _, t := range proj.Targets {
		if t.ExamplesFolder == "" {
			continue
		}
		synthesised, err := expandSecondary(env, t, t.ExamplesFolder, "examples", byName)
		if err != nil {
			return err
		}
		t.ExampleTargets = synthesised
		proj.Targets = append(proj.Targets, synthesised...)
	}
	for _, sub := range proj.Subprojects {
		if err := ExpandExamples(env, sub); err != nil {
			return err
		}
	}
	return nil
}

func targetsByName(targets []*core.Target) map[string]*core.Target {
	m := make(map[string]*core.Target, len(targets))
	for _, t := range targets {
		m[t.Name] = t
	}
	return m
}

// expandSecondary builds the test or example Executables owned by t: one
// Executable per discovered source file (named "test_<stem>"/
// "example_<stem>"), or a single Executable combining all of them (named
// exactly "test"/"example") when options.<kind>.single_executable is set —
// which for tests is the default. Each synthesised target implicitly
// depends on t (unless t is itself an Executable, since an Executable can
// never be a valid dependency per Design Note 2), plus any extra
// dependencies named under options.<kind>.dependencies.
func expandSecondary(env *core.Environment, t *core.Target, folder, kind string, byName map[string]*core.Target) ([]*core.Target, error) {
	optsVal, _ := t.Options.Get(kind)

	files, err := env.Discoverer.Discover(optsVal, folder, filepath.Join(t.BuildDirectory, kind))
	if err != nil {
		return nil, &core.ConfigError{
			Project: t.Project,
			Message: fmt.Sprintf("discovering %s sources for %q: %s", kind, t.Identifier(), err),
		}
	}
	if len(files.SourceFiles) == 0 {
		return nil, nil
	}

	extraDepNames, err := optsVal.GetStringSeq("dependencies")
	if err != nil {
		return nil, &core.ConfigError{
			Project: t.Project,
			Message: fmt.Sprintf("%s.dependencies for %q must be a sequence of strings", kind, t.Identifier()),
		}
	}

	var missingDependencies []string
	deps := make([]*core.Target, 0, len(extraDepNames)+1)
	if t.Kind != core.KindExecutable {
		deps = append(deps, t)
	}
	for _, name := range extraDepNames {
		dep, ok := byName[name]
		if !ok {
			missingDependencies = append(missingDependencies, name)
			continue
		}
		deps = append(deps, dep)
	}
	if len(missingDependencies) > 0 {
		return nil, &core.ConfigError{
			Project: t.Project,
			Message: fmt.Sprintf("%s of %q reference undefined dependencies: %s",
				kind, t.Identifier(), strings.Join(missingDependencies, ", ")),
		}
	}

	// Tests default to a single combined executable named "test"; examples
	// have no single-executable mode in the original and default to one
	// executable per source file.
	singleExecutable := optsVal.GetBool("single_executable", kind == "tests")

	groups := map[string][]string{}
	if singleExecutable {
		groups[singularKind(kind)] = files.SourceFiles
	} else {
		for _, src := range files.SourceFiles {
			name := singularKind(kind) + "_" + strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			groups[name] = append(groups[name], src)
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sortStrings(names)

	synthesised := make([]*core.Target, 0, len(names))
	for _, name := range names {
		secondaryBuildDir := filepath.Join(t.BuildDirectory, kind, name)
		secondaryFiles := core.DiscoveredFiles{
			Headers:                  files.Headers,
			IncludeDirectories:       files.IncludeDirectories,
			IncludeDirectoriesPublic: files.IncludeDirectoriesPublic,
			SourceFiles:              groups[name],
		}
		target, err := core.NewTarget(core.NewTargetParams{
			Env:            env,
			Project:        t.Project,
			Name:           name,
			Config:         core.TargetConfig{Name: name, TargetType: "executable", Options: optsVal},
			RootDirectory:  folder,
			BuildDirectory: secondaryBuildDir,
			Files:          secondaryFiles,
			Dependencies:   deps,
		})
		if err != nil {
			return nil, err
		}
		synthesised = append(synthesised, target)
	}
	return synthesised, nil
}

// singularKind maps the option-group name ("tests"/"examples") onto the
// singular form the original uses for synthesised target names ("test",
// "test_<stem>", "example_<stem>").
func singularKind(kind string) string {
	return strings.TrimSuffix(kind, "s")
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
