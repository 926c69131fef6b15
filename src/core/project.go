package core

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/PythonWorkbench/clang-build/src/cli/logging"
)

var log = logging.Log

// Project is a named node owning a list of constructed targets and zero or
// more child subprojects, per spec §3.
type Project struct {
	Name           string
	BuildDirectory string
	Targets        []*Target // topologically ordered
	Subprojects    []*Project
}

// AllTargets returns every target owned by this project and, recursively,
// its subprojects.
func (p *Project) AllTargets() []*Target {
	targets := append([]*Target{}, p.Targets...)
	for _, sub := range p.Subprojects {
		targets = append(targets, sub.AllTargets()...)
	}
	return targets
}

// BuildProject recursively constructs a Project and its targets from a
// parsed ProjectConfig, per spec §4.1. multipleProjects is true for the
// whole tree whenever the top-level document defines any subprojects at
// all — it governs whether each project's build directory is namespaced
// under its own name.
func BuildProject(env *Environment, cfg ProjectConfig, multipleProjects bool) (*Project, error) {
	if cfg.Name == "" && len(cfg.TargetConfigs) > 0 && len(cfg.Subprojects) > 0 {
		return nil, &ConfigError{
			Project: cfg.Name,
			Message: "an anonymous project cannot define targets alongside subprojects at the same level",
		}
	}

	proj := &Project{Name: cfg.Name, BuildDirectory: env.BuildDir}
	if multipleProjects {
		proj.BuildDirectory = filepath.Join(env.BuildDir, cfg.Name)
	}

	for _, subCfg := range cfg.Subprojects {
		subEnv := *env
		subEnv.BuildDir = proj.BuildDirectory
		sub, err := BuildProject(&subEnv, subCfg, multipleProjects)
		if err != nil {
			return nil, err
		}
		proj.Subprojects = append(proj.Subprojects, sub)
	}

	if len(cfg.TargetConfigs) == 0 {
		return proj, nil
	}

	analysis := AnalyseDependencies(cfg.TargetOrder, cfg.TargetConfigs)
	if len(analysis.NonExistentDependencies) > 0 {
		var merr *multierror.Error
		for _, md := range analysis.NonExistentDependencies {
			merr = multierror.Append(merr, fmt.Errorf("in %s: the dependency %s does not point to a valid target", md.Target, md.Missing))
		}
		return nil, &ConfigError{Project: cfg.Name, Message: merr.Error()}
	}
	if len(analysis.CircularDependencies) > 0 {
		var merr *multierror.Error
		for _, c := range analysis.CircularDependencies {
			merr = multierror.Append(merr, fmt.Errorf("circular dependency: %s", c.String()))
		}
		return nil, &ConfigError{Project: cfg.Name, Message: merr.Error()}
	}

	multipleTargets := len(cfg.TargetConfigs) > 1
	constructed := make(map[string]*Target, len(cfg.TargetConfigs))

	for _, name := range analysis.Walk {
		targetCfg := cfg.TargetConfigs[name]

		targetBuildDir := proj.BuildDirectory
		if multipleTargets {
			targetBuildDir = filepath.Join(proj.BuildDirectory, name)
		}

		files, err := env.Discoverer.Discover(targetCfg.Options, env.WorkingDir, targetBuildDir)
		if err != nil {
			return nil, &ConfigError{Project: cfg.Name, Message: fmt.Sprintf("discovering sources for %q: %s", name, err)}
		}

		deps := make([]*Target, 0, len(targetCfg.Dependencies))
		for _, depName := range targetCfg.Dependencies {
			deps = append(deps, constructed[depName])
		}

		if normalizeTargetType(targetCfg.TargetType) == "header only" && len(files.SourceFiles) > 0 {
			log.Warning("source files found for header-only target %q; you may want to check your build configuration", name)
		} else if targetCfg.TargetType == "" && len(files.SourceFiles) == 0 {
			log.Info("no source files found for target %q; creating header-only target", name)
		}

		target, err := NewTarget(NewTargetParams{
			Env:            env,
			Project:        cfg.Name,
			Name:           name,
			Config:         targetCfg,
			RootDirectory:  env.WorkingDir,
			BuildDirectory: targetBuildDir,
			Files:          files,
			Dependencies:   deps,
		})
		if err != nil {
			return nil, err
		}

		resolveTestsAndExamples(env, target)

		constructed[name] = target
		proj.Targets = append(proj.Targets, target)
	}

	return proj, nil
}

// resolveTestsAndExamples detects the test/example source folders for a
// target, per spec §4.7. The secondary Executable targets themselves are
// synthesised lazily by build.ExpandTests/ExpandExamples once the primary
// target tree is fully built, but folder discovery happens here since it's
// otherwise-pure, input-only detection.
func resolveTestsAndExamples(env *Environment, t *Target) {
	for _, candidate := range []string{"test", "tests"} {
		dir := filepath.Join(t.RootDirectory, candidate)
		if pathIsDir(dir) {
			t.TestsFolder = dir
			break
		}
	}
	if t.TestsFolder == "" && env.Tests {
		if testsOpt, ok := t.Options.Get("tests"); ok {
			if _, ok := testsOpt.Get("sources"); ok {
				t.TestsFolder = t.RootDirectory
			}
		}
	}

	for _, candidate := range []string{"example", "examples"} {
		dir := filepath.Join(t.RootDirectory, candidate)
		if pathIsDir(dir) {
			t.ExamplesFolder = dir
			break
		}
	}
	if t.ExamplesFolder == "" && env.Examples {
		if examplesOpt, ok := t.Options.Get("examples"); ok {
			if _, ok := examplesOpt.Get("sources"); ok {
				t.ExamplesFolder = t.RootDirectory
			}
		}
	}
}
