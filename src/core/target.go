package core

import (
	"fmt"
	"path/filepath"
)

// Target is the single concrete representation of a buildable entity
// described in spec §3. Rather than four distinct Go types implementing a
// common interface, cbuild follows the teacher's style of one tagged
// struct (core.BuildTarget plays the same role in please, distinguishing
// e.g. IsBinary/IsTest by field rather than by subtype) with Kind
// selecting behaviour; HeaderOnly, Executable, SharedLibrary and
// StaticLibrary differ only in the values their fields take.
type Target struct {
	// Project is the name of the project that directly owns this target, or
	// "" for the anonymous root project. Names of enclosing projects are not
	// included.
	Project string
	Name    string
	Kind    ArtifactKind

	RootDirectory  string
	BuildDirectory string

	Headers                  []string
	IncludeDirectories       []string
	IncludeDirectoriesPublic []string

	Dialect string

	Dependencies []*Target

	// Flags applied to this target's own compile/link commands. Already
	// includes the base flags (§4.3), this target's private flags, any
	// flags absorbed from dependencies per the propagation table, and this
	// target's own public flags (public applies to self as well as being
	// forwarded).
	CompileFlags []string
	LinkFlags    []string
	// Flags forwarded to dependants that declare a dependency on this
	// target, per the propagation table in spec §4.3.
	CompileFlagsInterface []string
	LinkFlagsInterface    []string
	CompileFlagsPublic    []string
	LinkFlagsPublic       []string

	// Compilable-only fields; left at zero value for HeaderOnly.
	SourceFiles     []string
	Units           []*SourceUnit
	OutName         string
	OutFile         string
	OutputFolder    string
	ObjectDirectory string
	DepfileDirectory string
	LinkCommand     []string

	// Auxiliary-target discovery, populated at construction; secondary
	// targets are synthesised lazily by build.ExpandTests/ExpandExamples
	// (spec §4.7).
	TestsFolder      string
	ExamplesFolder   string
	TestDependencies []*Target
	TestTargets      []*Target
	ExampleTargets   []*Target

	BeforeCompileScript string
	BeforeLinkScript    string
	AfterBuildScript    string

	Options Value

	// Build status, mutated only by the orchestrator/worker pool during a
	// build, per the ownership-partitioned concurrency model of spec §5.
	Unsuccessful bool
	Skipped      bool
	LinkOutput   string
}

// Identifier returns "project.name", where project is the directly owning
// project only, or just "name" if the target belongs to the anonymous root
// project.
func (t *Target) Identifier() string {
	if t.Project == "" {
		return t.Name
	}
	return t.Project + "." + t.Name
}

func (t *Target) String() string { return t.Identifier() }

// IsCompilable reports whether this target produces object files and a
// linked artifact (spec GLOSSARY: Compilable).
func (t *Target) IsCompilable() bool { return t.Kind != KindHeaderOnly }

// NewTargetParams bundles the inputs to NewTarget; there are enough of them
// that positional arguments would be unreadable.
type NewTargetParams struct {
	Env            *Environment
	Project        string
	Name           string
	Config         TargetConfig
	RootDirectory  string
	BuildDirectory string
	Files          DiscoveredFiles
	Dependencies   []*Target
}

// NewTarget constructs a Target from its resolved inputs: all flag and
// include-directory propagation, command-line assembly and naming happens
// here, and nothing is written to disk. The one process it may spawn is
// the dialect probe (env.DialectProber), run when no cpp_version property
// is set; apart from that, no process runs until Compile/Link.
func NewTarget(p NewTargetParams) (*Target, error) {
	kind, err := resolveKind(p.Config, p.Files)
	if err != nil {
		return nil, err
	}

	for _, dep := range p.Dependencies {
		if dep.Kind == KindExecutable {
			return nil, &ConfigError{
				Project: p.Project,
				Message: (&BadDependencyKindError{Target: p.Name, Dependency: dep.Name}).Error(),
			}
		}
	}

	t := &Target{
		Project:        p.Project,
		Name:           p.Name,
		Kind:           kind,
		RootDirectory:  p.RootDirectory,
		BuildDirectory: p.BuildDirectory,
		Headers:        dedupeStrings(p.Files.Headers),
		Dependencies:   p.Dependencies,
		Options:        p.Config.Options,
	}

	t.computeIncludes(p.Files)
	t.computeDialect(p.Env, p.Config)
	t.computeFlags(p.Env, p.Config)
	t.computeScripts()

	if kind == KindHeaderOnly {
		return t, nil
	}

	if len(p.Files.SourceFiles) == 0 {
		return nil, &ConfigError{
			Project: p.Project,
			Message: fmt.Sprintf("target %q was defined as a %s but no source files were found", p.Name, kind),
		}
	}
	t.SourceFiles = p.Files.SourceFiles

	outName := p.Config.OutputName
	if outName == "" {
		outName = p.Name
	}
	t.OutName = outName

	naming := p.Env.Platform.Naming(kind)
	t.ObjectDirectory = filepath.Join(p.BuildDirectory, "obj")
	t.DepfileDirectory = filepath.Join(p.BuildDirectory, "dep")
	t.OutputFolder = filepath.Join(p.BuildDirectory, naming.OutputDir)
	t.OutFile = filepath.Join(t.OutputFolder, naming.Prefix+outName+naming.Suffix)

	t.buildSourceUnits(p.Env, naming)
	t.buildLinkCommand(p.Env)

	return t, nil
}

// resolveKind selects the ArtifactKind per spec §4.1's variant-selection
// rules: an explicit target_type wins (case-insensitively); otherwise
// HeaderOnly is chosen when no source files were found, Executable
// otherwise. "header only" with non-empty sources is accepted with a
// warning logged by the caller (project.go), not here.
func resolveKind(c TargetConfig, files DiscoveredFiles) (ArtifactKind, error) {
	switch normalizeTargetType(c.TargetType) {
	case "executable":
		return KindExecutable, nil
	case "shared library":
		return KindSharedLibrary, nil
	case "static library":
		return KindStaticLibrary, nil
	case "header only":
		return KindHeaderOnly, nil
	case "":
		if len(files.SourceFiles) == 0 {
			return KindHeaderOnly, nil
		}
		return KindExecutable, nil
	default:
		return 0, &ConfigError{Message: fmt.Sprintf("unsupported target_type: %q", c.TargetType)}
	}
}

func normalizeTargetType(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

func (t *Target) computeIncludes(files DiscoveredFiles) {
	includes := append([]string{}, files.IncludeDirectories...)
	includes = append(includes, files.IncludeDirectoriesPublic...)
	includesPublic := append([]string{}, files.IncludeDirectoriesPublic...)

	for _, dep := range t.Dependencies {
		if dep.Kind == KindHeaderOnly {
			includes = append(includes, dep.IncludeDirectories...)
		}
		includes = append(includes, dep.IncludeDirectoriesPublic...)
		includesPublic = append(includesPublic, dep.IncludeDirectoriesPublic...)
	}

	t.IncludeDirectories = dedupeResolved(includes)
	t.IncludeDirectoriesPublic = dedupeResolved(includesPublic)
}

// dedupeResolved removes duplicates after resolving to absolute, cleaned
// paths, per spec invariant 4 ("the set of include directories is
// duplicate-free after resolution").
func dedupeResolved(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
	}
	return out
}

func (t *Target) computeDialect(env *Environment, c TargetConfig) {
	if propsVal, ok := c.Options.Get("properties"); ok {
		if dialect, err := propsVal.GetString("cpp_version"); err == nil && dialect != "" {
			t.Dialect = "-std=c++" + dialect
			return
		}
	}
	if env.DialectProber != nil {
		if dialect, err := env.DialectProber.MaxDialect(env.CppDriver); err == nil {
			t.Dialect = dialect
			return
		}
	}
	t.Dialect = "-std=c++17"
}

// computeFlags implements the layered flag model of spec §4.3: base
// defaults, own private/interface/public flags, and absorption from
// dependencies per the propagation table.
func (t *Target) computeFlags(env *Environment, c TargetConfig) {
	compile := baseFlagsFor(env.BuildType)
	var link []string

	cf, lf := parseFlagsOptions(c.Options, "flags", env.BuildType, env.Platform.Name)
	compile = append(compile, cf...)
	link = append(link, lf...)
	compile = append(compile, env.ExtraCompileFlags...)

	var compileInterface, linkInterface, compilePublic, linkPublic []string

	for _, dep := range t.Dependencies {
		switch t.Kind {
		case KindHeaderOnly:
			compileInterface = append(compileInterface, dep.CompileFlagsInterface...)
			linkInterface = append(linkInterface, dep.LinkFlagsInterface...)
			compilePublic = append(compilePublic, dep.CompileFlagsPublic...)
			linkPublic = append(linkPublic, dep.LinkFlagsPublic...)
		case KindStaticLibrary:
			compileInterface = append(compileInterface, dep.CompileFlagsInterface...)
			linkInterface = append(linkInterface, dep.LinkFlagsInterface...)
			compile = append(compile, dep.CompileFlagsPublic...)
			link = append(link, dep.LinkFlagsPublic...)
		default: // Executable, SharedLibrary
			compile = append(compile, dep.CompileFlagsInterface...)
			link = append(link, dep.LinkFlagsInterface...)
			compile = append(compile, dep.CompileFlagsPublic...)
			link = append(link, dep.LinkFlagsPublic...)
		}
	}

	compile = dedupeStrings(compile)

	icf, ilf := parseFlagsOptions(c.Options, "interface-flags", env.BuildType, env.Platform.Name)
	compileInterface = append(compileInterface, icf...)
	linkInterface = append(linkInterface, ilf...)

	pcf, plf := parseFlagsOptions(c.Options, "public-flags", env.BuildType, env.Platform.Name)
	compile = append(compile, pcf...)
	link = append(link, plf...)
	compilePublic = append(compilePublic, pcf...)
	linkPublic = append(linkPublic, plf...)

	t.CompileFlags = compile
	t.LinkFlags = link
	t.CompileFlagsInterface = compileInterface
	t.LinkFlagsInterface = linkInterface
	t.CompileFlagsPublic = compilePublic
	t.LinkFlagsPublic = linkPublic
}

func (t *Target) computeScripts() {
	scriptsVal, ok := t.Options.Get("scripts")
	if !ok {
		return
	}
	t.BeforeCompileScript, _ = scriptsVal.GetString("before_compile")
	t.BeforeLinkScript, _ = scriptsVal.GetString("before_link")
	t.AfterBuildScript, _ = scriptsVal.GetString("after_build")
}
