package core

// BuildType is the build configuration a project is compiled under. It
// selects the default compile flags applied to every Compilable target.
type BuildType int

// The build types recognised by cbuild. Zero value is Release so an
// Environment constructed without explicit configuration still behaves
// sensibly.
const (
	Release BuildType = iota
	Debug
	RelWithDebInfo
	Coverage
)

// String returns the lower-case config-file spelling of the build type.
func (b BuildType) String() string {
	switch b {
	case Debug:
		return "debug"
	case RelWithDebInfo:
		return "relwithdebinfo"
	case Coverage:
		return "coverage"
	default:
		return "release"
	}
}

// ParseBuildType maps a config-file string onto a BuildType, defaulting to
// Release for anything unrecognised.
func ParseBuildType(s string) BuildType {
	switch s {
	case "debug", "Debug":
		return Debug
	case "relwithdebinfo", "RelWithDebInfo":
		return RelWithDebInfo
	case "coverage", "Coverage":
		return Coverage
	default:
		return Release
	}
}

// Environment is the process-wide configuration bag described in spec §3.
// It is set up once before any target is constructed and is read-only
// thereafter; nothing under Project/Target construction mutates it.
type Environment struct {
	// WorkingDir is the root the config document was read from.
	WorkingDir string
	// BuildDir is the top-level build output directory.
	BuildDir string
	BuildType BuildType

	// CDriver and CppDriver are the clang-compatible compiler invocations
	// for C and C++ sources respectively.
	CDriver   string
	CppDriver string
	// Archiver is the static-library archiver (e.g. llvm-ar).
	Archiver string

	// ForceBuild makes every SourceUnit rebuild unconditionally.
	ForceBuild bool
	// ExtraCompileFlags are appended to every Compilable target's compile
	// flags, e.g. from a command-line override.
	ExtraCompileFlags []string
	// Tests and Examples gate whether §4.7 secondary targets are synthesised.
	Tests    bool
	Examples bool
	// ProgressDisabled suppresses the progress-reporting sink.
	ProgressDisabled bool

	Platform Platform

	Discoverer     Discoverer
	DialectProber  DialectProber
	Executor       ScriptExecutor
}

// Discoverer is the source/header discovery collaborator of spec §6.1.
type Discoverer interface {
	Discover(options Value, root, buildDir string) (DiscoveredFiles, error)
}

// DiscoveredFiles is the result of running a Discoverer over a target's
// root directory.
type DiscoveredFiles struct {
	Headers                   []string
	IncludeDirectories        []string
	IncludeDirectoriesPublic  []string
	SourceFiles               []string
}

// DialectProber implements spec §6.1's max_dialect(driver) collaborator.
type DialectProber interface {
	MaxDialect(driverPath string) (string, error)
}

// ScriptExecutor runs a user pre/post-build script as an external process,
// per Design Note 9: scripts are never executed in-process.
type ScriptExecutor interface {
	RunScript(scriptPath, workingDir string) (output string, err error)
}
