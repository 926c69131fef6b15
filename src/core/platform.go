package core

import (
	"fmt"
	"runtime"
)

// ArtifactKind distinguishes the four kinds of build entity described in
// spec §3.
type ArtifactKind int

const (
	KindHeaderOnly ArtifactKind = iota
	KindExecutable
	KindSharedLibrary
	KindStaticLibrary
)

func (k ArtifactKind) String() string {
	switch k {
	case KindExecutable:
		return "executable"
	case KindSharedLibrary:
		return "shared library"
	case KindStaticLibrary:
		return "static library"
	default:
		return "header only"
	}
}

// artifactNaming holds the prefix, suffix, output directory and extra
// compile flags for one artifact kind on one platform, per spec §4.6.
type artifactNaming struct {
	Prefix     string
	Suffix     string
	OutputDir  string
	ExtraFlags []string
}

// Platform is the process-wide immutable record of OS-specific constants
// from spec §4.6. It is threaded through Environment rather than held as a
// package-level global, per Design Note 6.
type Platform struct {
	Name string

	executable    artifactNaming
	sharedLibrary artifactNaming
	staticLibrary artifactNaming
}

// Naming returns the prefix/suffix/output-dir/extra-flags quadruple for the
// given artifact kind. HeaderOnly has no artifact and is not valid here.
func (p Platform) Naming(kind ArtifactKind) artifactNaming {
	switch kind {
	case KindExecutable:
		return p.executable
	case KindSharedLibrary:
		return p.sharedLibrary
	case KindStaticLibrary:
		return p.staticLibrary
	default:
		panic("core: Naming called with KindHeaderOnly, which has no artifact")
	}
}

// NewPlatform resolves the Platform for the given GOOS-style name ("linux",
// "darwin"/"osx", "windows"). An unrecognised OS is a fatal startup error
// per spec §4.6.
func NewPlatform(goos string) (Platform, error) {
	switch goos {
	case "linux":
		return Platform{
			Name:          "linux",
			executable:    artifactNaming{Prefix: "", Suffix: "", OutputDir: "bin"},
			sharedLibrary: artifactNaming{Prefix: "lib", Suffix: ".so", OutputDir: "lib"},
			staticLibrary: artifactNaming{Prefix: "lib", Suffix: ".a", OutputDir: "lib"},
		}, nil
	case "darwin", "osx":
		return Platform{
			Name:          "osx",
			executable:    artifactNaming{Prefix: "", Suffix: "", OutputDir: "bin"},
			sharedLibrary: artifactNaming{Prefix: "lib", Suffix: ".dylib", OutputDir: "lib"},
			staticLibrary: artifactNaming{Prefix: "lib", Suffix: ".a", OutputDir: "lib"},
		}, nil
	case "windows":
		return Platform{
			Name:          "windows",
			executable:    artifactNaming{Prefix: "", Suffix: ".exe", OutputDir: "bin"},
			sharedLibrary: artifactNaming{Prefix: "", Suffix: ".dll", OutputDir: "bin"},
			staticLibrary: artifactNaming{Prefix: "", Suffix: ".lib", OutputDir: "lib"},
		}, nil
	default:
		return Platform{}, fmt.Errorf("platform %q is currently not supported", goos)
	}
}

// HostPlatform resolves the Platform for the OS cbuild is currently running
// on, mapping Go's GOOS spelling ("darwin") onto the config-file spelling
// ("osx") used in spec §6.2's [osx]/[windows]/[linux] override blocks.
func HostPlatform() (Platform, error) {
	goos := runtime.GOOS
	if goos == "darwin" {
		goos = "osx"
	}
	return NewPlatform(goos)
}
