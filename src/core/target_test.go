package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) *Environment {
	t.Helper()
	platform, err := NewPlatform("linux")
	require.NoError(t, err)
	return &Environment{
		BuildType: Release,
		Platform:  platform,
	}
}

func TestNewTargetRejectsExecutableDependency(t *testing.T) {
	env := testEnv(t)

	exe, err := NewTarget(NewTargetParams{
		Env:            env,
		Name:           "tool",
		Config:         TargetConfig{TargetType: "executable"},
		RootDirectory:  "/proj",
		BuildDirectory: "/build/tool",
		Files:          DiscoveredFiles{SourceFiles: []string{"main.cpp"}},
	})
	require.NoError(t, err)

	_, err = NewTarget(NewTargetParams{
		Env:            env,
		Name:           "app",
		Config:         TargetConfig{TargetType: "executable"},
		RootDirectory:  "/proj",
		BuildDirectory: "/build/app",
		Files:          DiscoveredFiles{SourceFiles: []string{"app.cpp"}},
		Dependencies:   []*Target{exe},
	})
	require.Error(t, err)
	assert.IsType(t, &ConfigError{}, err)

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, configErr.Message, "executable")
}

func TestNewTargetNoSourcesBecomesHeaderOnly(t *testing.T) {
	env := testEnv(t)
	target, err := NewTarget(NewTargetParams{
		Env:            env,
		Name:           "iface",
		RootDirectory:  "/proj",
		BuildDirectory: "/build/iface",
		Files:          DiscoveredFiles{Headers: []string{"iface.h"}},
	})
	require.NoError(t, err)
	assert.Equal(t, KindHeaderOnly, target.Kind)
	assert.False(t, target.IsCompilable())
}

func TestNewTargetExplicitExecutableWithNoSourcesErrors(t *testing.T) {
	env := testEnv(t)
	_, err := NewTarget(NewTargetParams{
		Env:            env,
		Name:           "broken",
		Config:         TargetConfig{TargetType: "executable"},
		RootDirectory:  "/proj",
		BuildDirectory: "/build/broken",
		Files:          DiscoveredFiles{},
	})
	require.Error(t, err)
	assert.IsType(t, &ConfigError{}, err)
}

func TestComputeIncludesDeduplicates(t *testing.T) {
	env := testEnv(t)
	base, err := NewTarget(NewTargetParams{
		Env:            env,
		Name:           "base",
		RootDirectory:  "/proj/base",
		BuildDirectory: "/build/base",
		Files: DiscoveredFiles{
			Headers:                  []string{"base.h"},
			IncludeDirectoriesPublic: []string{"/proj/base/include"},
		},
	})
	require.NoError(t, err)

	app, err := NewTarget(NewTargetParams{
		Env:            env,
		Name:           "app",
		Config:         TargetConfig{TargetType: "executable"},
		RootDirectory:  "/proj/app",
		BuildDirectory: "/build/app",
		Files: DiscoveredFiles{
			SourceFiles:        []string{"app.cpp"},
			IncludeDirectories: []string{"/proj/base/include"}, // already visible via dep
		},
		Dependencies: []*Target{base},
	})
	require.NoError(t, err)

	count := 0
	for _, dir := range app.IncludeDirectories {
		if dir == mustAbs(t, "/proj/base/include") {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate include directories must be deduplicated")
}

func TestComputeFlagsStaticLibraryAbsorbsPublicNotInterface(t *testing.T) {
	env := testEnv(t)
	dep, err := NewTarget(NewTargetParams{
		Env:            env,
		Name:           "dep",
		Config: TargetConfig{
			TargetType: "static library",
			Options: NewMap(map[string]Value{
				"public-flags": NewMap(map[string]Value{
					"compile": NewSeq([]Value{NewScalar("-DPUBLIC_DEFINE")}),
				}),
				"interface-flags": NewMap(map[string]Value{
					"compile": NewSeq([]Value{NewScalar("-DINTERFACE_DEFINE")}),
				}),
			}),
		},
		RootDirectory:  "/proj/dep",
		BuildDirectory: "/build/dep",
		Files:          DiscoveredFiles{SourceFiles: []string{"dep.cpp"}},
	})
	require.NoError(t, err)

	lib, err := NewTarget(NewTargetParams{
		Env:            env,
		Name:           "lib",
		Config:         TargetConfig{TargetType: "static library"},
		RootDirectory:  "/proj/lib",
		BuildDirectory: "/build/lib",
		Files:          DiscoveredFiles{SourceFiles: []string{"lib.cpp"}},
		Dependencies:   []*Target{dep},
	})
	require.NoError(t, err)

	assert.Contains(t, lib.CompileFlags, "-DPUBLIC_DEFINE")
	assert.NotContains(t, lib.CompileFlags, "-DINTERFACE_DEFINE")
	assert.Contains(t, lib.CompileFlagsInterface, "-DINTERFACE_DEFINE")
}

func mustAbs(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	require.NoError(t, err)
	return abs
}
