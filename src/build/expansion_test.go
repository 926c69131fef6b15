package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PythonWorkbench/clang-build/src/core"
	"github.com/PythonWorkbench/clang-build/src/discover"
)

func writeTestSource(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("int main() { return 0; }\n"), 0o644))
}

func testExpansionEnv(t *testing.T) *core.Environment {
	t.Helper()
	platform, err := core.NewPlatform("linux")
	require.NoError(t, err)
	return &core.Environment{Platform: platform, Discoverer: discover.New(), Tests: true, Examples: true}
}

func TestExpandTestsOneExecutablePerSourceFile(t *testing.T) {
	root := t.TempDir()
	writeTestSource(t, filepath.Join(root, "tests", "test_foo.cpp"))
	writeTestSource(t, filepath.Join(root, "tests", "test_bar.cpp"))

	env := testExpansionEnv(t)
	owner, err := core.NewTarget(core.NewTargetParams{
		Env:            env,
		Name:           "widget",
		RootDirectory:  root,
		BuildDirectory: filepath.Join(root, "build"),
		Files:          core.DiscoveredFiles{Headers: []string{"widget.h"}},
		Config: core.TargetConfig{
			Options: core.NewMap(map[string]core.Value{
				"tests": core.NewMap(map[string]core.Value{
					"single_executable": core.NewScalar("false"),
				}),
			}),
		},
	})
	require.NoError(t, err)
	owner.TestsFolder = filepath.Join(root, "tests")

	proj := &core.Project{Targets: []*core.Target{owner}}
	require.NoError(t, ExpandTests(env, proj))

	require.Len(t, owner.TestTargets, 2)
	for _, tt := range owner.TestTargets {
		assert.Equal(t, core.KindExecutable, tt.Kind)
		assert.True(t, strings.HasPrefix(tt.Name, "test_"))
		require.Len(t, tt.Dependencies, 1)
		assert.Same(t, owner, tt.Dependencies[0])
	}
}

func TestExpandTestsSingleExecutableIsTheDefault(t *testing.T) {
	root := t.TempDir()
	writeTestSource(t, filepath.Join(root, "tests", "test_foo.cpp"))
	writeTestSource(t, filepath.Join(root, "tests", "test_bar.cpp"))

	env := testExpansionEnv(t)
	owner, err := core.NewTarget(core.NewTargetParams{
		Env:            env,
		Name:           "widget",
		RootDirectory:  root,
		BuildDirectory: filepath.Join(root, "build"),
		Files:          core.DiscoveredFiles{Headers: []string{"widget.h"}},
	})
	require.NoError(t, err)
	owner.TestsFolder = filepath.Join(root, "tests")

	proj := &core.Project{Targets: []*core.Target{owner}}
	require.NoError(t, ExpandTests(env, proj))

	require.Len(t, owner.TestTargets, 1)
	assert.Equal(t, "test", owner.TestTargets[0].Name)
	assert.Len(t, owner.TestTargets[0].SourceFiles, 2)
}

func TestExpandExamplesReportsAllMissingDependencies(t *testing.T) {
	root := t.TempDir()
	writeTestSource(t, filepath.Join(root, "examples", "ex1.cpp"))

	env := testExpansionEnv(t)
	owner, err := core.NewTarget(core.NewTargetParams{
		Env:            env,
		Name:           "widget",
		RootDirectory:  root,
		BuildDirectory: filepath.Join(root, "build"),
		Files:          core.DiscoveredFiles{Headers: []string{"widget.h"}},
		Config: core.TargetConfig{
			Options: core.NewMap(map[string]core.Value{
				"examples": core.NewMap(map[string]core.Value{
					"dependencies": core.NewSeq([]core.Value{
						core.NewScalar("missing_one"),
						core.NewScalar("missing_two"),
					}),
				}),
			}),
		},
	})
	require.NoError(t, err)
	owner.ExamplesFolder = filepath.Join(root, "examples")

	proj := &core.Project{Targets: []*core.Target{owner}}
	err = ExpandExamples(env, proj)
	require.Error(t, err)
	var configErr *core.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, configErr.Message, "missing_one")
	assert.Contains(t, configErr.Message, "missing_two")
}
