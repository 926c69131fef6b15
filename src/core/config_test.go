package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigParsesTarget(t *testing.T) {
	doc := `
name = "widget"

[mylib]
target_type = "static library"
dependencies = ["other"]
`
	v, err := ReadConfig([]byte(doc))
	require.NoError(t, err)

	cfg, err := ParseProjectConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "widget", cfg.Name)
	require.Contains(t, cfg.TargetConfigs, "mylib")
	tc := cfg.TargetConfigs["mylib"]
	assert.Equal(t, "static library", tc.TargetType)
	assert.Equal(t, []string{"other"}, tc.Dependencies)
}

func TestReadConfigParsesSubprojects(t *testing.T) {
	doc := `
[[subproject]]
name = "vendor_lib"

[[subproject.mylib]]
target_type = "header only"
`
	v, err := ReadConfig([]byte(doc))
	require.NoError(t, err)

	cfg, err := ParseProjectConfig(v)
	require.NoError(t, err)
	require.Len(t, cfg.Subprojects, 1)
	assert.Equal(t, "vendor_lib", cfg.Subprojects[0].Name)
}

func TestBuildProjectRejectsAnonymousWithSiblingSubprojectsAndTargets(t *testing.T) {
	doc := `
[mylib]
target_type = "executable"

[[subproject]]
name = "vendor"
`
	v, err := ReadConfig([]byte(doc))
	require.NoError(t, err)

	cfg, err := ParseProjectConfig(v)
	require.NoError(t, err)

	_, err = BuildProject(&Environment{Discoverer: alwaysEmptyDiscoverer{}}, cfg, true)
	require.Error(t, err)
	assert.IsType(t, &ConfigError{}, err)
}

type alwaysEmptyDiscoverer struct{}

func (alwaysEmptyDiscoverer) Discover(options Value, root, buildDir string) (DiscoveredFiles, error) {
	return DiscoveredFiles{}, nil
}
