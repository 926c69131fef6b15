package build

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PythonWorkbench/clang-build/src/core"
)

func writeWithTime(t *testing.T, path string, when time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, when, when))
}

func TestNeedsRebuildWhenObjectFileAbsent(t *testing.T) {
	dir := t.TempDir()
	unit := &core.SourceUnit{
		Source:     filepath.Join(dir, "main.cpp"),
		ObjectFile: filepath.Join(dir, "obj", "main.cpp.o"),
		DepFile:    filepath.Join(dir, "dep", "main.cpp.d"),
	}
	assert.True(t, needsRebuild(unit, false))
}

func TestNeedsRebuildWhenForced(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeWithTime(t, filepath.Join(dir, "main.cpp"), base)
	unit := &core.SourceUnit{
		Source:     filepath.Join(dir, "main.cpp"),
		ObjectFile: filepath.Join(dir, "obj", "main.cpp.o"),
		DepFile:    filepath.Join(dir, "dep", "main.cpp.d"),
	}
	writeWithTime(t, unit.ObjectFile, base.Add(time.Minute))
	require.NoError(t, os.MkdirAll(filepath.Dir(unit.DepFile), 0o755))
	require.NoError(t, os.WriteFile(unit.DepFile, []byte(unit.ObjectFile+": "+unit.Source+"\n"), 0o644))
	require.NoError(t, os.Chtimes(unit.DepFile, base.Add(time.Minute), base.Add(time.Minute)))

	assert.False(t, needsRebuild(unit, false))
	assert.True(t, needsRebuild(unit, true))
}

func TestNeedsRebuildWhenPrerequisiteNewerThanObject(t *testing.T) {
	dir := t.TempDir()
	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	source := filepath.Join(dir, "main.cpp")
	header := filepath.Join(dir, "widget.h")
	obj := filepath.Join(dir, "obj", "main.cpp.o")
	dep := filepath.Join(dir, "dep", "main.cpp.d")

	writeWithTime(t, source, older)
	writeWithTime(t, obj, older)
	writeWithTime(t, header, newer) // header touched after the object was built

	require.NoError(t, os.MkdirAll(filepath.Dir(dep), 0o755))
	require.NoError(t, os.WriteFile(dep, []byte(obj+": "+source+" "+header+"\n"), 0o644))
	require.NoError(t, os.Chtimes(dep, older, older))

	unit := &core.SourceUnit{Source: source, ObjectFile: obj, DepFile: dep}
	assert.True(t, needsRebuild(unit, false))
}

func TestNeedsRebuildUpToDate(t *testing.T) {
	dir := t.TempDir()
	earlier := time.Now().Add(-time.Hour)
	later := time.Now().Add(-time.Minute)

	source := filepath.Join(dir, "main.cpp")
	obj := filepath.Join(dir, "obj", "main.cpp.o")
	dep := filepath.Join(dir, "dep", "main.cpp.d")

	writeWithTime(t, source, earlier)
	require.NoError(t, os.MkdirAll(filepath.Dir(dep), 0o755))
	require.NoError(t, os.WriteFile(dep, []byte(obj+": "+source+"\n"), 0o644))
	require.NoError(t, os.Chtimes(dep, later, later))
	writeWithTime(t, obj, later)

	unit := &core.SourceUnit{Source: source, ObjectFile: obj, DepFile: dep}
	assert.False(t, needsRebuild(unit, false))
}
