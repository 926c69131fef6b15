package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDepfileStripsTargetAndContinuations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.cpp.d")
	content := "build/obj/main.cpp.o: src/main.cpp \\\n  include/widget.h \\\n  include/base.h\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	prereqs, err := parseDepfile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.cpp", "include/widget.h", "include/base.h"}, prereqs)
}

func TestParseDepfileMissingFileErrors(t *testing.T) {
	_, err := parseDepfile(filepath.Join(t.TempDir(), "absent.d"))
	assert.Error(t, err)
}
