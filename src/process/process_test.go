package process

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesOutputOnSuccess(t *testing.T) {
	e := New()
	result, err := e.Run(context.Background(), "", []string{"echo", "hello"})
	require.NoError(t, err)
	assert.Contains(t, result.Output, "hello")
	assert.Equal(t, 0, result.ExitCode)
}

func TestRunReportsNonZeroExit(t *testing.T) {
	e := New()
	result, err := e.Run(context.Background(), "", []string{"sh", "-c", "exit 3"})
	require.Error(t, err)
	assert.Equal(t, 3, result.ExitCode)
}

func TestRunScriptDelegatesToRun(t *testing.T) {
	e := New()
	output, err := e.RunScript("/bin/echo", "")
	require.NoError(t, err)
	assert.Equal(t, "\n", output)
}
