package executil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealExecutor_Run(t *testing.T) {
	e := &RealExecutor{}
	out, err := e.Run("sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestRealExecutor_Run_StderrFallback(t *testing.T) {
	e := &RealExecutor{}
	out, err := e.Run("sh", "-c", "echo version 1.2 >&2")
	require.NoError(t, err)
	assert.Equal(t, "version 1.2\n", out)
}

func TestRealExecutor_Run_ErrorReturnsStderr(t *testing.T) {
	e := &RealExecutor{}
	out, err := e.Run("sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, "broken\n", out)
}

func TestRealExecutor_RunEnv(t *testing.T) {
	e := &RealExecutor{}
	out, err := e.RunEnv([]string{"PVECLI_TEST_VAR=42"}, "sh", "-c", "echo $PVECLI_TEST_VAR")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestRealExecutor_FileExists(t *testing.T) {
	e := &RealExecutor{}
	path := filepath.Join(t.TempDir(), "present")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	assert.True(t, e.FileExists(path))
	assert.False(t, e.FileExists(path+".absent"))
}

func TestMockExecutor_RecordsCalls(t *testing.T) {
	m := &MockExecutor{}
	m.Run("systemctl", "enable", "--now", "corosync")
	m.RunEnv([]string{"A=1"}, "apt-get", "update")

	require.Len(t, m.Calls, 2)
	assert.Equal(t, []string{"A=1"}, m.Calls[1].Env)
	assert.Equal(t, []string{
		"systemctl enable --now corosync",
		"apt-get update",
	}, m.CommandLines())
}
