package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/gcping/pkg/svc/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Regions []string          `json:"regions"`
	Ips     map[string]string `json:"ips"`
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "sandbox.json")
	want := sample{
		Regions: []string{"fsn1", "nbg1"},
		Ips:     map[string]string{"fsn1": "203.0.113.1"},
	}

	require.NoError(t, state.Save(path, want))

	var got sample

	require.NoError(t, state.Load(path, &got))
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	var got sample

	err := state.Load(filepath.Join(t.TempDir(), "missing.json"), &got)

	require.ErrorIs(t, err, state.ErrStateNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sandbox.json")
	require.NoError(t, state.Save(path, sample{}))

	require.NoError(t, state.Delete(path))
	require.NoError(t, state.Delete(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDefaultPath_RejectsTraversal(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "../escape", "a/b", `a\b`} {
		_, err := state.DefaultPath(name)
		require.ErrorIs(t, err, state.ErrInvalidStateName, name)
	}
}
