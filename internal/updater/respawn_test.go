package updater

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildAlive(t *testing.T) {
	ctx := context.Background()

	exe, err := os.Executable()
	require.NoError(t, err)
	assert.True(t, childAlive(ctx, int32(os.Getpid()), exe))

	missing := filepath.Join(t.TempDir(), "start-page-service")
	require.NoError(t, os.WriteFile(missing, []byte("#!/bin/sh\n"), 0755))
	assert.False(t, childAlive(ctx, 999999999, missing))
}

func TestSameFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(a, nil, 0644))

	assert.True(t, sameFile(a, filepath.Join(dir, ".", "a")))
	assert.False(t, sameFile(a, filepath.Join(dir, "b")))
}
