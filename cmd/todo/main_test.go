package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReturnsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("id_scheme = \"sequential\"\n"), 0o644))

	err := run([]string{"-config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_ReturnsFlagError(t *testing.T) {
	assert.Error(t, run([]string{"-no-such-flag"}))
}
