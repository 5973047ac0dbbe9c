// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		assert.Equal(t, "/custom/config/signplot", ConfigDir())
	})

	t.Run("falls back to ~/.config", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/test")
		assert.Equal(t, "/home/test/.config/signplot", ConfigDir())
	})
}

func TestDataDir(t *testing.T) {
	t.Run("uses XDG_DATA_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/custom/data")
		assert.Equal(t, "/custom/data/signplot", DataDir())
	})

	t.Run("falls back to ~/.local/share", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		t.Setenv("HOME", "/home/test")
		assert.Equal(t, "/home/test/.local/share/signplot", DataDir())
	})
}

func TestDefaultConfigFile(t *testing.T) {
	t.Run("returns path when the file exists", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)

		appDir := filepath.Join(dir, "signplot")
		require.NoError(t, os.MkdirAll(appDir, 0o700))
		path := filepath.Join(appDir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log:\n  format: text\n"), 0o600))

		assert.Equal(t, path, DefaultConfigFile())
	})

	t.Run("returns empty when absent", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		assert.Empty(t, DefaultConfigFile())
	})
}

func TestEnsureDir(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "c")
		require.NoError(t, EnsureDir(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	})

	t.Run("succeeds when the directory exists", func(t *testing.T) {
		dir := t.TempDir()
		assert.NoError(t, EnsureDir(dir))
	})
}
