package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfgFile string
	}{
		{"config file specified", "/test/config.yaml"},
		{"no config file specified", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.cfgFile
			assert.NotPanics(t, initConfig)
		})
	}
	cfgFile = ""
}

func TestCheckWritePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(oldDir)

	assert.True(t, checkWritePermissions())

	// The probe file must not be left behind.
	_, err = os.Stat(filepath.Join(tmpDir, ".repodoc_test_write"))
	assert.True(t, os.IsNotExist(err))
}

func TestCheckCacheDir(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  bool
	}{
		{
			name: "directory exists",
			setup: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "cache")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			want: true,
		},
		{
			name: "directory missing",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "cache")
			},
			want: false,
		},
		{
			name: "path is a file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "cache")
				require.NoError(t, os.WriteFile(path, nil, 0644))
				return path
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkCacheDir(tt.setup(t)))
		})
	}
}

func TestCommandWiring(t *testing.T) {
	assert.Equal(t, "repodoc [url]", rootCmd.Use)

	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "doctor")
	assert.Contains(t, names, "version")
	assert.Contains(t, names, "config")
}

func TestVersionCmd(t *testing.T) {
	assert.NotPanics(t, func() {
		versionCmd.Run(versionCmd, nil)
	})
}
