package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseTestArgs runs the root command with the given arguments and returns
// the resolved config.
func parseTestArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()

	var got *Config
	cmd := newRootCmd(func(cmd *cobra.Command, cfg *Config) error {
		got = cfg
		return nil
	})
	// A nil slice would make cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))

	err := cmd.Execute()
	return got, err
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := parseTestArgs(t)
	require.NoError(t, err)

	assert.Equal(t, "Fetched_Images", cfg.DestDir)
	assert.Equal(t, int64(10485760), cfg.MaxSize)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Input)
	assert.Empty(t, cfg.MetricsFile)
	assert.Empty(t, cfg.URLs)
}

func TestConfigFlags(t *testing.T) {
	dir := t.TempDir()

	cfg, err := parseTestArgs(t,
		"-d", dir,
		"--max-size", "512KiB",
		"--timeout", "3s",
		"--metrics-file", filepath.Join(dir, "m.prom"),
		"-v",
		"http://example.com/a.png", "http://example.com/b.png",
	)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DestDir)
	assert.Equal(t, int64(512*1024), cfg.MaxSize)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join(dir, "m.prom"), cfg.MetricsFile)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"http://example.com/a.png", "http://example.com/b.png"}, cfg.URLs)
}

func TestConfigEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IMGFETCH_DIR", dir)
	t.Setenv("IMGFETCH_MAX_SIZE", "1MiB")

	cfg, err := parseTestArgs(t)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DestDir)
	assert.Equal(t, int64(1<<20), cfg.MaxSize)

	// Flags win over the environment.
	cfg, err = parseTestArgs(t, "--max-size", "2MiB")
	require.NoError(t, err)
	assert.Equal(t, int64(2<<20), cfg.MaxSize)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "images")
	path := filepath.Join(dir, "imgfetch.yaml")
	content := "dir: " + dest + "\nmax-size: 1KiB\ntimeout: 1500ms\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := parseTestArgs(t, "-c", path)
	require.NoError(t, err)
	assert.Equal(t, dest, cfg.DestDir)
	assert.Equal(t, int64(1024), cfg.MaxSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name string
		args []string
	}{
		{"bad max-size", []string{"--max-size", "lots"}},
		{"zero max-size", []string{"--max-size", "0"}},
		{"zero timeout", []string{"--timeout", "0s"}},
		{"dir is a file", []string{"-d", file}},
		{"empty dir", []string{"-d", ""}},
		{"missing input", []string{"-i", filepath.Join(dir, "missing.txt")}},
		{"missing config", []string{"-c", filepath.Join(dir, "missing.yaml")}},
		{"unknown flag", []string{"--bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseTestArgs(t, tt.args...)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
