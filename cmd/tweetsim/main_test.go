package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stderr bytes.Buffer
	cmd := newRootCmd(&stderr)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	cmd.SetOut(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stderr.String(), err
}

func TestRoot_Generates(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "--batches", "5", "--deleted", "2", "--seed", "9", "-o", dir)
	require.NoError(t, err)

	for n := 1; n <= 5; n++ {
		assert.FileExists(t, filepath.Join(dir, fmt.Sprintf("batch%d.json", n)))
	}
	assert.Contains(t, out, "generated batches")

	out, err = run(t, "verify", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "batches verified")
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "tweetsim.yaml")
	content := "num_batches: 3\nnum_deleted_tweets: 1\ncreate_output_dir: true\noutput_dir: " + filepath.Join(dir, "out") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	_, err := run(t, "--config", cfgPath, "--seed", "1")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRoot_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--batches", "1", "-o", dir)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRoot_MissingOutputDir(t *testing.T) {
	_, err := run(t, "-o", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestVerify_DetectsBrokenBatches(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--seed", "4", "-o", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "batch2.json"), []byte("[]\n"), 0o644))

	_, err = run(t, "verify", "--dir", dir)
	require.Error(t, err)
}

func TestVerify_LogLevelFromEnv(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--seed", "4", "-o", dir)
	require.NoError(t, err)

	t.Setenv("TWEETSIM_LOG_LEVEL", "debug")
	out, err := run(t, "verify", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted tweet")

	t.Setenv("TWEETSIM_LOG_LEVEL", "loud")
	_, err = run(t, "verify", "--dir", dir)
	require.Error(t, err)
}

func TestVerify_LogLevelFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--seed", "4", "-o", dir)
	require.NoError(t, err)

	cfgPath := filepath.Join(t.TempDir(), "tweetsim.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level = \"warn\"\n"), 0o644))

	out, err := run(t, "--config", cfgPath, "verify", "--dir", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "batches verified")

	out, err = run(t, "--config", cfgPath, "verify", "--dir", dir, "--log-level", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "batches verified")
}
