package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewright/typewright/config"
)

func TestLoadMissingFilesYieldsDefaults(t *testing.T) {
	t.Setenv("PYTHONPATH", "")
	opts, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, opts.Quiet)
	assert.False(t, opts.Debug)
	assert.Empty(t, opts.PythonPath)
	assert.Empty(t, opts.CacheDir)
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("PYTHONPATH", "")
	dir := t.TempDir()
	content := "quiet: true\ndebug: true\npythonpath: /opt/lib\ncacheDir: /var/cache/tw\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))

	opts, err := config.Load(dir)
	require.NoError(t, err)
	assert.True(t, opts.Quiet)
	assert.True(t, opts.Debug)
	assert.Equal(t, "/opt/lib", opts.PythonPath)
	assert.Equal(t, "/var/cache/tw", opts.CacheDir)
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	t.Setenv("PYTHONPATH", "")
	dir := t.TempDir()
	content := "quiet: true\nfutureKnob: 42\nnested:\n  stuff: [1, 2]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))

	opts, err := config.Load(dir)
	require.NoError(t, err)
	assert.True(t, opts.Quiet)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("quiet: [unclosed"), 0o644))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestPythonPathEnvironmentAppends(t *testing.T) {
	dir := t.TempDir()
	content := "pythonpath: /from/yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))
	t.Setenv("PYTHONPATH", "/from/env")

	opts, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"/from/yaml", "/from/env"}, opts.SearchPath())
}

func TestSearchPathSplitsAndDropsEmpties(t *testing.T) {
	sep := string(filepath.ListSeparator)
	opts := &config.Options{PythonPath: "/a" + sep + sep + "/b"}
	assert.Equal(t, []string{"/a", "/b"}, opts.SearchPath())

	assert.Nil(t, (&config.Options{}).SearchPath())
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PYTHONPATH=/from/dotenv\n"), 0o644))
	t.Setenv("PYTHONPATH", "")
	os.Unsetenv("PYTHONPATH")

	opts, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv", opts.PythonPath)
}
