package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, 3857, cfg.SRID)
	assert.Equal(t, uint32(160), cfg.Timeout)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("dialect: duckdb\nsrid: 4326\n"), 0o644))

	cfg, path, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, path)
	assert.Equal(t, "duckdb", cfg.Dialect)
	assert.Equal(t, 4326, cfg.SRID)
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_DiscoversConfigFileWalkingUp(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "overpassql.yaml"), []byte("dialect: duckdb\n"), 0o644))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "overpassql.yaml"), path)
	assert.Equal(t, "duckdb", cfg.Dialect)
}

func TestLoad_StopsAtGitBoundary(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "overpassql.yaml"), []byte("dialect: duckdb\n"), 0o644))

	repo := filepath.Join(root, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	nested := filepath.Join(repo, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Equal(t, "postgres", cfg.Dialect)
}
