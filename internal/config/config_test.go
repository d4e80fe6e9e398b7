package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesSpecDefaults(t *testing.T) {
	c := Default()
	require.Equal(t, int64(1<<20), c.MaxFileSize)
	require.Equal(t, 50, c.MaxDepth)
	require.True(t, c.Cache.Enabled)
	require.Equal(t, "json", c.OutputFormat)
	require.Equal(t, "network-data.json", c.OutputFile)
	require.Contains(t, c.ExcludePatterns, "node_modules/**")
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root, "", FlagOverrides{})
	require.NoError(t, err)
	require.Equal(t, Default().MaxFileSize, cfg.MaxFileSize)
}

func TestLoad_ReadsDotDepgraphrcJSON(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".depgraphrc.json"), []byte(`{"include_external": true, "max_depth": 10}`), 0o644))

	cfg, err := Load(root, "", FlagOverrides{})
	require.NoError(t, err)
	require.True(t, cfg.IncludeExternal)
	require.Equal(t, 10, cfg.MaxDepth)
}

func TestLoad_EnvVarOverridesFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".depgraphrc.json"), []byte(`{"max_depth": 10}`), 0o644))

	t.Setenv("DEPGRAPH_MAX_DEPTH", "5")
	cfg, err := Load(root, "", FlagOverrides{})
	require.NoError(t, err)
	require.Equal(t, 5, cfg.MaxDepth)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".depgraphrc.json"), []byte(`{"max_depth": 10}`), 0o644))
	t.Setenv("DEPGRAPH_MAX_DEPTH", "5")

	maxSize := int64(2048)
	cfg, err := Load(root, "", FlagOverrides{MaxFileSize: &maxSize, NoCache: true})
	require.NoError(t, err)
	require.Equal(t, maxSize, cfg.MaxFileSize)
	require.False(t, cfg.Cache.Enabled)
}

func TestValidate_SelfCorrectsOutOfRangeValues(t *testing.T) {
	cfg := &Config{MaxFileSize: -1, MaxDepth: 0, Concurrency: 1000, OutputFormat: "xml"}
	cfg.Validate()
	require.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	require.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	require.Equal(t, MaxConcurrency, cfg.Concurrency)
	require.Equal(t, "json", cfg.OutputFormat)
}
