package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "embersql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Contains(t, cfg.Detection.Functions, "dbGetQuery")
	assert.Contains(t, cfg.Detection.InterpFunctions, "glue_sql")
	assert.Equal(t, 5000, cfg.Cache.TTLMillis)
	assert.True(t, cfg.Format.UppercaseKeywords)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, "verbose: true\ndetection:\n  functions: [\"runQuery\"]\ncache:\n  ttl_ms: 250\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"runQuery"}, cfg.Detection.Functions)
	assert.Equal(t, 250, cfg.Cache.TTLMillis)
	// Untouched sections keep their defaults.
	assert.Contains(t, cfg.Detection.InterpFunctions, "glue_sql")
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, dir, cfg.ProjectRoot)
}

func TestLoadConfig_FileDiscoveredUpward(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, "output: json\n")
	nested := filepath.Join(dir, "analysis", "scripts")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, resolveSymlinks(t, dir), resolveSymlinks(t, cfg.ProjectRoot))
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, "cache:\n  ttl_ms: 250\n")
	t.Setenv("EMBERSQL_CACHE__TTL_MS", "750")
	t.Setenv("EMBERSQL_OUTPUT", "json")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 750, cfg.Cache.TTLMillis)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("EMBERSQL_OUTPUT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.StringP("output", "o", "", "")
	flags.BoolP("verbose", "v", false, "")
	require.NoError(t, flags.Parse([]string{"--output", "table", "-v"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "table", cfg.Output)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_UnchangedFlagsIgnored(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("EMBERSQL_OUTPUT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	// The flag default must not mask the env var.
	assert.Equal(t, "json", cfg.Output)
}

func TestLoadConfig_InvalidConfigRejected(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, "cache:\n  ttl_ms: -1\n")

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ttl_ms")
}

func TestGetLogger_FallsBackToDiscard(t *testing.T) {
	logger := GetLogger(t.Context())
	require.NotNil(t, logger)
}

func resolveSymlinks(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}
