package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvRulesFile, "")
	t.Setenv(EnvMaxDepth, "")
	t.Setenv(EnvNoDefaultRules, "")
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, *cfg.UseDefaultRules)
	assert.True(t, *cfg.AutoFilter)
	assert.Equal(t, 512, *cfg.CacheEntries)
}

func TestLoad_DefaultPathFile(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "treeflat")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
custom_rules = ["_test\\.go$", "^vendor$"]
rules_file = "extra.rules"
use_default_rules = false
max_depth = 4
`), 0644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{`_test\.go$`, "^vendor$"}, cfg.CustomRules)
	assert.Equal(t, "_test\\.go$\n^vendor$", cfg.RulesText())
	assert.Equal(t, filepath.Join(dir, "extra.rules"), cfg.RulesFile)
	assert.False(t, *cfg.UseDefaultRules)
	assert.True(t, *cfg.AutoFilter)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Equal(t, 512, *cfg.CacheEntries)
}

func TestLoad_ExplicitMissingFileIsError(t *testing.T) {
	isolateEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	isolateEnv(t)
	p := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(p, []byte("max_depth = [oops"), 0644))

	cfg, err := Load(p, nil)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	isolateEnv(t)
	p := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(p, []byte("max_depth = 2\nrules_file = \"/etc/a.rules\"\n"), 0644))
	t.Setenv(EnvConfig, p)
	t.Setenv(EnvMaxDepth, "7")
	t.Setenv(EnvRulesFile, "/etc/b.rules")
	t.Setenv(EnvNoDefaultRules, "true")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxDepth)
	assert.Equal(t, "/etc/b.rules", cfg.RulesFile)
	assert.False(t, *cfg.UseDefaultRules)
}

func TestLoad_InvalidEnvironmentIgnored(t *testing.T) {
	isolateEnv(t)
	t.Setenv(EnvMaxDepth, "-3")
	t.Setenv(EnvNoDefaultRules, "maybe")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Zero(t, cfg.MaxDepth)
	assert.True(t, *cfg.UseDefaultRules)
}
