package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, filepath.Join(dataHome, "markpad"), v.GetString("data_dir"))
	assert.Equal(t, "sqlite://"+filepath.Join(dataHome, "markpad", "markpad.db"), v.GetString("storage.dsn"))
	assert.Equal(t, "documents", v.GetString("storage.key"))
	assert.True(t, v.GetBool("render.highlight"))
	assert.Equal(t, 80, v.GetInt("preview.width"))
	assert.NoError(t, CheckConfigValidity(v))
}

func TestLoadPrecedence(t *testing.T) {
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	dir := filepath.Join(cfgHome, "markpad")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
http_addr = "127.0.0.1:9000"
[storage]
key = "from-file"
[log]
level = "debug"
`), 0o600))
	t.Setenv("MARKPAD_LOG_LEVEL", "warn")

	v := viper.New()
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, "127.0.0.1:9000", v.GetString("http_addr"), "file overrides default")
	assert.Equal(t, "from-file", v.GetString("storage.key"))
	assert.Equal(t, "warn", v.GetString("log.level"), "env overrides file")
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, Load(context.Background(), v))
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", "")
	v.Set("storage.dsn", "postgres://x")
	v.Set("storage.key", " ")
	v.Set("http_addr", "nonsense")
	v.Set("log.level", "chatty")
	v.Set("log.format", "xml")
	v.Set("preview.width", 0)

	err := CheckConfigValidity(v)
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"data_dir is required",
		"storage.dsn",
		"storage.key is required",
		"http_addr",
		"log.level",
		"log.format must be console or json",
		"preview.width must be greater than 0",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestRenderDefaultTOMLRoundTrips(t *testing.T) {
	out := RenderDefaultTOML()
	assert.Contains(t, out, "[storage]\n")
	assert.Contains(t, out, `key = "documents"`)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "documents", v.GetString("storage.key"))
	assert.Equal(t, 80, v.GetInt("preview.width"))
	assert.True(t, v.GetBool("render.highlight"))
}

func TestUpdateTOML(t *testing.T) {
	existing := "# mine\nhttp_addr = \"127.0.0.1:1\"\nlegacy = 1\n[log]\nlevel = \"debug\"\n"

	updated, changed := UpdateTOML(existing)
	require.True(t, changed)
	assert.Contains(t, updated, "# OUTDATED: option removed from config schema\n# legacy = 1")
	assert.Contains(t, updated, `http_addr = "127.0.0.1:1"`)
	assert.Equal(t, 1, strings.Count(updated, "http_addr ="), "existing keys are not duplicated")
	assert.Contains(t, updated, "[storage]")

	again, changed := UpdateTOML(updated)
	assert.False(t, changed)
	assert.Equal(t, updated, again)
}
