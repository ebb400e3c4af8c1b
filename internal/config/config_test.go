package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/phonorm/language"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phonorm.yaml")
	data := []byte(`language: fr
espeak:
  binary: /opt/espeak/bin/espeak-ng
  separator: "_"
  timeout: 3s
log:
  level: debug
  format: json
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, "/opt/espeak/bin/espeak-ng", cfg.Espeak.Binary)
	assert.Equal(t, 3*time.Second, cfg.Espeak.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	l, err := cfg.ParsedLanguage()
	require.NoError(t, err)
	assert.Equal(t, language.FR, l)
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PHONORM_LANGUAGE", "es")
	t.Setenv("PHONORM_ESPEAK_BINARY", "/usr/local/bin/espeak-ng")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Language)
	assert.Equal(t, "/usr/local/bin/espeak-ng", cfg.Espeak.Binary)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown_language", func(c *Config) { c.Language = "de" }},
		{"empty_binary", func(c *Config) { c.Espeak.Binary = "" }},
		{"long_separator", func(c *Config) { c.Espeak.Separator = "__" }},
		{"negative_timeout", func(c *Config) { c.Espeak.Timeout = -time.Second }},
		{"bad_log_format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
