package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "loopback", cfg.Server.Bind)
	assert.Equal(t, 24, cfg.Auth.TokenHours)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 10, cfg.Chat.HistoryWindow)
	assert.Equal(t, 2000, cfg.Chat.MaxMessageLen)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  bind: lan
auth:
  jwtSecret: s3cret
  tokenHours: 2
openai:
  model: gpt-4o
chat:
  historyWindow: 6
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "lan", cfg.Server.Bind)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2, cfg.Auth.TokenHours)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 6, cfg.Chat.HistoryWindow)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")

	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoad_ExpandsSecretEnvVars(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "from-env")
	path := writeConfig(t, `
auth:
  jwtSecret: ${TEST_JWT_SECRET}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TASKNEST_PORT", "7070")
	t.Setenv("TASKNEST_LOG_LEVEL", "ERROR")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestExpandEnvVars_UnsetLeftAlone(t *testing.T) {
	assert.Equal(t, "${NOT_SET_ANYWHERE_XYZ}", expandEnvVars("${NOT_SET_ANYWHERE_XYZ}"))
}

// --- Validation ---

func validConfig() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	cfg.Auth.JWTSecret = "secret"
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, Validate(&cfg))
}

func TestValidate_Issues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad bind", func(c *Config) { c.Server.Bind = "everywhere" }, "server.bind"},
		{"custom without host", func(c *Config) { c.Server.Bind = "custom" }, "server.customBindHost"},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "auth.jwtSecret"},
		{"bad bcrypt cost", func(c *Config) { c.Auth.BcryptCost = 99 }, "auth.bcryptCost"},
		{"bad window", func(c *Config) { c.Chat.HistoryWindow = 0 }, "chat.historyWindow"},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			issues := Validate(&cfg)
			require.NotEmpty(t, issues)
			found := false
			for _, issue := range issues {
				if issue.Path == tt.path {
					found = true
				}
			}
			assert.True(t, found, "expected issue at %s, got %v", tt.path, issues)
		})
	}
}

// --- Paths ---

func TestResolvePaths_HomeOverride(t *testing.T) {
	base := t.TempDir()
	t.Setenv("TASKNEST_HOME", base)

	paths, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, base, paths.Base)
	assert.Equal(t, filepath.Join(base, "config.yaml"), paths.Config)
	assert.Equal(t, filepath.Join(base, "data"), paths.Data)

	require.NoError(t, paths.EnsureDirs())
	info, err := os.Stat(paths.Data)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestParseConfigPath(t *testing.T) {
	parts, err := ParseConfigPath("server.port")
	require.NoError(t, err)
	assert.Equal(t, []string{"server", "port"}, parts)

	_, err = ParseConfigPath("")
	assert.Error(t, err)

	_, err = ParseConfigPath("server..port")
	assert.Error(t, err)
}

func TestGetSetValueAtPath(t *testing.T) {
	root := map[string]any{}
	SetValueAtPath(root, []string{"server", "port"}, 9000)

	val, ok := GetValueAtPath(root, []string{"server", "port"})
	require.True(t, ok)
	assert.Equal(t, 9000, val)

	_, ok = GetValueAtPath(root, []string{"server", "missing"})
	assert.False(t, ok)
}
