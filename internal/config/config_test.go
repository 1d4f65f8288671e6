package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("COMMUNITY", "@grammyjs")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "grammyjs", cfg.Community)
	require.Equal(t, 15*time.Minute, cfg.Captcha.Timeout)
	require.Equal(t, 8, cfg.Captcha.MaxSwaps)
	require.Equal(t, BackendPostgres, cfg.Store.Backend)
	require.Equal(t, BackendPostgres, cfg.Scheduler.Backend)
	require.Equal(t, "123_abc", cfg.Telegram.WebhookSecret)
	require.Equal(t, "info", cfg.LogLevel)
	require.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
server:
  port: 9090
database:
  url: postgres://localhost/joingate
telegram:
  token: from-file
  webhook_secret: s3cret
captcha:
  timeout: 2m
store:
  backend: memory
scheduler:
  backend: memory
community: grammyjs
debug: true
`)
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("CAPTCHA_TIMEOUT", "90s")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "from-env", cfg.Telegram.Token)
	require.Equal(t, "s3cret", cfg.Telegram.WebhookSecret)
	require.Equal(t, 90*time.Second, cfg.Captcha.Timeout)
	require.Equal(t, BackendMemory, cfg.Store.Backend)
	require.Equal(t, "debug", cfg.LogLevel)
	require.False(t, cfg.NeedsDatabase())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".env", []byte("COMMUNITY=from_dotenv\nBOT_TOKEN=1:x\n"), 0o600))
	// godotenv не перезаписывает уже заданные переменные
	t.Setenv("BOT_TOKEN", "2:y")
	t.Setenv("COMMUNITY", "")
	require.NoError(t, os.Unsetenv("COMMUNITY"))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "from_dotenv", cfg.Community)
	require.Equal(t, "2:y", cfg.Telegram.Token)
}

func TestLoadBrokenYAML(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(writeConfig(t, "server: [1, 2"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{Community: "grammyjs"}
		c.Telegram.Token = "1:x"
		c.Database.DSN = "postgres://localhost/joingate"
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no token", func(c *Config) { c.Telegram.Token = "" }, "BOT_TOKEN"},
		{"no community", func(c *Config) { c.Community = "" }, "COMMUNITY"},
		{"postgres without dsn", func(c *Config) { c.Database.DSN = "" }, "DATABASE_URL"},
		{"memory without dsn", func(c *Config) {
			c.Database.DSN = ""
			c.Store.Backend = BackendMemory
			c.Scheduler.Backend = BackendMemory
		}, ""},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, `unknown store backend "redis"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
