package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
server:
  port: 8080
security:
  jwt_secret: 0123456789abcdef0123456789abcdef
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 256, cfg.Remote.MaxPending)
	assert.Equal(t, "plaintext", cfg.Security.PasswordScheme)
	assert.Equal(t, 12*time.Hour, cfg.Security.TokenExpiry)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NotEmpty(t, cfg.Scheduler.SweepOrphanedNotifications)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REMOTE_BASE_URL", "http://mirror:8080")
	t.Setenv("PASSWORD_SCHEME", "bcrypt")

	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Remote.Enabled)
	assert.Equal(t, "http://mirror:8080", cfg.Remote.BaseURL)
	assert.Equal(t, "bcrypt", cfg.Security.PasswordScheme)
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]string{
		"BadPort":        "server:\n  port: 0\nsecurity:\n  jwt_secret: 0123456789abcdef0123456789abcdef\n",
		"ShortSecret":    "server:\n  port: 80\nsecurity:\n  jwt_secret: short\n",
		"FileWithoutDir": "server:\n  port: 80\nstore:\n  backend: file\nsecurity:\n  jwt_secret: 0123456789abcdef0123456789abcdef\n",
		"UnknownBackend": "server:\n  port: 80\nstore:\n  backend: mongo\nsecurity:\n  jwt_secret: 0123456789abcdef0123456789abcdef\n",
		"RemoteNoURL":    "server:\n  port: 80\nremote:\n  enabled: true\nsecurity:\n  jwt_secret: 0123456789abcdef0123456789abcdef\n",
		"BadScheme":      "server:\n  port: 80\nsecurity:\n  jwt_secret: 0123456789abcdef0123456789abcdef\n  password_scheme: md5\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML+"remote:\n  timeout: 750ms\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.Remote.Timeout)
	assert.Equal(t, ":8080", cfg.GetServerAddress())
}

func TestStorageConfig_Postgres(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML + "store:\n  backend: postgres\n  postgres:\n    host: db\n    user: u\n    password: p\n    database: charity\n"))
	require.NoError(t, err)

	sc := cfg.StorageConfig()
	assert.Equal(t, "postgres", sc.Backend)
	assert.Equal(t, "postgres://u:p@db:5432/charity?sslmode=disable", sc.PostgresDSN)
}
