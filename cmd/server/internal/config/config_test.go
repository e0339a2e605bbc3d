package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "ENV", "PORT", "DATABASE_PATH", "LOG_LEVEL", "LOG_FORMAT",
		"LOG_FILE", "JWT_SECRET", "GEMINI_API_KEY", "GEMINI_MODEL",
		"GEMINI_TIMEOUT", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Server.Env)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "./taskchat.db", cfg.Database.Path)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 10*time.Second, cfg.Gemini.Timeout)
	assert.Empty(t, cfg.Gemini.APIKey)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
}

func TestLoadConfig_YAMLOverlay(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  env: staging
  port: "8080"
database:
  path: /var/lib/taskchat/app.db
gemini:
  model: gemini-1.5-pro
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	t.Setenv("CONFIG_FILE", path)
	// env still wins over the file
	t.Setenv("PORT", "8001")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Server.Env)
	assert.Equal(t, "8001", cfg.Server.Port)
	assert.Equal(t, "/var/lib/taskchat/app.db", cfg.Database.Path)
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Env: "dev", Port: "8000"},
			Database: DatabaseConfig{Path: "./t.db"},
			Log:      LogConfig{Level: "info", Format: "console"},
			Security: SecurityConfig{JWTSecret: "0123456789abcdef0123456789abcdef"},
			Gemini:   GeminiConfig{Timeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.Security.JWTSecret = "" }, "JWT_SECRET is required"},
		{"short secret", func(c *Config) { c.Security.JWTSecret = "short" }, "at least 32 characters"},
		{"bad port", func(c *Config) { c.Server.Port = "99999" }, "invalid PORT"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "invalid LOG_LEVEL"},
		{"bad env", func(c *Config) { c.Server.Env = "qa" }, "invalid ENV"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "DATABASE_PATH"},
		{"zero timeout", func(c *Config) { c.Gemini.Timeout = 0 }, "GEMINI_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Env: "production", Port: "8000"}}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, ":8000", cfg.GetServerAddr())
}
