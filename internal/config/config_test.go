package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "secret")

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 50, cfg.HistoryCapacity)
	assert.Equal(t, 100, cfg.EffectCapacity)
	assert.Equal(t, 5*time.Second, cfg.SaveTimeout)
	assert.Equal(t, "secret", cfg.JWTSigningKey)
}

func TestParse_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "secret")
	t.Setenv("HISTORY_CAPACITY", "20")
	t.Setenv("REDIS_TTL", "1h")
	t.Setenv("PRODUCT_STORE", "redis")

	cfg, err := Parse([]string{"-history-capacity", "30", "-default-channel", "smartstore"})
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.HistoryCapacity)
	assert.Equal(t, time.Hour, cfg.RedisTTL)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "smartstore", cfg.DefaultChannel)
}

func TestParse_BadEnvFallsBack(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "secret")
	t.Setenv("EFFECT_CAPACITY", "many")

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.EffectCapacity)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"postgres without dsn", []string{"-store", "postgres"}},
		{"unknown store", []string{"-store", "sqlite"}},
		{"zero capacity", []string{"-history-capacity", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SIGNING_KEY", "secret")
			_, err := Parse(tt.args)
			assert.Error(t, err)
		})
	}

	t.Run("missing signing key", func(t *testing.T) {
		t.Setenv("JWT_SIGNING_KEY", "")
		_, err := Parse(nil)
		assert.Error(t, err)
	})
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	// godotenv never overrides, so start with both keys unset.
	for _, key := range []string{"JWT_SIGNING_KEY", "DEFAULT_CHANNEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("JWT_SIGNING_KEY=from-dotenv\nDEFAULT_CHANNEL=coupang\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.JWTSigningKey)
	assert.Equal(t, "coupang", cfg.DefaultChannel)
}
