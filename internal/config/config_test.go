package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"meddata/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingSecret)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, "/uploads", cfg.Upload.URLPrefix)
	assert.Equal(t, 10*time.Minute, cfg.Redis.CacheTTL)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.False(t, cfg.DB.IsSQLite())
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "JWT_SECRET=from-file\nACCESS_TOKEN_EXPIRE_MINUTES=45\nDATABASE_URL=sqlite://meddata.db\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("JWT_ALGORITHM", "hs512")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 45*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "HS512", cfg.JWT.Algorithm)
	assert.True(t, cfg.DB.IsSQLite())
	assert.Equal(t, "meddata.db", cfg.DB.SQLitePath())
}

func TestLoad_RejectsNonHMACAlgorithm(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ALGORITHM", "RS256")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported JWT_ALGORITHM")
}
