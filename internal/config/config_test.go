package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("jwt.secret_key", "secret")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 12*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "admin123", cfg.Seed.AdminPassword)
	assert.Equal(t, "teacher123", cfg.Seed.TeacherPassword)
	assert.Equal(t, "student123", cfg.Seed.StudentPassword)
	assert.Equal(t, 30*time.Second, cfg.CacheTTLs.Stats)
	assert.Equal(t, time.Hour, cfg.CacheTTLs.Draft)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]interface{}
	}{
		{name: "missing secret", set: map[string]interface{}{}},
		{name: "unknown driver", set: map[string]interface{}{"jwt.secret_key": "s", "db.driver": "oracle"}},
		{name: "redis without address", set: map[string]interface{}{"jwt.secret_key": "s", "redis.enabled": true, "redis.address": ""}},
		{name: "zero ttl", set: map[string]interface{}{"jwt.secret_key": "s", "jwt.access_token_ttl": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET_KEY", "from-env")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.SecretKey)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 9999, cfg.Server.Port)
}
