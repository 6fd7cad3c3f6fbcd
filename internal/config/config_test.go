package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AI_MODELS", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultModels, cfg.AI.Models)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.AI.APIBase)
	assert.Equal(t, 0.3, cfg.AI.Temperature)
	assert.Equal(t, 30*time.Second, cfg.AI.RequestTimeout)
	assert.Equal(t, 10, cfg.AI.MaxHistory)
	assert.Equal(t, "LandSale.lk", cfg.AI.SiteName)
	assert.Empty(t, cfg.AI.APIKey, "a missing key is reported by the completion client, not by Load")
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.NATS.Enabled)
}

func TestLoad_ModelsFromEnv(t *testing.T) {
	t.Setenv("AI_MODELS", " model-a , model-b,,model-c ")
	t.Setenv("AI_API_BASE", "http://localhost:9999/v1/")
	t.Setenv("AI_REQUEST_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"model-a", "model-b", "model-c"}, cfg.AI.Models)
	assert.Equal(t, "http://localhost:9999/v1", cfg.AI.APIBase)
	assert.Equal(t, 5*time.Second, cfg.AI.RequestTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero timeout", key: "AI_REQUEST_TIMEOUT", val: "0s"},
		{name: "temperature too high", key: "AI_TEMPERATURE", val: "3"},
		{name: "no history", key: "AI_MAX_HISTORY", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_OptionalBackends(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled)
	assert.True(t, cfg.NATS.Enabled)
	assert.Equal(t, "assistant.chat", cfg.NATS.Subject)
	assert.Equal(t, 30*time.Minute, cfg.Redis.SessionTTL)
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "landsale", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=landsale sslmode=disable", cfg.GetPostgreSQLDSN())

	cfg.PostgreSQL.DSN = "postgres://u:p@db/landsale"
	assert.Equal(t, "postgres://u:p@db/landsale", cfg.GetPostgreSQLDSN())
}
