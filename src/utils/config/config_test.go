package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	config := Default()
	require.NotNil(t, config)

	assert.False(t, config.IsDevelopment)
	assert.Equal(t, 128, config.Registry.DefaultPageSize)
	assert.Equal(t, 1000, config.Registry.MaxPageSize)
	assert.Equal(t, 8, config.Registry.BatchNumWorkers)
	assert.Equal(t, "0.0.0.0:3031", config.Api.ListenAddress)
	assert.Empty(t, config.Api.UpdateApiKeys)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("REGISTRY_DATABASE_PORT", "5433")
	t.Setenv("REGISTRY_REGISTRY_MAX_PAGE_SIZE", "50")
	t.Setenv("REGISTRY_API_UPDATE_API_KEYS", "alpha,beta")

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, uint16(5433), config.Database.Port)
	assert.Equal(t, 50, config.Registry.MaxPageSize)
	assert.Equal(t, []string{"alpha", "beta"}, config.Api.UpdateApiKeys)
}
