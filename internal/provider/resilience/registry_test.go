package resilience_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepal9768/polytianqi/internal/provider/resilience"
)

func TestRegistry_RegisterAndGetHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	client := resilience.NewClient(resilience.DefaultClientConfig("test-provider"))

	registry.Register("test-provider", client)
	assert.Equal(t, 1, registry.ProviderCount())

	health := registry.GetHealth("test-provider")
	require.NotNil(t, health)
	assert.Equal(t, "test-provider", health.Name)
	assert.Equal(t, "closed", health.CircuitState)
	assert.True(t, health.IsHealthy())
	assert.Nil(t, health.LastSuccessAt)
	assert.Nil(t, health.LastFailureAt)

	assert.Nil(t, registry.GetHealth("missing"))
}

func TestRegistry_RecordSuccess(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("test-provider", resilience.NewClient(resilience.DefaultClientConfig("test-provider")))

	registry.RecordSuccess("test-provider")

	health := registry.GetHealth("test-provider")
	require.NotNil(t, health)
	require.NotNil(t, health.LastSuccessAt)
	assert.WithinDuration(t, time.Now(), *health.LastSuccessAt, time.Second)
}

func TestRegistry_RecordFailure(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("test-provider", resilience.NewClient(resilience.DefaultClientConfig("test-provider")))

	registry.RecordFailure("test-provider", errors.New("connection refused"))

	health := registry.GetHealth("test-provider")
	require.NotNil(t, health)
	require.NotNil(t, health.LastFailureAt)
	assert.Equal(t, "connection refused", health.LastError)
}

func TestRegistry_GetAllHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("a", resilience.NewClient(resilience.DefaultClientConfig("a")))
	registry.Register("b", resilience.NewClient(resilience.DefaultClientConfig("b")))

	all := registry.GetAllHealth()
	assert.Len(t, all, 2)

	// Recording against an unknown name is a no-op.
	registry.RecordSuccess("missing")
	assert.Equal(t, 2, registry.ProviderCount())
}
