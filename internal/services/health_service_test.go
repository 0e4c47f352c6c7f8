package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superstore/pkg/contracts"
)

func TestHealthCheck(t *testing.T) {
	hs := NewHealthService(nil, nil, testLogger())

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, contracts.Version, status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestLivenessCheck(t *testing.T) {
	hs := NewHealthService(nil, nil, testLogger())

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	require.NotNil(t, status.Runtime)
	assert.Contains(t, status.Runtime, "go_version")
	assert.Contains(t, status.Runtime, "goroutines")
}

func TestReadinessCheck(t *testing.T) {
	t.Run("not ready without dataset", func(t *testing.T) {
		hs := NewHealthService(nil, nil, testLogger())

		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "not_ready", status.Status)

		dataset, ok := status.Services["dataset"].(ServiceHealth)
		require.True(t, ok)
		assert.Equal(t, "not_ready", dataset.Status)
	})

	t.Run("not ready before load", func(t *testing.T) {
		svc := NewDatasetService(testDatasetConfig(t), testLogger(), nil)
		hs := NewHealthService(svc, nil, testLogger())

		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "not_ready", status.Status)
	})

	t.Run("ready with loaded dataset", func(t *testing.T) {
		hs := NewHealthService(loadedService(t), nil, testLogger())

		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "ready", status.Status)

		dataset, ok := status.Services["dataset"].(ServiceHealth)
		require.True(t, ok)
		assert.Equal(t, "ready", dataset.Status)
	})
}

func TestHealthVersion(t *testing.T) {
	hs := NewHealthService(nil, nil, testLogger())

	info := hs.Version()
	assert.Equal(t, contracts.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Equal(t, contracts.APIVersion, info.APIVersion)
}

func TestSystemStats(t *testing.T) {
	t.Run("without dataset", func(t *testing.T) {
		hs := NewHealthService(nil, nil, testLogger())

		stats, err := hs.SystemStats(context.Background())
		require.NoError(t, err)
		assert.False(t, stats.DatasetLoaded)
		assert.Zero(t, stats.DatasetRows)
		assert.Positive(t, stats.Goroutines)
		assert.Positive(t, stats.MemoryUsageBytes)
		assert.NotEmpty(t, stats.GoVersion)
	})

	t.Run("with loaded dataset", func(t *testing.T) {
		hs := NewHealthService(loadedService(t), nil, testLogger())

		stats, err := hs.SystemStats(context.Background())
		require.NoError(t, err)
		assert.True(t, stats.DatasetLoaded)
		assert.Equal(t, 8, stats.DatasetRows)
		assert.NotEmpty(t, stats.DatasetFingerprint)
	})
}
