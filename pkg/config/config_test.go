package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gigscout.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	// File should now exist on disk
	_, err = os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:1930", cfg.Server.Address)
	assert.Equal(t, 50.0, cfg.Catalog.RadiusAnyKm)
	assert.InDelta(t, 12.9716, cfg.Locate.Fallback.Lat, 1e-9)
	assert.InDelta(t, 77.5946, cfg.Locate.Fallback.Lng, 1e-9)
	assert.Equal(t, Duration(10*time.Second), cfg.Locate.Timeout)
}

func TestLoad_MergesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gigscout.yaml")
	content := []byte(`
server:
  address: "localhost:9999"
catalog:
  radius_any_km: 25
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "localhost:9999", cfg.Server.Address)
	assert.Equal(t, 25.0, cfg.Catalog.RadiusAnyKm)
	// Defaults retained for everything else
	assert.Equal(t, 3, cfg.Request.Retries)
	assert.InDelta(t, 12.9716, cfg.Locate.Fallback.Lat, 1e-9)
}

func TestLoad_RejectsInvalidFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gigscout.yaml")
	content := []byte(`
locate:
  fallback:
    lat: 95.0
    lng: 77.5946
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGenerateDefault_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gigscout.yaml")

	require.NoError(t, GenerateDefault(path))
	info1, err := os.Stat(path)
	require.NoError(t, err)

	// Second call must not rewrite the file
	require.NoError(t, GenerateDefault(path))
	info2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info1.ModTime(), info2.ModTime())
}
