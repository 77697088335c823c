package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynmsafety/ynmops/internal/dedupe"
	"go.uber.org/zap"
)

func TestDedupeConfigDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	holder, err := NewDedupeConfigHolder(Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, dedupe.DefaultThresholds(), holder.Get())
}

func TestDedupeConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedupe.yml")
	require.NoError(t, os.WriteFile(path, []byte("dedupe:\n  name: 0.8\n  name_only: 0.97\n"), 0o600))

	holder, err := NewDedupeConfigHolder(Config{Cache: CacheConfig{DedupeFilePath: path}}, zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, 0.8, got.Name)
	assert.Equal(t, 0.97, got.NameOnly)
	assert.Equal(t, 0.85, got.Item)
	assert.Equal(t, 0.01, got.QuantityTolerance)
}

func TestDedupeConfigRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedupe.yml")
	require.NoError(t, os.WriteFile(path, []byte("dedupe:\n  name: 0.9\n  name_only: 0.5\n"), 0o600))

	_, err := NewDedupeConfigHolder(Config{Cache: CacheConfig{DedupeFilePath: path}}, zap.NewNop())
	assert.Error(t, err)
}

func TestStaticDedupeConfig(t *testing.T) {
	holder := NewStaticDedupeConfig(dedupe.Thresholds{NameOnly: 0.99})
	assert.Equal(t, 0.99, holder.Get().NameOnly)
	assert.Equal(t, 0.85, holder.Get().Name)
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("YNM_TEST_BOOL", "yes")
	t.Setenv("YNM_TEST_INT", "x")
	t.Setenv("YNM_TEST_DURATION", "90s")

	assert.True(t, getenvBool("YNM_TEST_BOOL", false))
	assert.Equal(t, 7, getenvInt("YNM_TEST_INT", 7))
	assert.Equal(t, 90.0, getenvDuration("YNM_TEST_DURATION", 0).Seconds())
}
