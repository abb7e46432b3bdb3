package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"code.ballastprotocol.io/ballast/config"
	"code.ballastprotocol.io/ballast/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("defaults round trip through the file", testDefaultsRoundTrip)
	t.Run("partial files layer over the defaults", testPartialFileLayers)
	t.Run("write refuses to clobber without rewrite", testWriteRefusesOverwrite)
}

func TestWatcher(t *testing.T) {
	t.Run("reloads on file change and notifies on tick", testWatcherReloads)
	t.Run("no notification without a change", testWatcherQuietWithoutChange)
}

func testDefaultsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Write(dir, config.NewDefaultConfig(), false))

	cfg, err := config.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Hour, cfg.Oracles.StaleTimeout.Get())
	assert.Equal(t, time.Second, cfg.Broker.SendEventTimeout.Get())
	assert.Equal(t, 2112, cfg.Metrics.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "dev", cfg.Logging.Environment)
	assert.Equal(t, logging.InfoLevel, cfg.Collateral.Level.Get())
}

func testPartialFileLayers(t *testing.T) {
	dir := t.TempDir()
	partial := `[Oracles]
Level = "debug"
StaleTimeout = "10m"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(partial), 0o600))

	cfg, err := config.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Oracles.StaleTimeout.Get())
	assert.Equal(t, logging.DebugLevel, cfg.Oracles.Level.Get())
	// untouched sections keep their defaults
	assert.Equal(t, time.Second, cfg.Broker.SendEventTimeout.Get())
}

func testWriteRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Write(dir, config.NewDefaultConfig(), false))
	require.Error(t, config.Write(dir, config.NewDefaultConfig(), false))
	require.NoError(t, config.Write(dir, config.NewDefaultConfig(), true))
}

func testWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Write(dir, config.NewDefaultConfig(), false))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := config.NewFromFile(ctx, logging.NewTestLogger(), dir)
	require.NoError(t, err)

	updates := make(chan config.Config, 1)
	w.OnConfigUpdate(func(cfg config.Config) {
		select {
		case updates <- cfg:
		default:
		}
	})

	updated := `[Oracles]
StaleTimeout = "45m"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(updated), 0o600))

	var got config.Config
	require.Eventually(t, func() bool {
		w.OnTimeUpdate(ctx, time.Now())
		select {
		case got = <-updates:
			return true
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, 45*time.Minute, got.Oracles.StaleTimeout.Get())

	cfg := w.Get()
	assert.Equal(t, 45*time.Minute, cfg.Oracles.StaleTimeout.Get())
}

func testWatcherQuietWithoutChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Write(dir, config.NewDefaultConfig(), false))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := config.NewFromFile(ctx, logging.NewTestLogger(), dir)
	require.NoError(t, err)

	called := false
	w.OnConfigUpdate(func(config.Config) { called = true })
	w.OnTimeUpdate(ctx, time.Now())
	assert.False(t, called)
}
