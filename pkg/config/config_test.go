// pkg/config/config_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dirs), environment variables
// PURPOSE: Test configuration layering: embedded defaults, user file,
// environment overrides, and validation

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ghostytools/wintweak/pkg/config"
	"github.com/ghostytools/wintweak/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.Backup.Dir)
	assert.Equal(t, 10, cfg.Backup.Retention)
	assert.Empty(t, cfg.Catalog.Path)
	assert.Equal(t, 15*time.Second, cfg.Timeouts.Query)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Export)
	assert.Equal(t, 60*time.Second, cfg.Timeouts.FullExport)
	assert.Equal(t, 60*time.Second, cfg.Timeouts.Import)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Set)
}

func TestMissingFileIsFine(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Backup.Retention)
}

func TestUserFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wintweak.toml")
	content := `
[backup]
dir = "D:\\backups"
retention = 5

[timeouts]
query = "2s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, `D:\backups`, cfg.Backup.Dir)
	assert.Equal(t, 5, cfg.Backup.Retention)
	assert.Equal(t, 2*time.Second, cfg.Timeouts.Query)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Export)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wintweak.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backup]\nretention = 5\n"), 0644))

	t.Setenv("WINTWEAK_BACKUP_RETENTION", "3")
	t.Setenv("WINTWEAK_TIMEOUTS_QUERY", "45s")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Backup.Retention)
	assert.Equal(t, 45*time.Second, cfg.Timeouts.Query)
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wintweak.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backup\nretention ="), 0644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfigLoad))
}

func TestRetentionMustBePositive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wintweak.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backup]\nretention = 0\n"), 0644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfigParse))
}

func TestRegistryTimeoutsConversion(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	timeouts := cfg.Timeouts.RegistryTimeouts()
	assert.Equal(t, 15*time.Second, timeouts.Query)
	assert.Equal(t, 60*time.Second, timeouts.Import)
}
