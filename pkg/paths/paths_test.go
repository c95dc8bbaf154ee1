// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Environment variables
// PURPOSE: Test directory resolution and environment overrides

package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/ghostytools/wintweak/pkg/paths"
	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(paths.EnvDataDir, filepath.Join(tmp, "data"))
	t.Setenv(paths.EnvConfigDir, filepath.Join(tmp, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(tmp, "state"))

	p := paths.New()

	assert.Equal(t, filepath.Join(tmp, "data"), p.DataDir())
	assert.Equal(t, filepath.Join(tmp, "config"), p.ConfigDir())
	assert.Equal(t, filepath.Join(tmp, "state"), p.StateDir())
}

func TestDerivedPaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(paths.EnvDataDir, tmp)
	t.Setenv(paths.EnvConfigDir, tmp)

	p := paths.New()

	assert.Equal(t, filepath.Join(tmp, "backups"), p.BackupDir())
	assert.Equal(t, filepath.Join(tmp, "wintweak.toml"), p.ConfigFile())
	assert.Equal(t, filepath.Join(tmp, "tweaks.yaml"), p.CatalogFile())
}

func TestXDGDefaults(t *testing.T) {
	t.Setenv(paths.EnvDataDir, "")
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvStateDir, "")

	p := paths.New()

	assert.Contains(t, p.DataDir(), "wintweak")
	assert.Contains(t, p.ConfigDir(), "wintweak")
	assert.Contains(t, p.StateDir(), "wintweak")
}
