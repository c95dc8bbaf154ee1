// Package paths centralizes filesystem locations used by wintweak.
// Directories follow the XDG base directory layout with environment
// overrides, so tests and portable installs can relocate everything.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const (
	// AppDirName is the directory name used under each XDG base directory.
	AppDirName = "wintweak"

	// EnvDataDir overrides the data directory (backups, ledger).
	EnvDataDir = "WINTWEAK_DATA_DIR"
	// EnvConfigDir overrides the config directory.
	EnvConfigDir = "WINTWEAK_CONFIG_DIR"
	// EnvStateDir overrides the state directory (logs).
	EnvStateDir = "WINTWEAK_STATE_DIR"
)

// Paths provides access to wintweak's directories.
type Paths struct {
	data   string
	config string
	state  string
}

// New resolves all directories from the environment.
func New() *Paths {
	p := &Paths{}

	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.data = expandHome(dataDir)
	} else {
		p.data = filepath.Join(xdg.DataHome, AppDirName)
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.config = expandHome(configDir)
	} else {
		p.config = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.state = expandHome(stateDir)
	} else if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		p.state = filepath.Join(xdgState, AppDirName)
	} else {
		home, _ := os.UserHomeDir()
		p.state = filepath.Join(home, ".local", "state", AppDirName)
	}

	return p
}

// DataDir is the root data directory.
func (p *Paths) DataDir() string { return p.data }

// ConfigDir holds the user configuration file.
func (p *Paths) ConfigDir() string { return p.config }

// StateDir holds logs and other regenerable state.
func (p *Paths) StateDir() string { return p.state }

// BackupDir is where backup artifacts and the ledger live.
func (p *Paths) BackupDir() string { return filepath.Join(p.data, "backups") }

// ConfigFile is the user configuration file path.
func (p *Paths) ConfigFile() string { return filepath.Join(p.config, "wintweak.toml") }

// CatalogFile is the optional user tweak catalog override.
func (p *Paths) CatalogFile() string { return filepath.Join(p.config, "tweaks.yaml") }

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
