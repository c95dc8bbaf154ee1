// Package config loads wintweak's configuration: embedded defaults, then an
// optional user TOML file, then WINTWEAK_-prefixed environment variables,
// each layer overriding the last.
package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	werrors "github.com/ghostytools/wintweak/pkg/errors"
	"github.com/ghostytools/wintweak/pkg/registry"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Config is the fully resolved configuration.
type Config struct {
	Backup   BackupConfig   `koanf:"backup"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Timeouts TimeoutsConfig `koanf:"timeouts"`
}

// BackupConfig controls where backups live and how many are kept.
type BackupConfig struct {
	// Dir overrides the platform data directory when non-empty.
	Dir       string `koanf:"dir"`
	Retention int    `koanf:"retention"`
}

// CatalogConfig points at an alternative tweak catalog file.
type CatalogConfig struct {
	// Path overrides the embedded catalog when non-empty.
	Path string `koanf:"path"`
}

// TimeoutsConfig bounds the external registry commands.
type TimeoutsConfig struct {
	Query      time.Duration `koanf:"query"`
	Export     time.Duration `koanf:"export"`
	FullExport time.Duration `koanf:"full_export"`
	Import     time.Duration `koanf:"import"`
	Set        time.Duration `koanf:"set"`
}

// RegistryTimeouts converts the configured timeouts for the registry store.
func (t TimeoutsConfig) RegistryTimeouts() registry.Timeouts {
	return registry.Timeouts{
		Query:      t.Query,
		Export:     t.Export,
		FullExport: t.FullExport,
		Import:     t.Import,
		Set:        t.Set,
	}
}

// Load resolves the configuration. configFile is the user config path; a
// missing file is fine, a malformed one is a ConfigLoad error.
func Load(configFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, werrors.Wrap(err, werrors.ErrConfigLoad, "loading built-in defaults")
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
				return nil, werrors.Wrapf(err, werrors.ErrConfigLoad,
					"loading config file %s", configFile).
					WithDetail("path", configFile)
			}
		}
	}

	// WINTWEAK_BACKUP_RETENTION=5 -> backup.retention. Section names are
	// single words, so only the first underscore splits.
	err := k.Load(env.Provider("WINTWEAK_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "WINTWEAK_"))
		return strings.Replace(s, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, werrors.Wrap(err, werrors.ErrConfigLoad, "loading environment overrides")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, werrors.Wrap(err, werrors.ErrConfigParse, "decoding configuration")
	}

	if cfg.Backup.Retention < 1 {
		return nil, werrors.Newf(werrors.ErrConfigParse,
			"backup.retention must be at least 1, got %d", cfg.Backup.Retention)
	}

	return &cfg, nil
}
