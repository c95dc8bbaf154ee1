package main

import (
	"github.com/ghostytools/wintweak/pkg/backup"
	"github.com/ghostytools/wintweak/pkg/config"
	"github.com/ghostytools/wintweak/pkg/debloat"
	"github.com/ghostytools/wintweak/pkg/engine"
	"github.com/ghostytools/wintweak/pkg/execx"
	"github.com/ghostytools/wintweak/pkg/paths"
	"github.com/ghostytools/wintweak/pkg/registry"
	"github.com/ghostytools/wintweak/pkg/restorepoint"
	"github.com/ghostytools/wintweak/pkg/tweaks"
)

// app wires the configuration, stores and services for one command run.
type app struct {
	cfg     *config.Config
	paths   *paths.Paths
	runner  execx.Runner
	reg     registry.Store
	backups *backup.Store
	engine  *engine.Engine
}

func newApp() (*app, error) {
	p := paths.New()

	cfgPath := configFile
	if cfgPath == "" {
		cfgPath = p.ConfigFile()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	var catalog *tweaks.Catalog
	if cfg.Catalog.Path != "" {
		catalog, err = tweaks.FromFile(cfg.Catalog.Path)
	} else {
		catalog, err = tweaks.Default()
	}
	if err != nil {
		return nil, err
	}

	runner := execx.NewSystem()
	reg := registry.New(runner, cfg.Timeouts.RegistryTimeouts())

	backupDir := cfg.Backup.Dir
	if backupDir == "" {
		backupDir = p.BackupDir()
	}
	backups, err := backup.NewStore(backupDir, reg, cfg.Backup.Retention)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		paths:   p,
		runner:  runner,
		reg:     reg,
		backups: backups,
		engine:  engine.New(catalog, reg, backups),
	}, nil
}

func (a *app) remover() (*debloat.Remover, error) {
	catalog, err := debloat.Default()
	if err != nil {
		return nil, err
	}
	return debloat.NewRemover(catalog, a.runner), nil
}

func (a *app) restorePoints() *restorepoint.Manager {
	return restorepoint.NewManager(a.runner)
}
