// Package app wires the configured rate store, group directory and
// background jobs for the CLI and the server binary.
package app

import (
	"context"

	"go.uber.org/zap"

	"tolltariff/api"
	"tolltariff/core/directory"
	"tolltariff/db"
	"tolltariff/internal/config"
	"tolltariff/internal/logging"
	"tolltariff/internal/scheduler"
)

// App holds the long-lived collaborators of one process
type App struct {
	Config    *config.Config
	Store     db.Store
	Directory *directory.Holder
}

// DirectorySources returns the directory files named by cfg
func DirectorySources(cfg *config.Config) directory.Sources {
	return directory.Sources{
		LandgroupsMap: cfg.Directory.LandgroupsMap,
		CountryNames:  cfg.Directory.CountryNames,
		GroupsHCL:     cfg.Directory.GroupsHCL,
	}
}

// LoadDirectory builds the first directory snapshot
func LoadDirectory(cfg *config.Config) (*directory.Holder, error) {
	src := DirectorySources(cfg)
	d, err := directory.Load(src)
	if err != nil {
		return nil, err
	}
	return directory.NewHolder(d, src), nil
}

// Open opens the rate store and loads the directory
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := db.Open(ctx, db.Options{
		Driver: db.Driver(cfg.Data.Driver),
		URL:    cfg.Data.DatabaseURL,
	})
	if err != nil {
		return nil, err
	}

	holder, err := LoadDirectory(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	logging.Named("app").Debug("opened",
		zap.String("driver", cfg.Data.Driver),
		zap.Int("directory_overrides", holder.Current().OverrideCount()))

	return &App{Config: cfg, Store: store, Directory: holder}, nil
}

// Close releases the rate store
func (a *App) Close() error {
	return a.Store.Close()
}

// Serve runs the HTTP API until ctx is done. When a reload schedule is
// configured the directory is re-read in the background.
func (a *App) Serve(ctx context.Context, version string) error {
	if schedule := a.Config.Directory.ReloadSchedule; schedule != "" {
		sched := scheduler.New()
		if err := sched.AddJob(schedule, scheduler.NewDirectoryReload(a.Directory)); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	server := api.NewServer(version, a.Store, a.Directory, a.Config)
	return server.ListenAndServe(ctx, a.Config.Server.Addr)
}
