package scheduler

import (
	"go.uber.org/zap"

	"tolltariff/core/directory"
	"tolltariff/internal/logging"
)

// DirectoryReload re-reads the directory override files and publishes
// the new snapshot. A failed reload keeps the previous snapshot.
type DirectoryReload struct {
	holder *directory.Holder
}

// NewDirectoryReload creates the reload job for holder
func NewDirectoryReload(holder *directory.Holder) *DirectoryReload {
	return &DirectoryReload{holder: holder}
}

func (j *DirectoryReload) Name() string {
	return "directory_reload"
}

func (j *DirectoryReload) Run() error {
	d, err := j.holder.Reload()
	if err != nil {
		return err
	}
	logging.Named("scheduler").Info("directory reloaded", zap.Int("overrides", d.OverrideCount()))
	return nil
}
