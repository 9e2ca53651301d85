package storage

import (
	"context"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/Sintu8737/timesheet/internal/config"
	"github.com/juju/errors"
)

// New opens the backend selected by cfg.StorageBackend, seeding it when it starts empty.
func New(ctx context.Context, cfg *config.Config, seed []internal.TimesheetEntry, logger internal.Logger) (EntryRepository, error) {
	logger.Infof("storage: using %s backend", cfg.StorageBackend)
	var (
		repo EntryRepository
		err  error
	)
	switch cfg.StorageBackend {
	case config.BackendMemory:
		repo, err = NewMemoryStorage(seed)
	case config.BackendFile:
		repo, err = NewFileStorage(cfg.DataFile, seed, logger)
	case config.BackendSQLite:
		repo, err = NewSQLiteStorage(ctx, cfg.SQLitePath, seed, logger)
	case config.BackendPostgres:
		repo, err = NewPostgresStorage(ctx, cfg.PostgresDSN, seed, logger)
	default:
		return nil, errors.NotSupportedf("storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}
