package storage

import (
	"context"

	"github.com/Sintu8737/timesheet/internal"
)

// EntryRepository is the authoritative collection of timesheet entries. Every method is
// atomic with respect to concurrent callers. Returned entries carry no status.
type EntryRepository interface {
	ListEntries(ctx context.Context) ([]internal.TimesheetEntry, error)
	GetEntry(ctx context.Context, id int64) (*internal.TimesheetEntry, error)
	InsertEntry(ctx context.Context, entry *internal.TimesheetEntry) error
	ReplaceEntry(ctx context.Context, id int64, patch internal.EntryPatch) (*internal.TimesheetEntry, error)
	RemoveEntry(ctx context.Context, id int64) (*internal.TimesheetEntry, error)
	Close() error
}
