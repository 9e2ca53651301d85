package storage

import (
	"context"
	"sync"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/juju/errors"
)

// MemoryStorage keeps entries in insertion order with an id index.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries []*internal.TimesheetEntry
	byID    map[int64]*internal.TimesheetEntry
}

func NewMemoryStorage(seed []internal.TimesheetEntry) (*MemoryStorage, error) {
	s := &MemoryStorage{byID: make(map[int64]*internal.TimesheetEntry)}
	for i := range seed {
		if err := s.insert(seed[i]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemoryStorage) insert(e internal.TimesheetEntry) error {
	if _, ok := s.byID[e.ID]; ok {
		return errors.AlreadyExistsf("timesheet %d", e.ID)
	}
	e.Status = ""
	s.entries = append(s.entries, &e)
	s.byID[e.ID] = &e
	return nil
}

func (s *MemoryStorage) ListEntries(ctx context.Context) ([]internal.TimesheetEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]internal.TimesheetEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out, nil
}

func (s *MemoryStorage) GetEntry(ctx context.Context, id int64) (*internal.TimesheetEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFoundf("timesheet %d", id)
	}
	cp := *e
	return &cp, nil
}

func (s *MemoryStorage) InsertEntry(ctx context.Context, entry *internal.TimesheetEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(*entry)
}

func (s *MemoryStorage) ReplaceEntry(ctx context.Context, id int64, patch internal.EntryPatch) (*internal.TimesheetEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFoundf("timesheet %d", id)
	}
	*e = e.Apply(patch)
	cp := *e
	return &cp, nil
}

func (s *MemoryStorage) RemoveEntry(ctx context.Context, id int64) (*internal.TimesheetEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFoundf("timesheet %d", id)
	}
	delete(s.byID, id)
	for i, cur := range s.entries {
		if cur.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return e, nil
}

func (s *MemoryStorage) Close() error { return nil }

// --- Compile-time assertions ---
var _ EntryRepository = (*MemoryStorage)(nil)
