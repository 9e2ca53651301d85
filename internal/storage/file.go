package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Sintu8737/timesheet/internal"
	jujuerrors "github.com/juju/errors"
)

// FileStorage is a MemoryStorage snapshotted to a JSON file. Writes are batched by a
// background worker; Close flushes synchronously.
type FileStorage struct {
	*MemoryStorage
	dataFile     string
	saveChan     chan struct{}
	shutdownChan chan struct{}
	done         chan struct{}
	closeOnce    sync.Once
	saveDelay    time.Duration
	logger       internal.Logger
}

// NewFileStorage loads dataFile, or starts from seed when the file does not exist yet.
func NewFileStorage(dataFile string, seed []internal.TimesheetEntry, logger internal.Logger) (*FileStorage, error) {
	entries, found, err := loadEntries(dataFile)
	if err != nil {
		logger.Errorf("storage: failed to load timesheets from %s: %v", dataFile, err)
		return nil, err
	}
	if !found {
		entries = seed
	}
	mem, err := NewMemoryStorage(entries)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(dataFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, jujuerrors.Annotatef(err, "creating data directory %s", dir)
		}
	}

	s := &FileStorage{
		MemoryStorage: mem,
		dataFile:      dataFile,
		saveChan:      make(chan struct{}, 1),
		shutdownChan:  make(chan struct{}),
		done:          make(chan struct{}),
		saveDelay:     500 * time.Millisecond,
		logger:        logger,
	}
	if !found {
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	go s.saveWorker()
	return s, nil
}

func loadEntries(path string) ([]internal.TimesheetEntry, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	var entries []internal.TimesheetEntry
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, true, nil
		}
		return nil, false, err
	}
	return entries, true, nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) save() error {
	entries, err := s.MemoryStorage.ListEntries(context.Background())
	if err != nil {
		return err
	}
	return atomicWriteFileJSON(s.dataFile, entries)
}

func (s *FileStorage) saveWorker() {
	defer close(s.done)
	timer := time.NewTimer(s.saveDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: error saving timesheets: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) markDirty() {
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

func (s *FileStorage) InsertEntry(ctx context.Context, entry *internal.TimesheetEntry) error {
	if err := s.MemoryStorage.InsertEntry(ctx, entry); err != nil {
		return err
	}
	s.markDirty()
	return nil
}

func (s *FileStorage) ReplaceEntry(ctx context.Context, id int64, patch internal.EntryPatch) (*internal.TimesheetEntry, error) {
	e, err := s.MemoryStorage.ReplaceEntry(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.markDirty()
	return e, nil
}

func (s *FileStorage) RemoveEntry(ctx context.Context, id int64) (*internal.TimesheetEntry, error) {
	e, err := s.MemoryStorage.RemoveEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	s.markDirty()
	return e, nil
}

// Close stops the save worker and writes pending changes.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		<-s.done
		err = s.save()
	})
	return err
}

// --- Compile-time assertions ---
var _ EntryRepository = (*FileStorage)(nil)
