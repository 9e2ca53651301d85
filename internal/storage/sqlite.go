package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/juju/errors"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS timesheets (
	id           INTEGER NOT NULL UNIQUE,
	week_number  INTEGER NOT NULL,
	date         TEXT    NOT NULL,
	project      TEXT    NOT NULL,
	type_of_work TEXT    NOT NULL,
	description  TEXT    NOT NULL,
	hours        REAL    NOT NULL
);`

// SQLiteStorage keeps entries in a SQLite database. Insertion order is rowid order.
type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

// NewSQLiteStorage opens (or creates) the database at path and seeds it when empty.
// Use ":memory:" for a throwaway database.
func NewSQLiteStorage(ctx context.Context, path string, seed []internal.TimesheetEntry, logger internal.Logger) (*SQLiteStorage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Annotate(err, "creating db directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Errorf("failed to open sqlite database %s: %v", path, err)
		return nil, errors.Annotate(err, "opening database")
	}
	// One connection: ":memory:" databases are per connection, and writers serialise anyway.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA busy_timeout=5000", sqliteSchema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Annotatef(err, "exec %q", stmt)
		}
	}

	s := &SQLiteStorage{db: db, logger: logger}
	if err := s.seed(ctx, seed); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) seed(ctx context.Context, seed []internal.TimesheetEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Trace(err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM timesheets`).Scan(&n); err != nil {
		return errors.Annotate(err, "counting timesheets")
	}
	if n > 0 {
		return nil
	}
	for i := range seed {
		if err := insertSQLite(ctx, tx, &seed[i]); err != nil {
			return err
		}
	}
	return errors.Trace(tx.Commit())
}

func (s *SQLiteStorage) ListEntries(ctx context.Context) ([]internal.TimesheetEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM timesheets ORDER BY rowid`)
	if err != nil {
		s.logger.Errorf("failed to query timesheets: %v", err)
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	entries := []internal.TimesheetEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			s.logger.Errorf("failed to scan timesheet: %v", err)
			return nil, errors.Trace(err)
		}
		entries = append(entries, *e)
	}
	return entries, errors.Trace(rows.Err())
}

func (s *SQLiteStorage) GetEntry(ctx context.Context, id int64) (*internal.TimesheetEntry, error) {
	return getSQLite(ctx, s.db, id)
}

type sqlQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func getSQLite(ctx context.Context, q sqlQuerier, id int64) (*internal.TimesheetEntry, error) {
	e, err := scanEntry(q.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM timesheets WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("timesheet %d", id)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	return e, nil
}

func insertSQLite(ctx context.Context, q sqlQuerier, e *internal.TimesheetEntry) error {
	var exists int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM timesheets WHERE id = ?`, e.ID).Scan(&exists)
	if err == nil {
		return errors.AlreadyExistsf("timesheet %d", e.ID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return errors.Trace(err)
	}
	_, err = q.ExecContext(ctx, `INSERT INTO timesheets (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`, entryArgs(e)...)
	return errors.Annotatef(err, "inserting timesheet %d", e.ID)
}

func (s *SQLiteStorage) InsertEntry(ctx context.Context, entry *internal.TimesheetEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Trace(err)
	}
	defer tx.Rollback()
	if err := insertSQLite(ctx, tx, entry); err != nil {
		return err
	}
	return errors.Trace(tx.Commit())
}

func (s *SQLiteStorage) ReplaceEntry(ctx context.Context, id int64, patch internal.EntryPatch) (*internal.TimesheetEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer tx.Rollback()

	cur, err := getSQLite(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	merged := cur.Apply(patch)
	_, err = tx.ExecContext(ctx,
		`UPDATE timesheets SET week_number = ?, date = ?, project = ?, type_of_work = ?, description = ?, hours = ? WHERE id = ?`,
		merged.WeekNumber, merged.Date, merged.Project, merged.TypeOfWork, merged.Description, merged.Hours, id)
	if err != nil {
		return nil, errors.Annotatef(err, "updating timesheet %d", id)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Trace(err)
	}
	return &merged, nil
}

func (s *SQLiteStorage) RemoveEntry(ctx context.Context, id int64) (*internal.TimesheetEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer tx.Rollback()

	cur, err := getSQLite(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM timesheets WHERE id = ?`, id); err != nil {
		return nil, errors.Annotatef(err, "deleting timesheet %d", id)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Trace(err)
	}
	return cur, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- Compile-time assertions ---
var _ EntryRepository = (*SQLiteStorage)(nil)
