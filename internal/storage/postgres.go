package storage

import (
	"context"
	stderrors "errors"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juju/errors"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS timesheets (
	seq          BIGSERIAL,
	id           BIGINT PRIMARY KEY,
	week_number  INTEGER NOT NULL,
	date         TEXT NOT NULL,
	project      TEXT NOT NULL,
	type_of_work TEXT NOT NULL,
	description  TEXT NOT NULL,
	hours        DOUBLE PRECISION NOT NULL
)`

const pgUniqueViolation = "23505"

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, seed []internal.TimesheetEntry, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, errors.Trace(err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		logger.Errorf("failed to create timesheets table: %v", err)
		return nil, errors.Trace(err)
	}
	p := &PostgresStorage{pool: pool, logger: logger}
	if err := p.seed(ctx, seed); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *PostgresStorage) seed(ctx context.Context, seed []internal.TimesheetEntry) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		var n int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM timesheets`).Scan(&n); err != nil {
			return errors.Trace(err)
		}
		if n > 0 {
			return nil
		}
		for i := range seed {
			if err := insertPostgres(ctx, tx, &seed[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertPostgres(ctx context.Context, tx pgx.Tx, e *internal.TimesheetEntry) error {
	_, err := tx.Exec(ctx, `INSERT INTO timesheets (`+entryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`, entryArgs(e)...)
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return errors.AlreadyExistsf("timesheet %d", e.ID)
	}
	return errors.Annotatef(err, "inserting timesheet %d", e.ID)
}

// --- EntryRepository ---
func (p *PostgresStorage) ListEntries(ctx context.Context) ([]internal.TimesheetEntry, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+entryColumns+` FROM timesheets ORDER BY seq`)
	if err != nil {
		p.logger.Errorf("failed to query timesheets: %v", err)
		return nil, errors.Trace(err)
	}
	defer rows.Close()

	entries := []internal.TimesheetEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			p.logger.Errorf("failed to scan timesheet: %v", err)
			return nil, errors.Trace(err)
		}
		entries = append(entries, *e)
	}
	return entries, errors.Trace(rows.Err())
}

func (p *PostgresStorage) GetEntry(ctx context.Context, id int64) (*internal.TimesheetEntry, error) {
	e, err := scanEntry(p.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM timesheets WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NotFoundf("timesheet %d", id)
	}
	if err != nil {
		p.logger.Errorf("failed to get timesheet %d: %v", id, err)
		return nil, errors.Trace(err)
	}
	return e, nil
}

func (p *PostgresStorage) InsertEntry(ctx context.Context, entry *internal.TimesheetEntry) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return insertPostgres(ctx, tx, entry)
	})
}

func (p *PostgresStorage) ReplaceEntry(ctx context.Context, id int64, patch internal.EntryPatch) (*internal.TimesheetEntry, error) {
	var merged internal.TimesheetEntry
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		cur, err := scanEntry(tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM timesheets WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.NotFoundf("timesheet %d", id)
		}
		if err != nil {
			return errors.Trace(err)
		}
		merged = cur.Apply(patch)
		_, err = tx.Exec(ctx,
			`UPDATE timesheets SET week_number = $1, date = $2, project = $3, type_of_work = $4, description = $5, hours = $6 WHERE id = $7`,
			merged.WeekNumber, merged.Date, merged.Project, merged.TypeOfWork, merged.Description, merged.Hours, id)
		return errors.Annotatef(err, "updating timesheet %d", id)
	})
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

func (p *PostgresStorage) RemoveEntry(ctx context.Context, id int64) (*internal.TimesheetEntry, error) {
	e, err := scanEntry(p.pool.QueryRow(ctx, `DELETE FROM timesheets WHERE id = $1 RETURNING `+entryColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NotFoundf("timesheet %d", id)
	}
	if err != nil {
		p.logger.Errorf("failed to delete timesheet %d: %v", id, err)
		return nil, errors.Trace(err)
	}
	return e, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- Compile-time assertions ---
var _ EntryRepository = (*PostgresStorage)(nil)
