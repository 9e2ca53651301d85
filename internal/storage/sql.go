package storage

import "github.com/Sintu8737/timesheet/internal"

// Column order shared by the SQL backends.
const entryColumns = `id, week_number, date, project, type_of_work, description, hours`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*internal.TimesheetEntry, error) {
	var e internal.TimesheetEntry
	if err := row.Scan(&e.ID, &e.WeekNumber, &e.Date, &e.Project, &e.TypeOfWork, &e.Description, &e.Hours); err != nil {
		return nil, err
	}
	return &e, nil
}

func entryArgs(e *internal.TimesheetEntry) []any {
	return []any{e.ID, e.WeekNumber, e.Date, e.Project, e.TypeOfWork, e.Description, e.Hours}
}
