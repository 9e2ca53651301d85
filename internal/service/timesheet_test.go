package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/Sintu8737/timesheet/internal/storage"
	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = internal.Catalog{
	Projects:  []string{"Alpha", "Beta"},
	WorkTypes: []string{"Design", "Development"},
}

func newTestService(t *testing.T, seed []internal.TimesheetEntry) (*TimesheetService, *testclock.Clock) {
	repo, err := storage.NewMemoryStorage(seed)
	require.NoError(t, err)
	clk := testclock.NewClock(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC))
	svc, err := NewTimesheetService(context.Background(), repo, Options{Threshold: 40, Catalog: testCatalog, Clock: clk})
	require.NoError(t, err)
	return svc, clk
}

func kickoff() *EntryRequest {
	return &EntryRequest{Project: "Alpha", TypeOfWork: "Design", Description: "Kickoff", Hours: 4, Date: "2024-01-08", WeekNumber: 1}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.NotValid), "expected validation error, got %v", err)
	var ve *internal.ValidationError
	require.True(t, errors.As(err, &ve))
	return ve.Fields
}

func TestCreateGetDeleteScenario(t *testing.T) {
	ctx := context.Background()
	svc, clk := newTestService(t, nil)

	created, err := svc.Create(ctx, kickoff())
	require.NoError(t, err)
	assert.Equal(t, clk.Now().UnixMilli(), created.ID)
	assert.Equal(t, internal.StatusIncomplete, created.Status)
	assert.Equal(t, internal.TimesheetEntry{
		ID: created.ID, WeekNumber: 1, Date: "2024-01-08", Project: "Alpha", TypeOfWork: "Design",
		Description: "Kickoff", Hours: 4, Status: internal.StatusIncomplete,
	}, *created)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, errors.NotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, created.ID), errors.NotFound))
}

func TestCreate_RejectsHoursOutOfRange(t *testing.T) {
	svc, _ := newTestService(t, nil)
	for _, h := range []float64{0, -1, -0.5, 24.01, 25, 100} {
		req := kickoff()
		req.Hours = h
		_, err := svc.Create(context.Background(), req)
		assert.Contains(t, fieldErrors(t, err), "hours", "hours=%v", h)
	}
	for _, h := range []float64{0.5, 24} {
		req := kickoff()
		req.Hours = h
		_, err := svc.Create(context.Background(), req)
		assert.NoError(t, err, "hours=%v", h)
	}
}

func TestCreate_FieldErrors(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.Create(context.Background(), &EntryRequest{
		Project:     "Omega",
		Description: "   ",
		Hours:       30,
		Date:        "2024-02-30",
		WeekNumber:  60,
	})
	fields := fieldErrors(t, err)
	assert.Equal(t, "Project must be one of: Alpha, Beta", fields["project"])
	assert.Equal(t, "Type of work is required", fields["typeOfWork"])
	assert.Equal(t, "Description is required", fields["description"])
	assert.Equal(t, "Hours cannot exceed 24", fields["hours"])
	assert.Equal(t, "Date must be a valid date (YYYY-MM-DD)", fields["date"])
	assert.Equal(t, "Week number must be between 1 and 53", fields["weekNumber"])

	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreate_DerivesWeekFromDate(t *testing.T) {
	svc, _ := newTestService(t, nil)
	req := kickoff()
	req.WeekNumber = 0
	req.Description = "  trimmed  "
	e, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, e.WeekNumber)
	assert.Equal(t, "trimmed", e.Description)
}

func TestCreate_IDsStrictlyIncrease(t *testing.T) {
	svc, clk := newTestService(t, nil)
	ctx := context.Background()
	a, err := svc.Create(ctx, kickoff())
	require.NoError(t, err)
	b, err := svc.Create(ctx, kickoff())
	require.NoError(t, err)
	assert.Equal(t, a.ID+1, b.ID, "clock did not move")

	clk.Advance(time.Second)
	c, err := svc.Create(ctx, kickoff())
	require.NoError(t, err)
	assert.Equal(t, clk.Now().UnixMilli(), c.ID)
}

func TestCreate_DuplicateID(t *testing.T) {
	clk := testclock.NewClock(time.UnixMilli(5))
	repo, err := storage.NewMemoryStorage([]internal.TimesheetEntry{
		{ID: 5, WeekNumber: 1, Date: "2024-01-01", Project: "Alpha", TypeOfWork: "Design", Description: "x", Hours: 1},
	})
	require.NoError(t, err)
	svc, err := NewTimesheetService(context.Background(), repo, Options{Catalog: testCatalog, Clock: clk})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), kickoff())
	assert.True(t, errors.Is(err, errors.AlreadyExists), "got %v", err)
}

func TestStatusFollowsWeekTotal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	var ids []int64
	for i := 0; i < 5; i++ {
		req := kickoff()
		req.Hours = 8
		e, err := svc.Create(ctx, req)
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	other := kickoff()
	other.WeekNumber = 2
	_, err := svc.Create(ctx, other)
	require.NoError(t, err)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	for _, e := range entries {
		if e.WeekNumber == 1 {
			assert.Equal(t, internal.StatusCompleted, e.Status)
		} else {
			assert.Equal(t, internal.StatusIncomplete, e.Status)
		}
	}

	require.NoError(t, svc.Delete(ctx, ids[0]))
	e, err := svc.Get(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, internal.StatusIncomplete, e.Status, "status recomputed after delete")

	weeks, err := svc.Weeks(ctx)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, internal.WeekSummary{WeekNumber: 1, Hours: 32, Entries: 4, Status: internal.StatusIncomplete}, weeks[0])
}

func TestUpdate_PartialKeepsUntouchedFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	created, err := svc.Create(ctx, kickoff())
	require.NoError(t, err)

	hours := 8.0
	updated, err := svc.Update(ctx, created.ID, &internal.EntryPatch{Hours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 8.0, updated.Hours)
	assert.Equal(t, created.Project, updated.Project)
	assert.Equal(t, created.TypeOfWork, updated.TypeOfWork)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Date, updated.Date)
	assert.Equal(t, created.WeekNumber, updated.WeekNumber)
	assert.Equal(t, created.ID, updated.ID)

	again, err := svc.Update(ctx, created.ID, &internal.EntryPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, again)
}

func TestUpdate_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	created, err := svc.Create(ctx, kickoff())
	require.NoError(t, err)

	hours := 25.0
	_, err = svc.Update(ctx, 12345, &internal.EntryPatch{Hours: &hours})
	assert.True(t, errors.Is(err, errors.NotFound))

	_, err = svc.Update(ctx, created.ID, &internal.EntryPatch{Hours: &hours})
	assert.Contains(t, fieldErrors(t, err), "hours")

	zero := 0.0
	_, err = svc.Update(ctx, created.ID, &internal.EntryPatch{Hours: &zero})
	assert.Contains(t, fieldErrors(t, err), "hours")

	week := 0
	_, err = svc.Update(ctx, created.ID, &internal.EntryPatch{WeekNumber: &week})
	assert.Contains(t, fieldErrors(t, err), "weekNumber")

	blank := "  "
	project := "Nope"
	_, err = svc.Update(ctx, created.ID, &internal.EntryPatch{Description: &blank, Project: &project})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "project")

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Hours, "rejected updates leave the entry unchanged")
	assert.Equal(t, "Kickoff", got.Description)
}

func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, kickoff())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
	seen := make(map[int64]bool)
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
	}
}

func TestNewTimesheetService_RejectsInvalidStoredEntries(t *testing.T) {
	for name, e := range map[string]internal.TimesheetEntry{
		"hours too high":  {ID: 1, WeekNumber: 1, Date: "2024-01-01", Project: "Alpha", TypeOfWork: "Design", Description: "x", Hours: 30},
		"unknown project": {ID: 1, WeekNumber: 1, Date: "2024-01-01", Project: "Omega", TypeOfWork: "Design", Description: "x", Hours: 2},
	} {
		t.Run(name, func(t *testing.T) {
			repo, err := storage.NewMemoryStorage([]internal.TimesheetEntry{e})
			require.NoError(t, err)
			_, err = NewTimesheetService(context.Background(), repo, Options{Catalog: testCatalog})
			assert.True(t, errors.Is(err, errors.NotValid), "got %v", err)
		})
	}
}

func TestUpdate_NewDateMovesWeek(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	created, err := svc.Create(ctx, kickoff())
	require.NoError(t, err)
	require.Equal(t, 1, created.WeekNumber)

	date := "2024-01-16"
	moved, err := svc.Update(ctx, created.ID, &internal.EntryPatch{Date: &date})
	require.NoError(t, err)
	assert.Equal(t, 3, moved.WeekNumber)
	assert.Equal(t, date, moved.Date)

	date, week := "2024-01-17", 7
	pinned, err := svc.Update(ctx, created.ID, &internal.EntryPatch{Date: &date, WeekNumber: &week})
	require.NoError(t, err)
	assert.Equal(t, 7, pinned.WeekNumber, "explicit week wins")

	hours := 2.0
	kept, err := svc.Update(ctx, created.ID, &internal.EntryPatch{Hours: &hours})
	require.NoError(t, err)
	assert.Equal(t, 7, kept.WeekNumber)

	weeks, err := svc.Weeks(ctx)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, 7, weeks[0].WeekNumber)
}
