package service

import (
	"context"
	"strings"
	"sync"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/Sintu8737/timesheet/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/juju/clock"
	"github.com/juju/errors"
)

// EntryRequest is the body of a create request: every entry field except id and status.
type EntryRequest struct {
	WeekNumber  int     `json:"weekNumber" validate:"omitempty,min=1,max=53"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Project     string  `json:"project" validate:"required,project"`
	TypeOfWork  string  `json:"typeOfWork" validate:"required,worktype"`
	Description string  `json:"description" validate:"required"`
	Hours       float64 `json:"hours" validate:"required,gt=0,lte=24"`
}

func requestFromEntry(e internal.TimesheetEntry) EntryRequest {
	return EntryRequest{
		WeekNumber:  e.WeekNumber,
		Date:        e.Date,
		Project:     e.Project,
		TypeOfWork:  e.TypeOfWork,
		Description: e.Description,
		Hours:       e.Hours,
	}
}

type Options struct {
	// Threshold is the weekly hours required for COMPLETED. Defaults to 40.
	Threshold float64
	Catalog   internal.Catalog
	Clock     clock.Clock
	Logger    internal.Logger
}

// TimesheetService is the validated CRUD surface over an EntryRepository. Reads share
// the lock and mutations hold it exclusively, so status is always derived from a
// consistent view of the store.
type TimesheetService struct {
	mu        sync.RWMutex
	repo      storage.EntryRepository
	ids       *idGenerator
	validate  *validator.Validate
	catalog   internal.Catalog
	threshold float64
	logger    internal.Logger
}

// NewTimesheetService rejects a repository that already holds an entry the create rules
// would refuse, so every stored entry stays updatable.
func NewTimesheetService(ctx context.Context, repo storage.EntryRepository, opts Options) (*TimesheetService, error) {
	if opts.Threshold <= 0 {
		opts.Threshold = internal.DefaultWeeklyThreshold
	}
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.Logger == nil {
		opts.Logger = internal.NopLogger()
	}
	v, err := newValidator(opts.Catalog)
	if err != nil {
		return nil, err
	}
	s := &TimesheetService{
		repo:      repo,
		ids:       &idGenerator{clock: opts.Clock},
		validate:  v,
		catalog:   opts.Catalog,
		threshold: opts.Threshold,
		logger:    opts.Logger,
	}
	if err := s.checkStored(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *TimesheetService) checkStored(ctx context.Context) error {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return errors.Annotate(err, "listing timesheets")
	}
	for _, e := range entries {
		req := requestFromEntry(e)
		if err := validateStruct(s.validate, s.catalog, &req); err != nil {
			s.logger.Errorf("stored timesheet %d is invalid: %v", e.ID, err)
			return errors.Annotatef(err, "stored timesheet %d", e.ID)
		}
	}
	return nil
}

func (s *TimesheetService) Threshold() float64 { return s.threshold }

func (s *TimesheetService) Catalog() internal.Catalog { return s.catalog }

func (s *TimesheetService) List(ctx context.Context) ([]internal.TimesheetEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "listing timesheets")
	}
	return internal.WithStatus(entries, s.threshold), nil
}

func (s *TimesheetService) Get(ctx context.Context, id int64) (*internal.TimesheetEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withStatus(ctx, e)
}

func (s *TimesheetService) Create(ctx context.Context, req *EntryRequest) (*internal.TimesheetEntry, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := validateStruct(s.validate, s.catalog, req); err != nil {
		return nil, err
	}
	if req.WeekNumber == 0 {
		week, err := internal.ISOWeek(req.Date)
		if err != nil {
			return nil, errors.Trace(err)
		}
		req.WeekNumber = week
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := &internal.TimesheetEntry{
		ID:          s.ids.next(),
		WeekNumber:  req.WeekNumber,
		Date:        req.Date,
		Project:     req.Project,
		TypeOfWork:  req.TypeOfWork,
		Description: req.Description,
		Hours:       req.Hours,
	}
	if err := s.repo.InsertEntry(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Infof("timesheet %d created for week %d", e.ID, e.WeekNumber)
	return s.withStatus(ctx, e)
}

// Update merges the supplied fields into entry id. Only supplied fields are validated
// and the merged entry must still satisfy every create-time rule. A new date without a
// weekNumber moves the entry to the date's week.
func (s *TimesheetService) Update(ctx context.Context, id int64, patch *internal.EntryPatch) (*internal.TimesheetEntry, error) {
	patch.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(s.validate, s.catalog, patch); err != nil {
		return nil, err
	}
	if patch.Date != nil && *patch.Date != cur.Date && patch.WeekNumber == nil {
		week, err := internal.ISOWeek(*patch.Date)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if week != cur.WeekNumber {
			patch.WeekNumber = &week
		}
	}
	merged := requestFromEntry(cur.Apply(*patch))
	if err := validateStruct(s.validate, s.catalog, &merged); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return s.withStatus(ctx, cur)
	}

	e, err := s.repo.ReplaceEntry(ctx, id, *patch)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("timesheet %d updated", id)
	return s.withStatus(ctx, e)
}

func (s *TimesheetService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.repo.RemoveEntry(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Infof("timesheet %d deleted from week %d", e.ID, e.WeekNumber)
	return nil
}

// Weeks summarises hours and status for every week that has entries.
func (s *TimesheetService) Weeks(ctx context.Context) ([]internal.WeekSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "listing timesheets")
	}
	return internal.SummarizeWeeks(entries, s.threshold), nil
}

// withStatus derives e's status from its week. Callers hold s.mu.
func (s *TimesheetService) withStatus(ctx context.Context, e *internal.TimesheetEntry) (*internal.TimesheetEntry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "listing timesheets")
	}
	total := internal.WeekTotals(entries)[e.WeekNumber]
	out := *e
	out.Status = internal.WeekStatus(total, s.threshold)
	return &out, nil
}

// idGenerator hands out millisecond timestamps, bumped when the clock has not moved past
// the last id. Callers hold the service write lock.
type idGenerator struct {
	clock clock.Clock
	last  int64
}

func (g *idGenerator) next() int64 {
	id := g.clock.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
