package api

import (
	"github.com/Sintu8737/timesheet/internal"
	"github.com/Sintu8737/timesheet/internal/auth"
	"github.com/Sintu8737/timesheet/internal/metrics"
	"github.com/Sintu8737/timesheet/internal/service"
)

type App interface {
	Logger() internal.Logger
	Timesheets() *service.TimesheetService
	AuthProvider() auth.Provider
	Sessions() *auth.Sessions
	Metrics() *metrics.Metrics
	Env() string
}

// Application is the App assembled by cmd/server.
type Application struct {
	Log        internal.Logger
	Service    *service.TimesheetService
	Provider   auth.Provider
	SessionSet *auth.Sessions
	Collectors *metrics.Metrics
	AppEnv     string
}

func (a *Application) Logger() internal.Logger               { return a.Log }
func (a *Application) Timesheets() *service.TimesheetService { return a.Service }
func (a *Application) AuthProvider() auth.Provider           { return a.Provider }
func (a *Application) Sessions() *auth.Sessions              { return a.SessionSet }
func (a *Application) Metrics() *metrics.Metrics             { return a.Collectors }
func (a *Application) Env() string                           { return a.AppEnv }

var _ App = (*Application)(nil)
